// Package csvline tokenizes and serializes single delimited text lines.
//
// The dialect is deliberately loose: a quote character toggles quoted mode,
// a doubled quote inside a quoted section yields one literal quote, and any
// malformed input still produces a best-effort split instead of an error.
// Catalog exports from spreadsheet tools and the session log files both use it.
package csvline

import "strings"

const (
	DefaultSeparator = ','
	DefaultQuote     = '"'
)

// ParseLine splits one line into fields.
//
// Outside quotes the separator ends a field, '\r' is dropped and '\n' stops
// parsing. Inside quotes every rune except the quote is taken literally.
// A zero separator or quote falls back to the defaults.
func ParseLine(line string, separator, quote rune) []string {
	if separator == 0 || separator == ' ' {
		separator = DefaultSeparator
	}
	if quote == 0 || quote == ' ' {
		quote = DefaultQuote
	}

	var (
		fields     []string
		cur        strings.Builder
		inQuotes   bool
		justClosed bool
	)

	for _, ch := range line {
		if inQuotes {
			if ch == quote {
				inQuotes = false
				justClosed = true
				continue
			}
			cur.WriteRune(ch)
			continue
		}

		if ch == quote {
			// "" inside a quoted section: close immediately followed by reopen
			if justClosed {
				cur.WriteRune(quote)
			}
			inQuotes = true
			justClosed = false
			continue
		}
		justClosed = false

		switch ch {
		case separator:
			fields = append(fields, cur.String())
			cur.Reset()
		case '\r':
		case '\n':
			return append(fields, cur.String())
		default:
			cur.WriteRune(ch)
		}
	}

	return append(fields, cur.String())
}

// FormatLine joins fields with the separator, wrapping every field in quotes
// and doubling embedded quotes. ParseLine reverses it exactly.
func FormatLine(fields []string, separator, quote rune) string {
	if separator == 0 {
		separator = DefaultSeparator
	}
	if quote == 0 {
		quote = DefaultQuote
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteRune(separator)
		}
		b.WriteString(Quote(f, quote))
	}
	return b.String()
}

// Quote wraps s in the quote rune, doubling quotes already inside it.
func Quote(s string, quote rune) string {
	q := string(quote)
	return q + strings.ReplaceAll(s, q, q+q) + q
}
