// Package barcode holds the barcode normalization rules and the GTIN/EAN/ISBN
// check-digit algorithms. Everything here is a pure function.
package barcode

import (
	"regexp"
	"strings"
)

// ZeroGlyph is typed by the 0 key on Hungarian keyboard layouts when a
// scanner emulates a US keyboard. Tokens treat it as a literal '0'.
const ZeroGlyph = 'ö'

var (
	nonDigit        = regexp.MustCompile(`[^0-9]`)
	publisherSuffix = regexp.MustCompile(`-(?:[0-9]{2}|[0-9]{5})$`)
	numericToken    = regexp.MustCompile(`^[-_ö0-9]+$`)
)

// DigitsOnly removes every non-digit character.
func DigitsOnly(code string) string {
	return nonDigit.ReplaceAllString(code, "")
}

// Normalize returns the catalog lookup key of a barcode. A trailing "-NN" or
// "-NNNNN" publisher/volume suffix is stripped first, then every remaining
// non-digit is dropped. Normalize is idempotent.
func Normalize(code string) string {
	return DigitsOnly(publisherSuffix.ReplaceAllString(code, ""))
}

// IsNumericToken reports whether operator input belongs to the numeric class:
// digits, hyphens, underscores and the alternate zero glyph only.
func IsNumericToken(input string) bool {
	return numericToken.MatchString(input)
}

// NormalizeToken maps the alternate zero glyph to '0' and removes hyphens.
// Underscores are kept, so a token containing one never parses as a number.
func NormalizeToken(input string) string {
	return strings.ReplaceAll(strings.ReplaceAll(input, string(ZeroGlyph), "0"), "-", "")
}

// IsSuspicious reports whether a catalog barcode contains anything besides digits.
func IsSuspicious(code string) bool {
	return DigitsOnly(code) != code
}
