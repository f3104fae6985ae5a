// Package scan runs an interactive counting session on the terminal.
package scan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cartographia/stocktake/cmd/root"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/session"
	"cartographia/stocktake/internal/store"
	"cartographia/stocktake/internal/validation"

	"github.com/spf13/cobra"
)

// Input commands understood besides tokens.
const (
	QuitCommand    = ":q"
	PreviewPrefix  = "?"
	EntriesCommand = ":l"
)

var (
	operator string
	location string
)

// Cmd represents the scan command
var Cmd = &cobra.Command{
	Use:   "scan",
	Short: "Record counted items from barcodes and adjustments",
	Long: `Start a counting session. Every line read from standard input is one token:
a barcode starts a new entry, a short number sets its count (below 1900) or
publication year (1900-2099), anything else becomes its comment.

"?<token>" previews what a token would do, ":l" lists the session entries and
":q" or end of input closes the session.`,
	RunE: scanFunc,
}

func init() {
	Cmd.Flags().StringVarP(&operator, "operator", "u", "", "Operator name (default from session.operator)")
	Cmd.Flags().StringVarP(&location, "location", "l", "", "Counting location (default: first known location)")
}

func scanFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger()

	opts, err := ResolveOptions(operator, location, cfg.Session.Operator, cfg.Session.Location, c.GetLocations())
	if err != nil {
		return err
	}
	opts.LogDir = cfg.Session.LogDir

	if c.CatalogError() != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "A termékadatbázis nem tölthető be, a termékek nem ismerhetők fel.")
	}

	if err := Run(cmd.InOrStdin(), cmd.OutOrStdout(), opts, c.GetCatalog(), logger); err != nil {
		logger.WithError(err).Error("Session failed")
		return err
	}
	return nil
}

// ResolveOptions picks the operator and location of a session, flags first,
// then configuration, and validates both.
func ResolveOptions(flagOperator, flagLocation, cfgOperator, cfgLocation string, locations store.LocationLoader) (session.Options, error) {
	op := flagOperator
	if op == "" {
		op = cfgOperator
	}
	if err := validation.IsValidName("operator", op); err != nil {
		return session.Options{}, err
	}

	loc := flagLocation
	if loc == "" {
		loc = cfgLocation
	}
	loc, err := store.Resolve(locations, loc)
	if err != nil {
		return session.Options{}, err
	}
	if err := validation.IsValidName("location", loc); err != nil {
		return session.Options{}, err
	}

	return session.Options{Operator: op, Location: loc, Started: time.Now()}, nil
}

// Run reads tokens from in until EOF or QuitCommand and feeds them to a new
// session. The session is always closed, flushing the open entry.
func Run(in io.Reader, out io.Writer, opts session.Options, cat *catalog.Catalog, logger logging.Logger) (err error) {
	scanner := bufio.NewScanner(in)
	p := &prompter{scanner: scanner, out: out}

	sess, err := session.Open(opts, cat, logger, session.WithChooser(session.ChooserFunc(p.choose)))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	fmt.Fprintf(out, "Napló: %s\n", sess.Path())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == QuitCommand:
			return nil
		case line == EntriesCommand:
			printEntries(out, sess.Entries())
			continue
		case strings.HasPrefix(line, PreviewPrefix) && len(line) > len(PreviewPrefix):
			fmt.Fprintln(out, sess.Preview(line[len(PreviewPrefix):]).String())
			continue
		}

		res, err := sess.Feed(line)
		if err != nil {
			return err
		}
		printResult(out, res)
	}
	return scanner.Err()
}

// prompter asks the operator to pick one of several products sharing a
// barcode. It reads the answer from the same input as the tokens.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *prompter) choose(code string, candidates []*models.Product) *models.Product {
	fmt.Fprintf(p.out, "Több termék azonos vonalkóddal: %d (%s)\n", len(candidates), code)
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %d) %s | %s | %s\n", i+1, c.Name(), c.Publisher(), c.Barcode())
	}
	fmt.Fprint(p.out, "Választás (üres = egyik sem): ")

	if !p.scanner.Scan() {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.scanner.Text()))
	if err != nil || n < 1 || n > len(candidates) {
		return nil
	}
	return candidates[n-1]
}

func printResult(out io.Writer, res session.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "! %v\n", w)
	}
	if res.ZeroStock {
		fmt.Fprintln(out, "! A nyilvántartott készlet 0")
	}
	if res.Entry == nil {
		return
	}
	fmt.Fprintln(out, FormatEntry(res.Entry))
}

func printEntries(out io.Writer, entries []models.LogEntry) {
	for i := range entries {
		fmt.Fprintln(out, FormatEntry(&entries[i]))
	}
}

// FormatEntry renders an entry as one display line.
func FormatEntry(e *models.LogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  x%d", e.Time(), e.Barcode, e.Count)
	if e.PublicationYear != "" {
		fmt.Fprintf(&b, "  [%s]", e.PublicationYear)
	}
	if name := e.Name(); name != "" {
		fmt.Fprintf(&b, "  %s", name)
		if pub := e.Publisher(); pub != "" {
			fmt.Fprintf(&b, " (%s)", pub)
		}
	} else {
		b.WriteString("  Ismeretlen termék")
	}
	if e.Comment != "" {
		fmt.Fprintf(&b, "  # %s", e.Comment)
	}
	return b.String()
}
