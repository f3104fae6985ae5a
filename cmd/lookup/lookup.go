// Package lookup shows what the catalog knows about a code
package lookup

import (
	"fmt"
	"io"
	"strings"

	"cartographia/stocktake/cmd/root"
	"cartographia/stocktake/internal/barcode"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/session"

	"github.com/spf13/cobra"
)

// DefaultSearchLimit caps the name search results.
const DefaultSearchLimit = 20

var limit int

// Cmd represents the lookup command
var Cmd = &cobra.Command{
	Use:   "lookup <code or text>",
	Short: "Look a barcode or product name up in the catalog",
	Long: `Look a barcode up in the catalog and check its check digit. Input that is
not a barcode is searched in the product names instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: lookupFunc,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", DefaultSearchLimit, "Maximum number of name search results")
}

func lookupFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	Run(cmd.OutOrStdout(), c.GetCatalog(), strings.Join(args, " "), limit)
	return nil
}

// Run prints what the catalog holds for input.
func Run(out io.Writer, cat *catalog.Catalog, input string, limit int) {
	input = strings.TrimSpace(input)
	if !barcode.IsNumericToken(input) {
		products := cat.Search(input, limit)
		if len(products) == 0 {
			fmt.Fprintln(out, "Nincs találat")
			return
		}
		for _, p := range products {
			printProduct(out, p)
		}
		return
	}

	hint := session.Preview(cat, input)
	fmt.Fprintln(out, hint.String())

	normalized := barcode.NormalizeToken(input)
	if len(normalized) < session.MinBarcodeLength {
		return
	}
	fmt.Fprintf(out, "Normalizált: %s\n", normalized)
	if barcode.IsValid(normalized) {
		fmt.Fprintln(out, "Ellenőrző számjegy: OK")
	} else {
		fmt.Fprintln(out, "Ellenőrző számjegy: ÉRVÉNYTELEN")
	}
	for _, p := range cat.Get(normalized) {
		printProduct(out, p)
	}
}

func printProduct(out io.Writer, p *models.Product) {
	stock := "?"
	if n, ok := p.Stock(); ok {
		stock = fmt.Sprint(n)
	}
	fmt.Fprintf(out, "%s\t%s\t%s\t%s\tkészlet: %s\n", p.Barcode(), p.ID(), p.Name(), p.Publisher(), stock)
}
