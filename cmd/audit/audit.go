// Package audit checks the barcodes of the product catalog
package audit

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cartographia/stocktake/cmd/root"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/fileutils"

	"github.com/spf13/cobra"
)

var output string

// Cmd represents the audit command
var Cmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the barcodes of the product catalog",
	Long: `Check every catalog barcode for a valid GTIN/EAN/ISBN check digit and for
suspicious suffixes, and write the findings as a tab separated table.

Use "-o -" to print the table instead of writing a file.`,
	RunE: auditFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <catalog>_ellenőrzés.csv next to the catalog)")
}

func auditFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	if err := c.CatalogError(); err != nil {
		return err
	}

	path := output
	if path == "" {
		path = DefaultOutput(c.GetConfig().Catalog.File)
	}
	rows, invalid, err := Run(c.GetCatalog(), path, cmd.OutOrStdout())
	if err != nil {
		c.GetLogger().WithError(err).Error("Catalog audit failed")
		return err
	}
	if path != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d termék, %d érvénytelen vonalkód: %s\n", rows, invalid, path)
	}
	return nil
}

// DefaultOutput returns the audit file written next to the catalog file.
func DefaultOutput(catalogFile string) string {
	base := strings.TrimSuffix(filepath.Base(catalogFile), filepath.Ext(catalogFile))
	return filepath.Join(filepath.Dir(catalogFile), base+"_ellenőrzés.csv")
}

// Run writes the audit of cat to path, or to stdout when path is "-". It
// returns the number of rows and of invalid barcodes.
func Run(cat *catalog.Catalog, path string, stdout io.Writer) (rows, invalid int, err error) {
	audit := cat.AuditRows()
	for _, r := range audit {
		if r.Valid != catalog.AuditValid {
			invalid++
		}
	}

	if path == "-" {
		return len(audit), invalid, catalog.WriteAudit(stdout, audit)
	}

	file, err := fileutils.CreateFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing audit file: %w", cerr)
		}
	}()
	if err := catalog.WriteAudit(file, audit); err != nil {
		return 0, 0, err
	}
	return len(audit), invalid, nil
}
