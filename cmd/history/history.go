// Package history shows archived reconciliation runs
package history

import (
	"fmt"
	"io"

	"cartographia/stocktake/cmd/root"
	"cartographia/stocktake/internal/archive"
	"cartographia/stocktake/internal/fileutils"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/report"
	"cartographia/stocktake/internal/validation"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived reconciliation runs",
	Long: `List the reconciliation runs stored in the archive, newest first. Given a
run id, print the report rows of that run in the requested format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: historyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatTSV, "Row output format (tsv, json, yaml)")
}

func historyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}

	db := c.GetArchive()
	if db == nil {
		path := c.GetConfig().Archive.Path
		if !fileutils.FileExists(path) {
			return fmt.Errorf("no archive at %s, enable archive.enabled to record runs", path)
		}
		if db, err = archive.Open(path); err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
	}

	if len(args) == 0 {
		return ListRuns(cmd.OutOrStdout(), db)
	}
	return PrintRun(cmd.OutOrStdout(), db, c.GetReportGenerator(), args[0], format)
}

// ListRuns prints one line per archived run.
func ListRuns(out io.Writer, db *archive.DB) error {
	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("error listing runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "Nincs archivált futás")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s\t%s\t%d tétel\t%d eltérés\t%d fájl\n",
			r.ID, r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			r.Summary.Rows, r.Summary.Discrepancies, len(r.SourceFiles))
	}
	return nil
}

// PrintRun renders the rows of one archived run.
func PrintRun(out io.Writer, db *archive.DB, generator *report.Generator, runID, format string) error {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}
	if format == report.FormatXLSX {
		return fmt.Errorf("format %s cannot be printed", format)
	}

	rows, err := db.Rows(runID)
	if err != nil {
		return err
	}
	data, err := generator.Generate(&models.Report{RunID: runID, Rows: rows}, format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
