// Package reconcile handles the reconciliation of session logs
package reconcile

import (
	"fmt"

	"cartographia/stocktake/cmd/common"
	"cartographia/stocktake/cmd/root"

	"github.com/spf13/cobra"
)

var (
	formats   []string
	reportDir string
	noArchive bool
)

// Cmd represents the reconcile command
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Merge session logs and compare counts with recorded stock",
	Long: `Merge every session log of the log directory and compare the counted
quantities with the recorded stock of the catalog.

The merged log and the report are written into the report directory, the
report once per requested format (tsv, json, yaml, xlsx).

Example:
  stocktake reconcile -f tsv,xlsx -o kimutatások/`,
	RunE: reconcileFunc,
}

func init() {
	Cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Report formats (default from reconcile.formats)")
	Cmd.Flags().StringVarP(&reportDir, "output", "o", "", "Report directory (default from reconcile.report_dir)")
	Cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Do not archive this run even when archiving is enabled")
}

func reconcileFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger()
	out := cmd.OutOrStdout()

	opts := common.ReconcileOptions{
		LogDir:    cfg.Session.LogDir,
		ReportDir: cfg.Reconcile.ReportDir,
		Formats:   cfg.Reconcile.Formats,
	}
	if reportDir != "" {
		opts.ReportDir = reportDir
	}
	if len(formats) > 0 {
		opts.Formats = formats
	}

	var archiver common.RunArchiver
	if db := c.GetArchive(); db != nil && !noArchive {
		archiver = db
	}

	outcome, err := common.ProcessLogs(opts, c.GetCatalog(), c.GetReconciler(), c.GetReportGenerator(), archiver, logger)
	if err != nil {
		logger.WithError(err).Error("Reconciliation failed")
		return err
	}
	if outcome.Report == nil {
		fmt.Fprintf(out, "Nincs feldolgozandó napló: %s\n", opts.LogDir)
		return nil
	}

	common.PrintWarnings(out, outcome.Warnings)
	common.PrintSummary(out, outcome.Report)
	fmt.Fprintf(out, "Összesített napló: %s\n", outcome.MergedPath)
	for _, p := range outcome.ReportPaths {
		fmt.Fprintf(out, "Kimutatás: %s\n", p)
	}
	return nil
}
