// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/reconcile"
	"cartographia/stocktake/internal/stockerror"
	"cartographia/stocktake/internal/validation"
)

// ReportWriter writes a report in several formats.
type ReportWriter interface {
	WriteFiles(report *models.Report, dir, baseName string, formats []string) ([]string, error)
}

// RunArchiver stores reconciliation runs.
type RunArchiver interface {
	SaveRun(report *models.Report) error
}

// ReconcileOptions locates the input and output of a reconciliation.
type ReconcileOptions struct {
	LogDir    string
	ReportDir string
	Formats   []string
	// Now dates the output file names; zero means the current time.
	Now time.Time
}

// ReconcileOutcome lists what a reconciliation produced. Report is nil when
// there were no session logs.
type ReconcileOutcome struct {
	Report      *models.Report
	MergedPath  string
	ReportPaths []string
	Warnings    *stockerror.Warnings
}

// ProcessLogs reconciles every session log of opts.LogDir against cat,
// writes the merged log and the report files into opts.ReportDir and, when
// archiver is not nil, archives the run.
func ProcessLogs(opts ReconcileOptions, cat *catalog.Catalog, reconciler *reconcile.Reconciler, writer ReportWriter, archiver RunArchiver, logger logging.Logger) (*ReconcileOutcome, error) {
	if err := validation.ValidateOutputFormats(opts.Formats); err != nil {
		return nil, err
	}
	if err := validation.IsValidDirectory(opts.ReportDir); err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	paths, err := reconcile.LogFiles(opts.LogDir)
	if err != nil {
		return nil, fmt.Errorf("error listing session logs: %w", err)
	}
	outcome := &ReconcileOutcome{Warnings: &stockerror.Warnings{}}
	if len(paths) == 0 {
		logger.Info("No session logs to reconcile", logging.F(logging.FieldFile, opts.LogDir))
		return outcome, nil
	}

	merged, report, err := reconciler.Reconcile(paths, cat, outcome.Warnings)
	if err != nil {
		return nil, err
	}
	outcome.Report = report

	outcome.MergedPath = filepath.Join(opts.ReportDir, reconcile.MergedFileName(now))
	if err := reconcile.WriteMerged(outcome.MergedPath, merged); err != nil {
		return nil, err
	}

	baseName := strings.TrimSuffix(reconcile.ReportFileName(now), filepath.Ext(reconcile.ReportFileName(now)))
	outcome.ReportPaths, err = writer.WriteFiles(report, opts.ReportDir, baseName, opts.Formats)
	if err != nil {
		return nil, err
	}

	if archiver != nil {
		if err := archiver.SaveRun(report); err != nil {
			return nil, fmt.Errorf("error archiving run %s: %w", report.RunID, err)
		}
		logger.Info("Run archived", logging.F(logging.FieldRunID, report.RunID))
	}
	return outcome, nil
}

// PrintWarnings writes one line per warning and returns how many there were.
func PrintWarnings(out io.Writer, warnings *stockerror.Warnings) int {
	for _, w := range warnings.List() {
		fmt.Fprintf(out, "! %v\n", w)
	}
	return warnings.Len()
}

// PrintSummary writes the headline numbers of a report.
func PrintSummary(out io.Writer, report *models.Report) {
	s := report.Summary
	fmt.Fprintf(out, "Futás: %s\n", report.RunID)
	fmt.Fprintf(out, "Fájlok: %s\n", strings.Join(report.SourceFiles, ", "))
	fmt.Fprintf(out, "Tételek: %d, egyezik: %d, eltér: %d, ismeretlen: %d, kihagyott sor: %d\n",
		s.Rows, s.Matches, s.Discrepancies, s.Unresolved, s.SkippedLines)
}
