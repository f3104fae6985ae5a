// Package reconcile merges session log files and compares the counted
// quantities with the catalog's recorded stock.
package reconcile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cartographia/stocktake/internal/barcode"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/csvline"
	"cartographia/stocktake/internal/fileutils"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/stockerror"

	"github.com/google/uuid"
)

const (
	logExtension   = ".csv"
	mergedSuffix   = "_leltár_részletes_adatok.csv"
	reportSuffix   = "_leltár_eredmény.csv"
	lineEnding     = "\r\n"
	maxLogLineSize = 1024 * 1024
)

// MergedFileName returns the name of the merged log written on date.
func MergedFileName(date time.Time) string {
	return date.Format(models.DateLayout) + mergedSuffix
}

// ReportFileName returns the name of the tab separated report written on date.
func ReportFileName(date time.Time) string {
	return date.Format(models.DateLayout) + reportSuffix
}

// LogFiles lists the session logs in dir in lexicographic order.
// A missing directory means there is nothing to reconcile.
func LogFiles(dir string) ([]string, error) {
	return fileutils.ListFilesWithExtension(dir, logExtension)
}

// Reconciler aggregates session logs.
type Reconciler struct {
	logger logging.Logger
	now    func() time.Time
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(logger logging.Logger) *Reconciler {
	return &Reconciler{
		logger: logger.WithField(logging.FieldComponent, "reconciler"),
		now:    time.Now,
	}
}

// aggregation keeps records in first-seen order.
type aggregation struct {
	order   []string
	records map[string]*models.AggregateRecord
}

// Reconcile reads every log file in lexicographic order and returns their
// concatenated text together with the discrepancy report. Counts are summed
// per raw barcode; lines without a usable count are skipped and reported to
// warnings but still copied to the merged text.
func (r *Reconciler) Reconcile(paths []string, cat *catalog.Catalog, warnings *stockerror.Warnings) (string, *models.Report, error) {
	if cat == nil {
		cat = catalog.Empty()
	}
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	agg := &aggregation{records: make(map[string]*models.AggregateRecord)}
	var (
		merged  strings.Builder
		sources []string
		skipped int
	)
	for _, path := range sorted {
		n, err := r.readLog(path, cat, agg, &merged, warnings)
		if err != nil {
			return "", nil, err
		}
		skipped += n
		sources = append(sources, filepath.Base(path))
	}

	report := &models.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: r.now(),
		SourceFiles: sources,
	}
	for _, code := range agg.order {
		row := buildRow(agg.records[code])
		report.Rows = append(report.Rows, row)
		if row.Discrepant() {
			report.Summary.Discrepancies++
		} else {
			report.Summary.Matches++
		}
		if agg.records[code].Product == nil {
			report.Summary.Unresolved++
		}
	}
	report.Summary.Rows = len(report.Rows)
	report.Summary.SkippedLines = skipped

	r.logger.Info("Session logs reconciled",
		logging.F(logging.FieldRunID, report.RunID),
		logging.F("files", len(sources)),
		logging.F("rows", report.Summary.Rows),
		logging.F("discrepancies", report.Summary.Discrepancies))
	return merged.String(), report, nil
}

func (r *Reconciler) readLog(path string, cat *catalog.Catalog, agg *aggregation, merged *strings.Builder, warnings *stockerror.Warnings) (int, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from the log directory listing
	if err != nil {
		return 0, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			r.logger.WithError(cerr).Warn("Failed to close log file")
		}
	}()

	logger := r.logger.WithField(logging.FieldFile, path)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)

	var lineNo, skipped, used int
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		merged.WriteString(line)
		merged.WriteString(lineEnding)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		values := padFields(csvline.ParseLine(line, '\t', '"'))

		code := values[models.ColBarcode]
		if code == "" {
			skipped++
			warnings.Add(&stockerror.ParseSkip{Source: path, Line: lineNo, Reason: "no barcode"})
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(values[models.ColCount]))
		if err != nil {
			skipped++
			warnings.Add(&stockerror.ParseSkip{Source: path, Line: lineNo, Reason: fmt.Sprintf("count %q is not a number", values[models.ColCount])})
			logger.Debug("Log line skipped", logging.F(logging.FieldLine, lineNo))
			continue
		}

		used++
		if rec, ok := agg.records[code]; ok {
			rec.Count += count
			continue
		}
		agg.order = append(agg.order, code)
		agg.records[code] = &models.AggregateRecord{
			Barcode:         code,
			Count:           count,
			Comment:         values[models.ColComment],
			PublicationYear: values[models.ColPublicationYear],
			Name:            values[models.ColName],
			Publisher:       values[models.ColPublisher],
			Product:         cat.ByOriginal(code),
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("failed to read log file %s: %w", path, err)
	}

	logger.Debug("Log file read", logging.F("lines", lineNo), logging.F("used", used))
	return skipped, nil
}

// padFields returns a slice with exactly models.LogColumns slots.
func padFields(fields []string) []string {
	values := make([]string, models.LogColumns)
	copy(values, fields)
	return values
}

func buildRow(rec *models.AggregateRecord) models.ReportRow {
	row := models.ReportRow{
		Barcode:           rec.Barcode,
		NormalizedBarcode: barcode.Normalize(rec.Barcode),
		Name:              rec.Name,
		Publisher:         rec.Publisher,
		CountedQuantity:   rec.Count,
	}
	if p := rec.Product; p != nil {
		row.ProductID = p.ID()
		row.NormalizedBarcode = p.NormalizedBarcode()
		row.Name = p.Name()
		row.Publisher = p.Publisher()
		if stock, ok := p.Stock(); ok {
			row.RecordedStock = stock
		}
	}

	row.Status = models.StatusMatch
	if row.RecordedStock != row.CountedQuantity {
		row.Status = models.StatusDiscrepancy
	}
	return row
}

// WriteMerged writes the merged log text to path, creating parent directories.
func WriteMerged(path, merged string) error {
	if err := fileutils.WriteFile(path, []byte(merged)); err != nil {
		return fmt.Errorf("error writing merged log: %w", err)
	}
	return nil
}
