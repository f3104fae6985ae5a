// Package report renders reconciliation reports in the supported export formats.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cartographia/stocktake/internal/csvline"
	"cartographia/stocktake/internal/fileutils"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatTSV  = "tsv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// Formats lists every supported format.
var Formats = []string{FormatTSV, FormatJSON, FormatYAML, FormatXLSX}

var extensions = map[string]string{
	FormatTSV:  ".csv",
	FormatJSON: ".json",
	FormatYAML: ".yaml",
	FormatXLSX: ".xlsx",
}

// Header is the column header of the tabular formats.
var Header = []string{"Cikkszám", "Vonalkód", "Norm. vonalkód", "Cikknév", "Kiadó", "Készlet sz. m.", "Talált db", "Eltérés"}

const sheetName = "Leltár"

// Generator renders reports.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{
		logger: logger.WithField(logging.FieldComponent, "report"),
	}
}

// Extension returns the file extension of format, including the dot.
func Extension(format string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
	return ext, nil
}

// Generate renders report in format.
func (g *Generator) Generate(report *models.Report, format string) ([]byte, error) {
	switch format {
	case FormatTSV:
		return g.generateTSV(report), nil
	case FormatJSON:
		return g.generateJSON(report)
	case FormatYAML:
		return g.generateYAML(report)
	case FormatXLSX:
		return g.generateXLSX(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteFiles renders report in every format and writes the results next to
// each other in dir as baseName plus the format's extension. It returns the
// written paths in format order.
func (g *Generator) WriteFiles(report *models.Report, dir, baseName string, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		ext, err := Extension(format)
		if err != nil {
			return paths, err
		}
		data, err := g.Generate(report, format)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(dir, baseName+ext)
		if err := fileutils.WriteFile(path, data); err != nil {
			return paths, fmt.Errorf("error writing %s report: %w", format, err)
		}
		g.logger.Info("Report written",
			logging.F(logging.FieldFormat, format),
			logging.F(logging.FieldOutputFile, path))
		paths = append(paths, path)
	}
	return paths, nil
}

// generateTSV renders the tab separated layout: text columns are quoted,
// the quantities and the status are bare.
func (g *Generator) generateTSV(report *models.Report) []byte {
	var b strings.Builder
	b.WriteString(csvline.FormatLine(Header, '\t', '"'))
	b.WriteString("\r\n")

	for _, row := range report.Rows {
		text := csvline.FormatLine([]string{row.ProductID, row.Barcode, row.NormalizedBarcode, row.Name, row.Publisher}, '\t', '"')
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\r\n", text, row.RecordedStock, row.CountedQuantity, row.Status)
	}
	return []byte(b.String())
}

func (g *Generator) generateJSON(report *models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return data, nil
}

func (g *Generator) generateYAML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) generateXLSX(report *models.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to prepare workbook: %w", err)
	}

	set := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, value)
	}

	for i, h := range Header {
		if err := set(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("failed to write XLSX header: %w", err)
		}
	}
	for r, row := range report.Rows {
		values := []interface{}{
			row.ProductID, row.Barcode, row.NormalizedBarcode, row.Name, row.Publisher,
			row.RecordedStock, row.CountedQuantity, row.Status,
		}
		for c, v := range values {
			if err := set(c+1, r+2, v); err != nil {
				return nil, fmt.Errorf("failed to write XLSX row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render XLSX report: %w", err)
	}
	return buf.Bytes(), nil
}
