package catalog

import (
	"io"
	"strings"

	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/stockerror"

	"github.com/xuri/excelize/v2"
)

// WorkbookExtension marks catalog files read as Excel workbooks.
const WorkbookExtension = ".xlsx"

// ReadXLSX builds a catalog from the first sheet of an Excel workbook, one
// product per row with the same columns as the CSV catalog. Row numbers in
// warnings are the sheet's row numbers.
func ReadXLSX(r io.Reader, source string, warnings *stockerror.Warnings, logger logging.Logger) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &stockerror.IngestError{Path: source, Reason: "workbook cannot be read", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close catalog workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &stockerror.IngestError{Path: source, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &stockerror.IngestError{Path: source, Reason: "sheet " + sheets[0] + " cannot be read", Err: err}
	}
	logger.Debug("Catalog sheet read",
		logging.F("sheet", sheets[0]),
		logging.F("rows", len(rows)))

	c := Empty()
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = strings.TrimSpace(cell)
		}
		c.ingestRow(fields, source, i+1, warnings, logger)
	}
	return c.finish(source, logger)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
