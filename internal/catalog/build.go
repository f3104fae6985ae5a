package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cartographia/stocktake/internal/csvline"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/stockerror"
)

// Separators are tried in this order on the first line of a catalog file.
var Separators = []rune{'\t', ';', ','}

const (
	utf8BOM       = "\uFEFF"
	maxLineLength = 1024 * 1024
)

// Build reads a catalog CSV file. The file may be tab, semicolon or comma
// separated; columns are barcode, name, publisher, stock count and product id,
// the last two optional. A .xlsx file is read with ReadXLSX instead. Per-line problems are reported to warnings and the
// line is skipped. A missing file or a file without a single usable row
// yields a *stockerror.IngestError.
func Build(path string, warnings *stockerror.Warnings, logger logging.Logger) (*Catalog, error) {
	absPath, _ := filepath.Abs(path)
	logger = logger.WithField(logging.FieldFile, path)

	file, err := os.Open(path) // #nosec G304 -- catalog path is operator supplied
	if err != nil {
		reason := "file cannot be opened"
		if errors.Is(err, os.ErrNotExist) {
			reason = "file not found"
		}
		return nil, &stockerror.IngestError{Path: path, AbsPath: absPath, Reason: reason, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close catalog file")
		}
	}()

	read := Read
	if strings.EqualFold(filepath.Ext(path), WorkbookExtension) {
		read = ReadXLSX
	}
	c, err := read(file, path, warnings, logger)
	if err != nil {
		var ingestErr *stockerror.IngestError
		if errors.As(err, &ingestErr) {
			ingestErr.AbsPath = absPath
		}
		return nil, err
	}
	return c, nil
}

// Read builds a catalog from r. source names the input in warnings and errors.
func Read(r io.Reader, source string, warnings *stockerror.Warnings, logger logging.Logger) (*Catalog, error) {
	c := Empty()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		separator rune
		lineNo    int
	)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
			separator = DetectSeparator(line)
			logger.Debug("Catalog separator detected",
				logging.F(logging.FieldDelimiter, string(separator)))
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		c.ingestRow(csvline.ParseLine(line, separator, csvline.DefaultQuote), source, lineNo, warnings, logger)
	}
	if err := scanner.Err(); err != nil {
		return nil, &stockerror.IngestError{Path: source, Reason: fmt.Sprintf("read failed at line %d", lineNo+1), Err: err}
	}

	return c.finish(source, logger)
}

// ingestRow adds one catalog row, reporting unusable rows and duplicate
// barcodes to warnings.
func (c *Catalog) ingestRow(fields []string, source string, lineNo int, warnings *stockerror.Warnings, logger logging.Logger) {
	p, skip := parseRow(fields)
	if skip != "" {
		warnings.Add(&stockerror.ParseSkip{Source: source, Line: lineNo, Reason: skip})
		logger.Debug("Catalog line skipped",
			logging.F(logging.FieldLine, lineNo),
			logging.F("reason", skip))
		return
	}

	if c.has(p.NormalizedBarcode()) {
		warnings.Add(&stockerror.ValidationWarning{
			Kind:    stockerror.DuplicateBarcode,
			Barcode: p.Barcode(),
			Source:  source,
			Line:    lineNo,
		})
		logger.Warn("Duplicate barcode in catalog",
			logging.F(logging.FieldBarcode, p.Barcode()),
			logging.F(logging.FieldNormalized, p.NormalizedBarcode()),
			logging.F(logging.FieldLine, lineNo))
	}
	c.add(p)
}

func (c *Catalog) finish(source string, logger logging.Logger) (*Catalog, error) {
	if c.Len() == 0 {
		return nil, &stockerror.IngestError{Path: source, Reason: "no valid entries"}
	}

	logger.Info("Catalog loaded",
		logging.F(logging.FieldCount, c.Len()),
		logging.F("distinct_barcodes", len(c.byCode)))
	return c, nil
}

// DetectSeparator returns the first separator that splits line into more
// than one field, falling back to a comma.
func DetectSeparator(line string) rune {
	for _, sep := range Separators {
		if len(csvline.ParseLine(line, sep, csvline.DefaultQuote)) > 1 {
			return sep
		}
	}
	return csvline.DefaultSeparator
}

// parseRow maps fields onto a product. A non-empty skip reason means the row
// is unusable.
func parseRow(fields []string) (p *models.Product, skip string) {
	if len(fields) < 3 {
		return nil, fmt.Sprintf("%d field(s), need at least 3", len(fields))
	}

	code, name, publisher := fields[0], fields[1], fields[2]
	var stock *int
	var id string
	if len(fields) >= 4 {
		stock = parseStock(fields[3])
	}
	if len(fields) >= 5 {
		id = fields[4]
	}

	p = models.NewProduct(code, name, publisher, stock, id)
	if p.NormalizedBarcode() == "" {
		return nil, fmt.Sprintf("barcode %q has no digits", code)
	}
	return p, ""
}

// parseStock returns nil when the value is not an integer; unknown stock is
// kept apart from a stock of zero.
func parseStock(value string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	return &n
}
