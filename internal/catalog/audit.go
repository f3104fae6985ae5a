package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"cartographia/stocktake/internal/barcode"

	"github.com/gocarina/gocsv"
)

// Audit markers.
const (
	AuditSuspicious = "GYANÚS"
	AuditValid      = "OK"
	AuditInvalid    = "ÉRVÉNYTELEN"
)

// AuditRow describes the barcode quality of one catalog product.
type AuditRow struct {
	Barcode    string `csv:"Vonalkód"`
	Normalized string `csv:"Normalizált"`
	Suspicious string `csv:"Gyanús?"`
	Valid      string `csv:"OK?"`
	Name       string `csv:"Név"`
	Publisher  string `csv:"Kiadó"`
	Stock      string `csv:"DB"`
	ID         string `csv:"Id"`
}

// AuditRows checks every product's barcode, in file order.
func (c *Catalog) AuditRows() []AuditRow {
	rows := make([]AuditRow, 0, len(c.products))
	for _, p := range c.products {
		row := AuditRow{
			Barcode:    p.Barcode(),
			Normalized: barcode.DigitsOnly(p.Barcode()),
			Valid:      AuditInvalid,
			Name:       p.Name(),
			Publisher:  p.Publisher(),
			ID:         p.ID(),
		}
		if barcode.IsSuspicious(p.Barcode()) {
			row.Suspicious = AuditSuspicious
		}
		if barcode.IsValid(p.Barcode()) {
			row.Valid = AuditValid
		}
		if stock, ok := p.Stock(); ok {
			row.Stock = strconv.Itoa(stock)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteAudit writes audit rows as a tab separated table with a header line.
func WriteAudit(w io.Writer, rows []AuditRow) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = '\t'
	csvWriter.UseCRLF = true

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing audit rows: %w", err)
	}
	return nil
}
