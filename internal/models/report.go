package models

import "time"

// Reconciliation statuses as they appear in the report.
const (
	StatusMatch       = "OK"
	StatusDiscrepancy = "ELTÉR"
)

// AggregateRecord accumulates every log line carrying the same raw barcode.
type AggregateRecord struct {
	Barcode         string
	Count           int
	Comment         string
	PublicationYear string
	Name            string
	Publisher       string
	Product         *Product
}

// ReportRow is one line of the discrepancy report.
type ReportRow struct {
	ProductID         string `json:"product_id" yaml:"product_id" csv:"Cikkszám"`
	Barcode           string `json:"barcode" yaml:"barcode" csv:"Vonalkód"`
	NormalizedBarcode string `json:"normalized_barcode" yaml:"normalized_barcode" csv:"Norm. vonalkód"`
	Name              string `json:"name" yaml:"name" csv:"Cikknév"`
	Publisher         string `json:"publisher" yaml:"publisher" csv:"Kiadó"`
	RecordedStock     int    `json:"recorded_stock" yaml:"recorded_stock" csv:"Készlet sz. m."`
	CountedQuantity   int    `json:"counted_quantity" yaml:"counted_quantity" csv:"Talált db"`
	Status            string `json:"status" yaml:"status" csv:"Eltérés"`
}

// Discrepant reports whether the counted quantity differs from the recorded stock.
func (r ReportRow) Discrepant() bool {
	return r.Status == StatusDiscrepancy
}

// ReportSummary holds the headline numbers of one reconciliation run.
type ReportSummary struct {
	Rows          int `json:"rows" yaml:"rows"`
	Matches       int `json:"matches" yaml:"matches"`
	Discrepancies int `json:"discrepancies" yaml:"discrepancies"`
	Unresolved    int `json:"unresolved" yaml:"unresolved"`
	SkippedLines  int `json:"skipped_lines" yaml:"skipped_lines"`
}

// Report is the outcome of one reconciliation run.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	SourceFiles []string      `json:"source_files" yaml:"source_files"`
	Summary     ReportSummary `json:"summary" yaml:"summary"`
	Rows        []ReportRow   `json:"rows" yaml:"rows"`
}
