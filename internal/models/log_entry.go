package models

import (
	"time"

	"cartographia/stocktake/internal/barcode"
)

// Log entry timestamp layouts.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	TimeLayout      = "15:04:05"
	DateLayout      = "2006-01-02"
)

// Session log record columns, in file order.
const (
	ColTimestamp = iota
	ColBarcode
	ColCount
	ColComment
	ColPublicationYear
	ColLocation
	ColOperator
	ColProductID
	ColName
	ColPublisher
	ColNormalizedBarcode

	LogColumns
)

// LogEntry is one counted item of a stock-taking session. It stays mutable
// while it is the open entry of its session and is frozen by Commit.
type LogEntry struct {
	Timestamp time.Time
	// Barcode is the code as the operator entered it, or the catalog's
	// barcode when the entry was matched to a product.
	Barcode         string
	Count           int
	Comment         string
	PublicationYear string
	// Product is the matched catalog record, owned by the catalog.
	Product *Product

	committed bool
}

// NewLogEntry returns an open entry with a count of one.
func NewLogEntry(ts time.Time, code string, product *Product) *LogEntry {
	return &LogEntry{
		Timestamp: ts,
		Barcode:   code,
		Count:     1,
		Product:   product,
	}
}

// Committed reports whether the entry has been durably written.
func (e *LogEntry) Committed() bool { return e.committed }

// Commit marks the entry as durably written.
func (e *LogEntry) Commit() { e.committed = true }

// Time returns the wall-clock time of the entry for display.
func (e *LogEntry) Time() string { return e.Timestamp.Format(TimeLayout) }

// InCatalog reports whether the entry is associated with a catalog product.
func (e *LogEntry) InCatalog() bool { return e.Product != nil }

// NormalizedBarcode returns the matched product's lookup key, or the
// normalized form of the entered code when nothing matched.
func (e *LogEntry) NormalizedBarcode() string {
	if e.Product != nil {
		return e.Product.NormalizedBarcode()
	}
	return barcode.Normalize(e.Barcode)
}

func (e *LogEntry) Name() string {
	if e.Product == nil {
		return ""
	}
	return e.Product.Name()
}

func (e *LogEntry) Publisher() string {
	if e.Product == nil {
		return ""
	}
	return e.Product.Publisher()
}

func (e *LogEntry) ProductID() string {
	if e.Product == nil {
		return ""
	}
	return e.Product.ID()
}

// Stock returns the matched product's recorded stock, if known.
func (e *LogEntry) Stock() (int, bool) {
	if e.Product == nil {
		return 0, false
	}
	return e.Product.Stock()
}
