package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cartographia/stocktake/internal/csvline"
	"cartographia/stocktake/internal/fileutils"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/stockerror"
)

// LogSeparator and LogQuote define the session log dialect.
const (
	LogSeparator = '\t'
	LogQuote     = '"'
	lineEnding   = "\r\n"
)

// EntryWriter durably persists committed log entries.
type EntryWriter interface {
	WriteEntry(e *models.LogEntry) error
	Close() error
}

// LogFileName returns the session log file name for a date, operator and location.
func LogFileName(date time.Time, operator, location string) string {
	return fmt.Sprintf("%s_%s_%s.csv",
		date.Format(models.DateLayout),
		fileutils.SanitizeName(operator),
		fileutils.SanitizeName(location))
}

// FormatRecord renders one log line without the line ending.
func FormatRecord(e *models.LogEntry, operator, location string) string {
	fields := make([]string, models.LogColumns)
	fields[models.ColTimestamp] = e.Timestamp.Format(models.TimestampLayout)
	fields[models.ColBarcode] = e.Barcode
	fields[models.ColCount] = strconv.Itoa(e.Count)
	fields[models.ColComment] = e.Comment
	fields[models.ColPublicationYear] = e.PublicationYear
	fields[models.ColLocation] = location
	fields[models.ColOperator] = operator
	fields[models.ColProductID] = e.ProductID()
	fields[models.ColName] = e.Name()
	fields[models.ColPublisher] = e.Publisher()
	fields[models.ColNormalizedBarcode] = e.NormalizedBarcode()
	return csvline.FormatLine(fields, LogSeparator, LogQuote)
}

// FileWriter appends committed entries to the session's log file, syncing
// after every record.
type FileWriter struct {
	path     string
	operator string
	location string
	file     *os.File
}

// OpenFileWriter opens (or creates) the log file of the session started at
// date inside dir. Existing content is kept.
func OpenFileWriter(dir string, date time.Time, operator, location string) (*FileWriter, error) {
	path := filepath.Join(dir, LogFileName(date, operator, location))
	file, err := fileutils.OpenAppend(path)
	if err != nil {
		return nil, &stockerror.LogWriteError{Path: path, Op: "open", Err: err}
	}
	return &FileWriter{path: path, operator: operator, location: location, file: file}, nil
}

// Path returns the log file path.
func (w *FileWriter) Path() string {
	return w.path
}

// WriteEntry appends e and flushes it to stable storage.
func (w *FileWriter) WriteEntry(e *models.LogEntry) error {
	if w.file == nil {
		return &stockerror.LogWriteError{Path: w.path, Op: "append", Err: os.ErrClosed}
	}
	if _, err := w.file.WriteString(FormatRecord(e, w.operator, w.location) + lineEnding); err != nil {
		return &stockerror.LogWriteError{Path: w.path, Op: "append", Err: err}
	}
	if err := w.file.Sync(); err != nil {
		return &stockerror.LogWriteError{Path: w.path, Op: "sync", Err: err}
	}
	return nil
}

// Close closes the log file. Closing twice is a no-op.
func (w *FileWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return &stockerror.LogWriteError{Path: w.path, Op: "close", Err: err}
	}
	return nil
}
