// Package archive keeps a history of reconciliation runs in a SQLite file.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"cartographia/stocktake/internal/fileutils"
	"cartographia/stocktake/internal/models"

	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is the stored header of one reconciliation.
type Run struct {
	ID          string
	GeneratedAt time.Time
	SourceFiles []string
	Summary     models.ReportSummary
}

// DB is an open archive.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*DB, error) {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to configure archive %s: %w", path, err)
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize archive %s: %w", path, err)
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  generatedAt TEXT NOT NULL,
  sourceFilesJson TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  matches INTEGER NOT NULL,
  discrepancies INTEGER NOT NULL,
  unresolved INTEGER NOT NULL,
  skippedLines INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_rows (
  runId TEXT NOT NULL,
  position INTEGER NOT NULL,
  productId TEXT NOT NULL,
  barcode TEXT NOT NULL,
  normalizedBarcode TEXT NOT NULL,
  name TEXT NOT NULL,
  publisher TEXT NOT NULL,
  recordedStock INTEGER NOT NULL,
  countedQuantity INTEGER NOT NULL,
  status TEXT NOT NULL,
  PRIMARY KEY(runId, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_run_rows_barcode ON run_rows(normalizedBarcode);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SaveRun stores report and its rows in one transaction.
func (d *DB) SaveRun(report *models.Report) error {
	sourcesJSON, err := json.Marshal(report.SourceFiles)
	if err != nil {
		return fmt.Errorf("failed to encode source files: %w", err)
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	s := report.Summary
	if _, err := tx.Exec(`
INSERT INTO runs (id, generatedAt, sourceFilesJson, rowCount, matches, discrepancies, unresolved, skippedLines)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.GeneratedAt.UTC().Format(time.RFC3339Nano), string(sourcesJSON),
		s.Rows, s.Matches, s.Discrepancies, s.Unresolved, s.SkippedLines,
	); err != nil {
		return fmt.Errorf("failed to store run %s: %w", report.RunID, err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO run_rows (
  runId, position, productId, barcode, normalizedBarcode, name, publisher,
  recordedStock, countedQuantity, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range report.Rows {
		if _, err := stmt.Exec(
			report.RunID, i, r.ProductID, r.Barcode, r.NormalizedBarcode, r.Name, r.Publisher,
			r.RecordedStock, r.CountedQuantity, r.Status,
		); err != nil {
			return fmt.Errorf("failed to store row %d of run %s: %w", i, report.RunID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the stored runs, newest first.
func (d *DB) ListRuns() ([]Run, error) {
	rows, err := d.conn.Query(`
SELECT id, generatedAt, sourceFilesJson, rowCount, matches, discrepancies, unresolved, skippedLines
FROM runs
ORDER BY generatedAt DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			run         Run
			generatedAt string
			sourcesJSON string
		)
		if err := rows.Scan(&run.ID, &generatedAt, &sourcesJSON,
			&run.Summary.Rows, &run.Summary.Matches, &run.Summary.Discrepancies,
			&run.Summary.Unresolved, &run.Summary.SkippedLines); err != nil {
			return nil, err
		}
		if run.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
			return nil, fmt.Errorf("run %s: bad timestamp %q: %w", run.ID, generatedAt, err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &run.SourceFiles); err != nil {
			return nil, fmt.Errorf("run %s: bad source list: %w", run.ID, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Rows returns the report rows of a run in their original order.
func (d *DB) Rows(runID string) ([]models.ReportRow, error) {
	var exists int
	err := d.conn.QueryRow(`SELECT COUNT(1) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := d.conn.Query(`
SELECT productId, barcode, normalizedBarcode, name, publisher, recordedStock, countedQuantity, status
FROM run_rows
WHERE runId = ?
ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReportRow
	for rows.Next() {
		var r models.ReportRow
		if err := rows.Scan(&r.ProductID, &r.Barcode, &r.NormalizedBarcode, &r.Name, &r.Publisher,
			&r.RecordedStock, &r.CountedQuantity, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
