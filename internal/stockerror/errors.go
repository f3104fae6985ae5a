// Package stockerror defines the error and warning taxonomy of the stock-taking engine.
//
// Fatal conditions (IngestError, LogWriteError) are returned as errors.
// Recoverable conditions (ValidationWarning, ParseSkip) are appended to a
// caller-supplied Warnings collector and never abort a batch.
package stockerror

import (
	"fmt"
	"strings"
)

// IngestError reports that the product catalog could not be built.
type IngestError struct {
	Path    string
	AbsPath string
	Reason  string
	Err     error
}

func (e *IngestError) Error() string {
	msg := fmt.Sprintf("catalog %q: %s", e.Path, e.Reason)
	if e.AbsPath != "" && e.AbsPath != e.Path {
		msg += fmt.Sprintf(" (resolved to %s)", e.AbsPath)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// LogWriteError reports that a session log could not be opened or appended to.
// Once returned the session must not accept further input.
type LogWriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("session log %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *LogWriteError) Unwrap() error {
	return e.Err
}

// WarningKind classifies a ValidationWarning.
type WarningKind string

const (
	DuplicateBarcode  WarningKind = "duplicate_barcode"
	InvalidCheckDigit WarningKind = "invalid_check_digit"
)

// ValidationWarning is an informational finding about a barcode.
type ValidationWarning struct {
	Kind    WarningKind
	Barcode string
	Source  string
	Line    int
}

func (w *ValidationWarning) Error() string {
	var b strings.Builder
	switch w.Kind {
	case DuplicateBarcode:
		fmt.Fprintf(&b, "duplicate barcode %q", w.Barcode)
	case InvalidCheckDigit:
		fmt.Fprintf(&b, "invalid check digit in %q", w.Barcode)
	default:
		fmt.Fprintf(&b, "%s: %q", w.Kind, w.Barcode)
	}
	if w.Source != "" {
		fmt.Fprintf(&b, " (%s:%d)", w.Source, w.Line)
	}
	return b.String()
}

// ParseSkip reports a malformed line that was skipped.
type ParseSkip struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseSkip) Error() string {
	return fmt.Sprintf("%s:%d: line skipped: %s", e.Source, e.Line, e.Reason)
}
