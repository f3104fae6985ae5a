// Package validation checks user supplied settings before any work starts.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// SupportedReportFormats lists the report formats accepted by IsValidOutputFormat.
var SupportedReportFormats = []string{"tsv", "json", "yaml", "xlsx"}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	for _, f := range SupportedReportFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s",
		format, quoteList(SupportedReportFormats))
}

// ValidateOutputFormats checks a format list: it must not be empty and every
// entry must be supported and appear once.
func ValidateOutputFormats(formats []string) error {
	if len(formats) == 0 {
		return fmt.Errorf("at least one output format is required")
	}
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if err := IsValidOutputFormat(f); err != nil {
			return err
		}
		if seen[f] {
			return fmt.Errorf("output format listed twice: %s", f)
		}
		seen[f] = true
	}
	return nil
}

// IsValidName checks an operator or location name. Names end up in log file
// names and log records, so they must be non-blank and free of tabs, quotes
// and line breaks.
func IsValidName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s must not be empty", kind)
	}
	if strings.ContainsAny(name, "\t\r\n\"") {
		return fmt.Errorf("%s %q contains tab, quote or line break characters", kind, name)
	}
	return nil
}

// IsValidDirectory checks that path is either missing (it will be created)
// or an existing directory.
func IsValidDirectory(path string) error {
	if path == "" {
		return fmt.Errorf("directory path must not be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
