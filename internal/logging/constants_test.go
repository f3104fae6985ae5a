package logging

import (
	"testing"
)

func TestConstants(t *testing.T) {
	if FieldFile == "" {
		t.Error("FieldFile constant should not be empty")
	}
	if FieldBarcode == "" {
		t.Error("FieldBarcode constant should not be empty")
	}
	if FieldDelimiter == "" {
		t.Error("FieldDelimiter constant should not be empty")
	}
	if FieldRunID == "" {
		t.Error("FieldRunID constant should not be empty")
	}
	if FieldOutputFile == "" {
		t.Error("FieldOutputFile constant should not be empty")
	}
}
