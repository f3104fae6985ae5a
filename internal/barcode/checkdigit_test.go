package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGTINCheckDigit(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected int
		ok       bool
	}{
		{"EAN-13", "400638133393", 1, true},
		{"ISBN-13", "978013110362", 7, true},
		{"EAN-8", "9638507", 4, true},
		{"GTIN-14", "1001234567890", 2, true},
		{"sum divisible by ten", "0000000", 0, true},
		{"hyphens ignored", "978-0-13-110362", 7, true},
		{"too short", "123456", 0, false},
		{"too long", "12345678901234", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digit, ok := GTINCheckDigit(tt.base)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, digit)
		})
	}
}

func TestISBN10CheckDigit(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		expected int
		ok       bool
	}{
		{"regular", "030640615", 2, true},
		{"remainder zero", "000000000", 0, true},
		{"check value ten stays numeric", "080442957", 10, true},
		{"wrong length", "03064061", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digit, ok := ISBN10CheckDigit(tt.base)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, digit)
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{"EAN-13 valid", "4006381333931", true},
		{"EAN-13 last digit incremented", "4006381333932", false},
		{"ISBN-13 valid", "9780131103627", true},
		{"ISBN-13 with hyphens", "978-0-13-110362-7", true},
		{"EAN-8 valid", "96385074", true},
		{"EAN-8 invalid", "96385075", false},
		{"GTIN-14 valid", "10012345678902", true},
		{"ISBN-10 valid", "0306406152", true},
		{"ISBN-10 invalid", "0306406153", false},
		{"ISBN-10 with X never validates numerically", "080442957X", false},
		{"too short", "1234567", false},
		{"too long", "123456789012345", false},
		{"empty", "", false},
		{"no digits", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValid(tt.code))
		})
	}
}

func TestIsValid_AgreesWithComputedDigit(t *testing.T) {
	for _, base := range []string{"400638133393", "978963123456", "590123412345", "9638507", "1001234567890"} {
		check, ok := GTINCheckDigit(base)
		assert.True(t, ok)
		valid := base + string(rune('0'+check))
		assert.True(t, IsValid(valid), valid)

		wrong := base + string(rune('0'+(check+1)%10))
		assert.False(t, IsValid(wrong), wrong)
	}
}
