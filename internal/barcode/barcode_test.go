package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"plain digits", "9789631234566", "9789631234566"},
		{"two digit suffix stripped", "9789631234566-12", "9789631234566"},
		{"five digit suffix stripped", "9789631234566-00123", "9789631234566"},
		{"only the trailing suffix is stripped", "978-963-1234-56", "9789631234"},
		{"single digit group is not a suffix", "978-963-123456-6", "9789631234566"},
		{"three digit group is not a suffix", "9789631234566-123", "9789631234566123"},
		{"letters removed", "ISBN 963 352 001 X", "963352001"},
		{"empty", "", ""},
		{"header text", "Vonalkód", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.code))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, code := range []string{"978-963-1234-56", "9789631234566-12", "5998-12345", "abc-12"} {
		once := Normalize(code)
		assert.Equal(t, once, Normalize(once), code)
	}
}

func TestNormalize_HyphenatedFormMatchesPlain(t *testing.T) {
	assert.Equal(t, Normalize("9789631234566"), Normalize("978-963-123456-6"))
	assert.Equal(t, Normalize("9789631234566"), Normalize("9789631234566-05"))
}

func TestIsNumericToken(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"9789631234566", true},
		{"978-963-123456-6", true},
		{"3", true},
		{"2020", true},
		{"12ö45678", true},
		{"__12", true},
		{"good condition", false},
		{"12a", false},
		{"12 3", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNumericToken(tt.input))
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "97890", NormalizeToken("978-9ö"))
	assert.Equal(t, "12_34", NormalizeToken("12_3-4"))
	assert.Equal(t, "00000000", NormalizeToken("öööö-öööö"))
}

func TestIsSuspicious(t *testing.T) {
	assert.False(t, IsSuspicious("9789631234566"))
	assert.True(t, IsSuspicious("978-963"))
	assert.True(t, IsSuspicious("9789631234566 "))
}
