package lookup_test

import (
	"bytes"
	"testing"

	"cartographia/stocktake/cmd/lookup"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func testCatalog() *catalog.Catalog {
	return catalog.New(
		models.NewProduct("9789631234565", "Budapest atlasz", "Cartographia", intPtr(4), "CA-1"),
		models.NewProduct("9780131103627", "The C Programming Language", "Prentice Hall", nil, "PH-1"),
		models.NewProduct("978-0131103627-01", "The C Programming Language 2nd", "Prentice Hall", nil, "PH-2"),
	)
}

func TestLookupCommand_Metadata(t *testing.T) {
	assert.Equal(t, "lookup <code or text>", lookup.Cmd.Use)
	assert.NotNil(t, lookup.Cmd.RunE)
	assert.Error(t, lookup.Cmd.Args(lookup.Cmd, nil))

	flag := lookup.Cmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "single product",
			input:    "9789631234565",
			contains: []string{"Budapest atlasz\n", "Normalizált: 9789631234565", "Ellenőrző számjegy: OK", "CA-1\tBudapest atlasz\tCartographia\tkészlet: 4"},
		},
		{
			name:     "hyphenated input",
			input:    "978-963-123456-5",
			contains: []string{"Normalizált: 9789631234565", "CA-1"},
		},
		{
			name:     "several products",
			input:    "9780131103627",
			contains: []string{"Több termék azonos vonalkóddal: 2", "PH-1", "PH-2", "készlet: ?"},
		},
		{
			name:     "unknown with bad check digit",
			input:    "12345678",
			contains: []string{"Ismeretlen termék (ÉRVÉNYTELEN ISBN!)", "Ellenőrző számjegy: ÉRVÉNYTELEN"},
			excludes: []string{"készlet"},
		},
		{
			name:     "count",
			input:    "12",
			contains: []string{"Darabszám módosítás"},
			excludes: []string{"Normalizált"},
		},
		{
			name:     "name search",
			input:    "programming",
			contains: []string{"PH-1", "PH-2"},
			excludes: []string{"CA-1"},
		},
		{
			name:     "no match",
			input:    "térkép",
			contains: []string{"Nincs találat"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			lookup.Run(&out, testCatalog(), tt.input, 10)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}
