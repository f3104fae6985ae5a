package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID:       "5f0c3c0e-8f5e-4d4e-9b43-1f0e5a8f2a11",
		GeneratedAt: time.Date(2026, 10, 18, 17, 0, 0, 0, time.UTC),
		SourceFiles: []string{"2026-10-18_Éva_raktár1.csv"},
		Summary:     models.ReportSummary{Rows: 2, Matches: 1, Discrepancies: 1, Unresolved: 1},
		Rows: []models.ReportRow{
			{
				ProductID: "CA-1", Barcode: "978-963-123456-6", NormalizedBarcode: "9789631234566",
				Name: `Atlasz "Budapest"`, Publisher: "Cartographia",
				RecordedStock: 4, CountedQuantity: 4, Status: models.StatusMatch,
			},
			{
				Barcode: "12345670", NormalizedBarcode: "12345670",
				CountedQuantity: 2, Status: models.StatusDiscrepancy,
			},
		},
	}
}

func TestGenerate_TSV(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(), FormatTSV)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "\"Cikkszám\"\t\"Vonalkód\"\t\"Norm. vonalkód\"\t\"Cikknév\"\t\"Kiadó\"\t\"Készlet sz. m.\"\t\"Talált db\"\t\"Eltérés\"", lines[0])
	assert.Equal(t, "\"CA-1\"\t\"978-963-123456-6\"\t\"9789631234566\"\t\"Atlasz \"\"Budapest\"\"\"\t\"Cartographia\"\t4\t4\tOK", lines[1])
	assert.Equal(t, "\"\"\t\"12345670\"\t\"12345670\"\t\"\"\t\"\"\t0\t2\tELTÉR", lines[2])
	assert.Empty(t, lines[3])
}

func TestGenerate_JSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(), FormatJSON)
	require.NoError(t, err)

	var decoded models.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleReport().RunID, decoded.RunID)
	assert.Equal(t, 1, decoded.Summary.Discrepancies)
	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, `Atlasz "Budapest"`, decoded.Rows[0].Name)
	assert.Contains(t, string(data), `"counted_quantity": 2`)
}

func TestGenerate_YAML(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(), FormatYAML)
	require.NoError(t, err)

	var decoded models.Report
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, sampleReport().SourceFiles, decoded.SourceFiles)
	assert.Equal(t, models.StatusDiscrepancy, decoded.Rows[1].Status)
	assert.Contains(t, string(data), "run_id: 5f0c3c0e-8f5e-4d4e-9b43-1f0e5a8f2a11")
}

func TestGenerate_XLSX(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleReport(), FormatXLSX)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0600))
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "CA-1", rows[1][0])
	assert.Equal(t, "4", rows[1][6])
	assert.Equal(t, "ELTÉR", rows[2][7])
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	_, err := g.Generate(sampleReport(), "xml")
	assert.EqualError(t, err, "unsupported report format: xml")

	_, err = Extension("pdf")
	assert.Error(t, err)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kimutatások")
	logger := logging.NewMockLogger()
	g := NewGenerator(logger)

	paths, err := g.WriteFiles(sampleReport(), dir, "2026-10-18_leltár_eredmény", []string{FormatTSV, FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2026-10-18_leltár_eredmény.csv"),
		filepath.Join(dir, "2026-10-18_leltár_eredmény.json"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
	assert.Len(t, logger.GetEntriesByLevel("INFO"), 2)

	_, err = g.WriteFiles(sampleReport(), dir, "x", []string{"bogus"})
	assert.Error(t, err)
}
