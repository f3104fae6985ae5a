package session

import (
	"errors"
	"testing"
	"time"

	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/models"
	"cartographia/stocktake/internal/stockerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	written []models.LogEntry
	err     error
}

func (m *memWriter) WriteEntry(e *models.LogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, *e)
	return nil
}

func (m *memWriter) Close() error { return nil }

var fixedTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

func intPtr(v int) *int { return &v }

func newTestClassifier(cat *catalog.Catalog, opts ...Option) (*Classifier, *memWriter) {
	w := &memWriter{}
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	return NewClassifier(cat, w, logging.NewMockLogger(), opts...), w
}

func feedAll(t *testing.T, c *Classifier, tokens ...string) []Result {
	t.Helper()
	results := make([]Result, 0, len(tokens))
	for _, token := range tokens {
		res, err := c.Feed(token)
		require.NoError(t, err)
		results = append(results, res)
	}
	return results
}

func TestClassifier_AdjustmentsStayOpen(t *testing.T) {
	c, w := newTestClassifier(nil)

	results := feedAll(t, c, "9789631234566", "3", "2020", "good condition")

	assert.Equal(t, NewBarcode, results[0].Kind)
	assert.Equal(t, CountSet, results[1].Kind)
	assert.Equal(t, YearSet, results[2].Kind)
	assert.Equal(t, CommentSet, results[3].Kind)

	open := c.Open()
	require.NotNil(t, open)
	assert.Same(t, open, results[3].Entry)
	assert.Equal(t, "9789631234566", open.Barcode)
	assert.Equal(t, 3, open.Count)
	assert.Equal(t, "2020", open.PublicationYear)
	assert.Equal(t, "good condition", open.Comment)
	assert.False(t, open.Committed())
	assert.False(t, open.InCatalog())
	assert.Empty(t, w.written)
	assert.Len(t, c.Entries(), 1)
}

func TestClassifier_NewBarcodeCommitsPrevious(t *testing.T) {
	c, w := newTestClassifier(nil)

	feedAll(t, c, "9789631234566", "9780131103627")

	require.Len(t, w.written, 1)
	assert.Equal(t, "9789631234566", w.written[0].Barcode)
	assert.Equal(t, 1, w.written[0].Count)
	assert.Empty(t, w.written[0].Comment)

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "9780131103627", entries[0].Barcode)
	assert.False(t, entries[0].Committed())
	assert.Equal(t, "9789631234566", entries[1].Barcode)
	assert.True(t, entries[1].Committed())
}

func TestClassifier_Flush(t *testing.T) {
	c, w := newTestClassifier(nil)
	feedAll(t, c, "9780131103627", "2")

	require.NoError(t, c.Flush())
	require.Len(t, w.written, 1)
	assert.Equal(t, 2, w.written[0].Count)
	assert.Nil(t, c.Open())

	// nothing open: flushing again writes nothing
	require.NoError(t, c.Flush())
	assert.Len(t, w.written, 1)

	res, err := c.Feed("5")
	require.NoError(t, err)
	assert.Equal(t, Ignored, res.Kind)
	assert.Nil(t, res.Entry)
}

func TestClassifier_NumericBoundaries(t *testing.T) {
	tests := []struct {
		token string
		kind  ResultKind
		count int
		year  string
	}{
		{"0", CountSet, 0, ""},
		{"1899", CountSet, 1899, ""},
		{"1900", YearSet, 1, "1900"},
		{"2099", YearSet, 1, "2099"},
		{"2100", Ignored, 1, ""},
		{"9999999", Ignored, 1, ""},
		{"1_2", ParseFailed, 1, ""},
		{"-5", CountSet, 5, ""},
		{"1ö", CountSet, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			c, _ := newTestClassifier(nil)
			feedAll(t, c, "9780131103627")

			res, err := c.Feed(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.Kind)
			require.NotNil(t, res.Entry)
			assert.Equal(t, tt.count, res.Entry.Count)
			assert.Equal(t, tt.year, res.Entry.PublicationYear)
		})
	}
}

func TestClassifier_NoOpenEntry(t *testing.T) {
	c, w := newTestClassifier(nil)

	for _, token := range []string{"", "   ", "3", "2020", "comment", "1_2"} {
		res, err := c.Feed(token)
		require.NoError(t, err)
		assert.Equal(t, Ignored, res.Kind, token)
		assert.Nil(t, res.Entry, token)
	}
	assert.Empty(t, c.Entries())
	assert.Empty(t, w.written)
}

func TestClassifier_EmptyInputReturnsNothing(t *testing.T) {
	c, _ := newTestClassifier(nil)
	feedAll(t, c, "9780131103627")

	res, err := c.Feed("")
	require.NoError(t, err)
	assert.Equal(t, Ignored, res.Kind)
	assert.Nil(t, res.Entry)
	assert.NotNil(t, c.Open())
}

func TestClassifier_CommentReplaced(t *testing.T) {
	c, _ := newTestClassifier(nil)
	feedAll(t, c, "9780131103627", "first", "  second note ")

	assert.Equal(t, "second note", c.Open().Comment)
}

func TestClassifier_ZeroGlyphAndHyphens(t *testing.T) {
	c, _ := newTestClassifier(nil)

	res, err := c.Feed("4ö06-3813-33931")
	require.NoError(t, err)
	assert.Equal(t, NewBarcode, res.Kind)
	assert.Equal(t, "4006381333931", res.Entry.Barcode)
	assert.Empty(t, res.Warnings)
}

func TestClassifier_InvalidCheckDigitWarns(t *testing.T) {
	c, _ := newTestClassifier(nil)

	res, err := c.Feed("9789631234566")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)

	var vw *stockerror.ValidationWarning
	require.True(t, errors.As(res.Warnings[0], &vw))
	assert.Equal(t, stockerror.InvalidCheckDigit, vw.Kind)
	assert.Equal(t, "9789631234566", vw.Barcode)
}

func TestClassifier_CatalogMatch(t *testing.T) {
	product := models.NewProduct("978-963-123456-6", "Budapest atlasz", "Cartographia", intPtr(4), "CA-1")
	c, w := newTestClassifier(catalog.New(product))

	res, err := c.Feed("9789631234566")
	require.NoError(t, err)
	assert.Equal(t, catalog.Found, res.Match.Kind)
	assert.Same(t, product, res.Entry.Product)
	assert.Equal(t, "978-963-123456-6", res.Entry.Barcode)
	assert.Equal(t, "Budapest atlasz", res.Entry.Name())
	assert.False(t, res.ZeroStock)

	require.NoError(t, c.Flush())
	assert.Equal(t, "CA-1", w.written[0].ProductID())
}

func TestClassifier_ZeroStockFlagged(t *testing.T) {
	product := models.NewProduct("9780131103627", "K&R", "Prentice Hall", intPtr(0), "")
	c, _ := newTestClassifier(catalog.New(product))

	res, err := c.Feed("9780131103627")
	require.NoError(t, err)
	assert.True(t, res.ZeroStock)

	unknownStock := models.NewProduct("4006381333931", "Pencil", "", nil, "")
	c, _ = newTestClassifier(catalog.New(unknownStock))
	res, err = c.Feed("4006381333931")
	require.NoError(t, err)
	assert.False(t, res.ZeroStock)
}

func TestClassifier_Ambiguous(t *testing.T) {
	first := models.NewProduct("9780131103627-01", "Vol 1", "", nil, "V1")
	second := models.NewProduct("9780131103627-02", "Vol 2", "", nil, "V2")
	cat := catalog.New(first, second)

	t.Run("without chooser", func(t *testing.T) {
		c, _ := newTestClassifier(cat)
		res, err := c.Feed("9780131103627")
		require.NoError(t, err)
		assert.Equal(t, catalog.Ambiguous, res.Match.Kind)
		assert.Len(t, res.Match.Candidates, 2)
		assert.Nil(t, res.Entry.Product)
		assert.Equal(t, "9780131103627", res.Entry.Barcode)
	})

	t.Run("with chooser", func(t *testing.T) {
		var offered []*models.Product
		chooser := ChooserFunc(func(code string, candidates []*models.Product) *models.Product {
			offered = candidates
			return candidates[1]
		})
		c, _ := newTestClassifier(cat, WithChooser(chooser))

		res, err := c.Feed("9780131103627")
		require.NoError(t, err)
		assert.Len(t, offered, 2)
		assert.Same(t, second, res.Entry.Product)
		assert.Equal(t, "9780131103627-02", res.Entry.Barcode)
	})

	t.Run("chooser picks none", func(t *testing.T) {
		c, _ := newTestClassifier(cat, WithChooser(ChooserFunc(func(string, []*models.Product) *models.Product {
			return nil
		})))
		res, err := c.Feed("9780131103627")
		require.NoError(t, err)
		assert.False(t, res.Entry.InCatalog())
	})
}

func TestClassifier_FeedResolved(t *testing.T) {
	product := models.NewProduct("9780131103627-02", "Vol 2", "", nil, "V2")
	c, _ := newTestClassifier(nil)

	res, err := c.FeedResolved("9780131103627", product)
	require.NoError(t, err)
	assert.Equal(t, catalog.Found, res.Match.Kind)
	assert.Equal(t, "9780131103627-02", res.Entry.Barcode)

	// the resolved record only matters for new barcodes
	res, err = c.FeedResolved("4", product)
	require.NoError(t, err)
	assert.Equal(t, CountSet, res.Kind)
	assert.Equal(t, 4, res.Entry.Count)
}

func TestClassifier_WriteFailureStopsSession(t *testing.T) {
	c, w := newTestClassifier(nil)
	feedAll(t, c, "9789631234566")

	writeErr := &stockerror.LogWriteError{Path: "log.csv", Op: "append", Err: errors.New("disk full")}
	w.err = writeErr

	_, err := c.Feed("9780131103627")
	require.ErrorIs(t, err, writeErr)
	assert.False(t, c.Entries()[0].Committed())
	assert.Len(t, c.Entries(), 1)

	w.err = nil
	_, err = c.Feed("3")
	assert.ErrorIs(t, err, writeErr)
	assert.ErrorIs(t, c.Flush(), writeErr)
	assert.ErrorIs(t, c.Err(), writeErr)
}

func TestClassifier_EntriesSnapshot(t *testing.T) {
	c, _ := newTestClassifier(nil)
	feedAll(t, c, "9789631234566")

	snapshot := c.Entries()
	feedAll(t, c, "7")

	assert.Equal(t, 1, snapshot[0].Count)
	assert.Equal(t, 7, c.Entries()[0].Count)
}

func TestResultKind_String(t *testing.T) {
	assert.Equal(t, "new_barcode", NewBarcode.String())
	assert.Equal(t, "parse_failed", ParseFailed.String())
	assert.Equal(t, "ignored", Ignored.String())
}
