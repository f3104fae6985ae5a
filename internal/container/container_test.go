package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cartographia/stocktake/internal/config"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/stockerror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Catalog.File = filepath.Join(dir, "database.csv")
	cfg.Session.LogDir = filepath.Join(dir, "log")
	cfg.Locations.File = filepath.Join(dir, "locations.txt")
	cfg.Reconcile.ReportDir = filepath.Join(dir, "kimutatások")
	cfg.Reconcile.Formats = []string{"tsv"}
	cfg.Archive.Path = filepath.Join(dir, "stocktake.db")
	return cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	assert.EqualError(t, err, "configuration cannot be nil")

	_, err = NewContainerWithLogger(nil, logging.NewMockLogger())
	assert.Error(t, err)
}

func TestNewContainer_WithCatalog(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Catalog.File,
		[]byte("9780131103627;K&R;Prentice Hall;3;PH-1\n9780131103627-01;K&R 2;Prentice Hall;1;PH-2\n"), 0600))
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NoError(t, c.CatalogError())
	assert.Equal(t, 2, c.GetCatalog().Len())
	assert.Len(t, c.GetWarnings().Validation(), 1)
	assert.Same(t, cfg, c.GetConfig())
	assert.NotNil(t, c.GetLogger())
	assert.NotNil(t, c.GetLocations())
	assert.NotNil(t, c.GetReportGenerator())
	assert.NotNil(t, c.GetReconciler())
	assert.Nil(t, c.GetArchive())
	assert.True(t, logger.HasEntry("INFO", "Container initialized successfully"))
}

func TestNewContainer_DegradedModeWithoutCatalog(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)

	var ingestErr *stockerror.IngestError
	require.True(t, errors.As(c.CatalogError(), &ingestErr))
	assert.Equal(t, cfg.Catalog.File, ingestErr.Path)
	assert.Equal(t, 0, c.GetCatalog().Len())
	assert.Len(t, logger.GetEntriesByLevel("ERROR"), 1)
}

func TestNewContainer_Archive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.Enabled = true

	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	require.NotNil(t, c.GetArchive())
	assert.FileExists(t, cfg.Archive.Path)
	assert.NoError(t, c.Close())
}

func TestNewContainer_UsesLogrus(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	require.NoError(t, err)
	assert.IsType(t, &logging.LogrusAdapter{}, c.GetLogger())
}
