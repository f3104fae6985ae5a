// Package container provides dependency injection for the stocktake application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"errors"
	"fmt"

	"cartographia/stocktake/internal/archive"
	"cartographia/stocktake/internal/catalog"
	"cartographia/stocktake/internal/config"
	"cartographia/stocktake/internal/logging"
	"cartographia/stocktake/internal/reconcile"
	"cartographia/stocktake/internal/report"
	"cartographia/stocktake/internal/stockerror"
	"cartographia/stocktake/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	catalog    *catalog.Catalog
	catalogErr error
	warnings   *stockerror.Warnings
	locations  *store.LocationStore
	generator  *report.Generator
	reconciler *reconcile.Reconciler
	archive    *archive.DB
}

// NewContainer creates and wires all application dependencies, logging
// through logrus as configured.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg)))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
//
// A catalog that cannot be loaded does not fail the container: it holds an
// empty catalog instead and reports the load error through CatalogError, so
// counting can go on without product recognition.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		logger:     logger,
		config:     cfg,
		warnings:   &stockerror.Warnings{},
		locations:  store.NewLocationStore(cfg.Locations.File, cfg.Locations.Default, logger),
		generator:  report.NewGenerator(logger),
		reconciler: reconcile.NewReconciler(logger),
	}

	cat, err := catalog.Build(cfg.Catalog.File, c.warnings, logger)
	if err != nil {
		var ingestErr *stockerror.IngestError
		if !errors.As(err, &ingestErr) {
			return nil, err
		}
		logger.WithError(err).Error("Catalog could not be loaded, products will not be recognized",
			logging.F(logging.FieldFile, cfg.Catalog.File))
		cat = catalog.Empty()
		c.catalogErr = err
	}
	c.catalog = cat

	if cfg.Archive.Enabled {
		db, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		c.archive = db
	}

	logger.Info("Container initialized successfully",
		logging.F("products", cat.Len()),
		logging.F("catalog_warnings", c.warnings.Len()),
		logging.F("archive_enabled", cfg.Archive.Enabled))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCatalog returns the product catalog; it is empty in degraded mode.
func (c *Container) GetCatalog() *catalog.Catalog {
	return c.catalog
}

// CatalogError returns the *stockerror.IngestError that put the container
// in degraded mode, or nil.
func (c *Container) CatalogError() error {
	return c.catalogErr
}

// GetWarnings returns the warnings collected while loading the catalog.
func (c *Container) GetWarnings() *stockerror.Warnings {
	return c.warnings
}

// GetLocations returns the location store.
func (c *Container) GetLocations() *store.LocationStore {
	return c.locations
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// GetReconciler returns the reconciler.
func (c *Container) GetReconciler() *reconcile.Reconciler {
	return c.reconciler
}

// GetArchive returns the run archive, or nil when archiving is disabled.
func (c *Container) GetArchive() *archive.DB {
	return c.archive
}

// Close releases the archive connection, if any.
func (c *Container) Close() error {
	if c.archive != nil {
		if err := c.archive.Close(); err != nil {
			return fmt.Errorf("failed to close archive: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
