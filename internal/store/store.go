// Package store loads the operator's selectable counting locations.
package store

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cartographia/stocktake/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultLocation is offered when no location file exists.
const DefaultLocation = "raktár1"

// LocationLoader provides the list of locations.
type LocationLoader interface {
	Load() ([]string, error)
}

// locationsConfig is the keyed YAML layout: "locations: [...]".
type locationsConfig struct {
	Locations []string `yaml:"locations"`
}

// LocationStore reads locations from a plain text file (one per line) or a
// YAML file, chosen by extension.
type LocationStore struct {
	File     string
	Fallback string
	logger   logging.Logger
}

// NewLocationStore creates a store for file. fallback replaces
// DefaultLocation when non-empty.
func NewLocationStore(file, fallback string, logger logging.Logger) *LocationStore {
	if fallback == "" {
		fallback = DefaultLocation
	}
	return &LocationStore{
		File:     file,
		Fallback: fallback,
		logger:   logger.WithField(logging.FieldComponent, "locations"),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *LocationStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "stocktake", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load returns the configured locations. A missing or empty file yields
// just the fallback location.
func (s *LocationStore) Load() ([]string, error) {
	filename := s.File
	if filename == "" {
		filename = "locations.txt"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Warn("Locations file not found, using default",
			logging.F(logging.FieldFile, filename),
			logging.F(logging.FieldLocation, s.Fallback))
		return []string{s.Fallback}, nil
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("error reading locations file: %w", err)
	}

	var locations []string
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		locations, err = parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing locations file %s: %w", filePath, err)
		}
	default:
		locations = parseLines(data)
	}

	if len(locations) == 0 {
		s.logger.Warn("Locations file is empty, using default", logging.F(logging.FieldFile, filePath))
		return []string{s.Fallback}, nil
	}
	s.logger.Debug("Loaded locations",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(locations)))
	return locations, nil
}

// Resolve checks location against the available ones. An empty location
// picks the first available one.
func Resolve(loader LocationLoader, location string) (string, error) {
	locations, err := loader.Load()
	if err != nil {
		return "", err
	}
	if location == "" {
		return locations[0], nil
	}
	for _, l := range locations {
		if l == location {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown location %q, expected one of: %s", location, strings.Join(locations, ", "))
}

func parseLines(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseYAML(data []byte) ([]string, error) {
	var keyed locationsConfig
	if err := yaml.Unmarshal(data, &keyed); err == nil && len(keyed.Locations) > 0 {
		return clean(keyed.Locations), nil
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return clean(list), nil
}

func clean(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
