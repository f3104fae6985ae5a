// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "STOCKTAKE"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Catalog struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"catalog" yaml:"catalog"`

	Session struct {
		LogDir   string `mapstructure:"log_dir" yaml:"log_dir"`
		Operator string `mapstructure:"operator" yaml:"operator"`
		Location string `mapstructure:"location" yaml:"location"`
	} `mapstructure:"session" yaml:"session"`

	Locations struct {
		File    string `mapstructure:"file" yaml:"file"`
		Default string `mapstructure:"default" yaml:"default"`
	} `mapstructure:"locations" yaml:"locations"`

	Reconcile struct {
		ReportDir string   `mapstructure:"report_dir" yaml:"report_dir"`
		Formats   []string `mapstructure:"formats" yaml:"formats"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	Archive struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"archive" yaml:"archive"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then config.yaml, then STOCKTAKE_* environment variables.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFile("")
}

// InitializeConfigFile is InitializeConfig with an explicit config file.
// An empty path searches the standard locations instead.
func InitializeConfigFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.stocktake")
		v.AddConfigPath(".stocktake")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("catalog.file", "database.csv")

	v.SetDefault("session.log_dir", "log")
	v.SetDefault("session.operator", "")
	v.SetDefault("session.location", "")

	v.SetDefault("locations.file", "locations.txt")
	v.SetDefault("locations.default", "raktár1")

	v.SetDefault("reconcile.report_dir", "kimutatások")
	v.SetDefault("reconcile.formats", []string{"tsv"})

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", "stocktake.db")
}

var supportedFormats = map[string]bool{"tsv": true, "json": true, "yaml": true, "xlsx": true}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Catalog.File == "" {
		return fmt.Errorf("catalog.file must not be empty")
	}
	if config.Session.LogDir == "" {
		return fmt.Errorf("session.log_dir must not be empty")
	}
	if config.Reconcile.ReportDir == "" {
		return fmt.Errorf("reconcile.report_dir must not be empty")
	}

	// A comma separated env value arrives as one element.
	var formats []string
	for _, f := range config.Reconcile.Formats {
		for _, part := range strings.Split(f, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				formats = append(formats, part)
			}
		}
	}
	if len(formats) == 0 {
		return fmt.Errorf("reconcile.formats must list at least one format")
	}
	for _, f := range formats {
		if !supportedFormats[f] {
			return fmt.Errorf("reconcile.formats: unsupported format %q", f)
		}
	}
	config.Reconcile.Formats = formats

	if config.Archive.Enabled && config.Archive.Path == "" {
		return fmt.Errorf("archive.path required when archive is enabled")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
