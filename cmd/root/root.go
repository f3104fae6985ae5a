// Package root contains the root command for the application
package root

import (
	"fmt"

	"cartographia/stocktake/internal/config"
	"cartographia/stocktake/internal/container"
	"cartographia/stocktake/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	Catalog    string
	LogDir     string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// container's logger once the configuration is loaded.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig holds the configuration of the running command.
	AppConfig *config.Config

	// AppContainer holds the dependencies of the running command.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stocktake",
		Short: "A CLI tool for manual stock-taking against a product catalog.",
		Long: `stocktake records counted items barcode by barcode into per-session
log files and reconciles the merged logs against the stock counts of the
product catalog.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: initializeApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
		},
	}

	// SharedFlags holds the persistent flags of all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.stocktake, .stocktake or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Catalog, "catalog", "", "Product catalog CSV file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogDir, "log-dir", "", "Directory of the session log files")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// initializeApp loads the configuration, applies flag overrides and builds
// the dependency container.
func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfigFile(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	ApplyFlags(cfg, SharedFlags)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// ApplyFlags overrides configuration values with the flags that were set.
func ApplyFlags(cfg *config.Config, flags CommonFlags) {
	if flags.Catalog != "" {
		cfg.Catalog.File = flags.Catalog
	}
	if flags.LogDir != "" {
		cfg.Session.LogDir = flags.LogDir
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
}

// GetContainer returns the dependency container, nil before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogger returns the shared logger.
func GetLogger() logging.Logger {
	return Log
}

// RequireContainer returns the container or an error when the command runs
// without the root pre-run hook.
func RequireContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return AppContainer, nil
}
