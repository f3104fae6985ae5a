package main

import (
	"fmt"
	"os"

	"cartographia/stocktake/cmd/audit"
	"cartographia/stocktake/cmd/history"
	"cartographia/stocktake/cmd/lookup"
	"cartographia/stocktake/cmd/reconcile"
	"cartographia/stocktake/cmd/root"
	"cartographia/stocktake/cmd/scan"
	"cartographia/stocktake/internal/config"
	"cartographia/stocktake/internal/logging"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	_, _ = config.LoadEnv()

	// 2. Log with the environment's level until the configuration is loaded
	root.Log = logging.NewLogrusAdapter(
		config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info"),
		config.GetEnv(config.EnvPrefix+"_LOG_FORMAT", "text"))

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(scan.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(audit.Cmd)
	root.Cmd.AddCommand(lookup.Cmd)
	root.Cmd.AddCommand(history.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
