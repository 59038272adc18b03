package cmd

import (
	"fmt"
	"os"

	"pick-reconciler/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pick-reconciler",
	Short: "Warehouse pick reconciliation service",
	Long: `Pick Reconciler matches barcode scans against the expected units of an
order while it is being picked. It runs as an HTTP service for scanning
stations or interactively from a terminal with a keyboard-wedge scanner.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 timestamps.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
