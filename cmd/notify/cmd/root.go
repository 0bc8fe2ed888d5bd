// Package cmd implements the notify CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
	"github.com/llehouerou/notify/internal/config"
)

var (
	cfg       *config.Config
	flagDebug bool
)

var rootCmd = &cobra.Command{
	Use:               "notify",
	Short:             "Send and serve desktop notifications over D-Bus",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug-namespace", false,
		"use the debug bus name instead of org.freedesktop.Notifications")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDebug || cfg.DebugNamespace {
		notify.UseDebugNamespace(true)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[error] %v\n", err)
		os.Exit(1)
	}
}
