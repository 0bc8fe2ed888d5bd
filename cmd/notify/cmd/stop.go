package cmd

import (
	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running 'notify serve' endpoint",
	Args:  cobra.NoArgs,
	RunE:  runStopCmd,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStopCmd(cmd *cobra.Command, args []string) error {
	return notify.StopServer()
}
