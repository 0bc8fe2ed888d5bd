package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List the capabilities of the running notification server",
	Args:  cobra.NoArgs,
	RunE:  runCapabilitiesCmd,
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}

func runCapabilitiesCmd(cmd *cobra.Command, args []string) error {
	caps, err := notify.GetCapabilities()
	if err != nil {
		return err
	}
	for _, c := range caps {
		fmt.Println(c)
	}
	return nil
}
