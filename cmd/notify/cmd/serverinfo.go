package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
)

var serverInfoCmd = &cobra.Command{
	Use:   "server-info",
	Short: "Show name, vendor and version of the running notification server",
	Args:  cobra.NoArgs,
	RunE:  runServerInfoCmd,
}

func init() {
	rootCmd.AddCommand(serverInfoCmd)
}

func runServerInfoCmd(cmd *cobra.Command, args []string) error {
	info, err := notify.GetServerInformation()
	if err != nil {
		return err
	}
	fmt.Printf("name:         %s\n", info.Name)
	fmt.Printf("vendor:       %s\n", info.Vendor)
	fmt.Printf("version:      %s\n", info.Version)
	fmt.Printf("spec-version: %s\n", info.SpecVersion)
	return nil
}
