package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
)

var closeCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Close a notification by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runCloseCmd,
}

func init() {
	rootCmd.AddCommand(closeCmd)
}

func runCloseCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	return notify.Close(uint32(id))
}
