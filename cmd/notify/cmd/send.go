package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/notify"
)

var (
	sendAppName   string
	sendIcon      string
	sendBody      string
	sendTimeout   int32
	sendUrgency   string
	sendCategory  string
	sendImage     string
	sendTransient bool
	sendActions   []string
	sendReplaces  uint32
	sendWait      bool
)

var sendCmd = &cobra.Command{
	Use:   "send <summary>",
	Short: "Send a desktop notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runSendCmd,
}

func init() {
	sendCmd.Flags().StringVarP(&sendAppName, "app-name", "a", "", "application name (default: config, then executable name)")
	sendCmd.Flags().StringVarP(&sendIcon, "icon", "i", "", "icon name or path")
	sendCmd.Flags().StringVarP(&sendBody, "body", "b", "", "notification body")
	sendCmd.Flags().Int32VarP(&sendTimeout, "timeout", "t", -1, "expiration in ms, -1 = server default, 0 = never")
	sendCmd.Flags().StringVarP(&sendUrgency, "urgency", "u", "", "low, normal or critical")
	sendCmd.Flags().StringVarP(&sendCategory, "category", "c", "", "notification category")
	sendCmd.Flags().StringVar(&sendImage, "image", "", "image file to attach as pixel data")
	sendCmd.Flags().BoolVar(&sendTransient, "transient", false, "mark the notification transient")
	sendCmd.Flags().StringArrayVar(&sendActions, "action", nil, "action as id=label, repeatable")
	sendCmd.Flags().Uint32Var(&sendReplaces, "replaces", 0, "id of a notification to replace")
	sendCmd.Flags().BoolVarP(&sendWait, "wait", "w", false, "wait until the notification is acted on or closed")
	rootCmd.AddCommand(sendCmd)
}

func runSendCmd(cmd *cobra.Command, args []string) error {
	n := notify.New()
	n.Summary = args[0]
	n.Body = sendBody
	n.Icon = sendIcon
	n.ID = sendReplaces

	switch {
	case sendAppName != "":
		n.AppName = sendAppName
	case cfg.AppName != "":
		n.AppName = cfg.AppName
	}

	if cmd.Flags().Changed("timeout") {
		n.Timeout = notify.DecodeTimeout(sendTimeout)
	} else {
		n.Timeout = notify.DecodeTimeout(int32(cfg.DefaultTimeoutMs))
	}

	if sendUrgency != "" {
		u, err := parseUrgency(sendUrgency)
		if err != nil {
			return err
		}
		n.Urgency(u)
	}
	if sendCategory != "" {
		n.Hint(notify.Category(sendCategory))
	}
	if sendTransient {
		n.Hint(notify.Transient(true))
	}
	if sendImage != "" {
		if err := n.LoadImage(sendImage); err != nil {
			return err
		}
	}
	for _, spec := range sendActions {
		id, label, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("action %q: want id=label", spec)
		}
		n.Action(id, label)
	}

	handle, err := n.Show()
	if err != nil {
		return err
	}
	fmt.Printf("%d\n", handle.ID())

	if !sendWait {
		// the connection dies with the process; Close would dismiss the
		// notification we just showed
		return nil
	}
	return handle.WaitForAction(context.Background(), func(action string) {
		if action == notify.ClosedAction {
			fmt.Println("closed")
			return
		}
		fmt.Printf("action: %s\n", action)
	})
}

func parseUrgency(s string) (notify.Urgency, error) {
	switch s {
	case "low":
		return notify.UrgencyLow, nil
	case "normal":
		return notify.UrgencyNormal, nil
	case "critical":
		return notify.UrgencyCritical, nil
	}
	return 0, fmt.Errorf("unknown urgency %q", s)
}
