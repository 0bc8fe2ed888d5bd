package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/notify"
	"github.com/llehouerou/notify/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a notification endpoint that logs incoming notifications",
	Long: `Claims the notification bus name and logs every incoming notification.
Useful for inspecting what applications send. Stop it with 'notify stop'
or Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newLogger() (*zap.Logger, error) {
	if cfg.Log.Development {
		logCfg := zap.NewDevelopmentConfig()
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return logCfg.Build()
	}
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return logCfg.Build()
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	serveCfg := cfg.GetServeConfig()

	handler := func(n *notify.Notification, actions *server.ActionSender, closer *server.CloseSender) {
		fields := []zap.Field{
			zap.Uint32("id", n.ID),
			zap.String("app", n.AppName),
			zap.String("summary", n.Summary),
			zap.String("body", n.Body),
			zap.String("icon", n.Icon),
			zap.Stringer("timeout", n.Timeout),
			zap.Strings("actions", n.Actions),
		}
		for _, h := range n.Hints() {
			fields = append(fields, zap.Any("hint."+h.Key(), h))
		}
		log.Info("notification", fields...)
	}

	srv := server.New(handler,
		server.WithLogger(log),
		server.WithInfo(notify.ServerInformation{
			Name:        serveCfg.Name,
			Vendor:      serveCfg.Vendor,
			Version:     "1.0",
			SpecVersion: "1.2",
		}),
		server.WithCapabilities(serveCfg.Capabilities),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		_ = srv.Close()
	}()

	return srv.Listen()
}
