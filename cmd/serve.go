package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/mittwald/healthd/internal/config"
	"github.com/mittwald/healthd/pkg/health"
	"github.com/mittwald/healthd/pkg/pidfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenAddress string
	pidFile       string
)

func init() {
	rootCmd.AddCommand(serve)
	serve.PersistentFlags().StringVarP(&listenAddress, "listen", "l", "", "address to serve the health endpoints on (host:port or unix:///path); overrides the configuration")
	serve.PersistentFlags().StringVarP(&pidFile, "pidfile", "", "", "write healthd's process id to this file")
}

var serve = &cobra.Command{
	Use:   "serve",
	Short: "Serve the health endpoints",
	Long:  "This sub-command loads the configuration, opens the dependency handles and serves the health endpoints until it receives SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		pidFileHandle := pidfile.New(pidFile)
		if err := pidFileHandle.Acquire(); err != nil {
			log.Fatalf("failed to write pid file to %q: %s", pidFile, err)
		}
		defer func() {
			if err := pidFileHandle.Release(); err != nil {
				log.Errorf("error while cleaning up the pid file: %s", err)
			}
		}()

		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}
		if listenAddress != "" {
			cfg.Server.Listen = listenAddress
		}

		s, err := buildStack(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := health.NewServer(cfg.Server.Listen, s.handler.Router())
		if err := server.Run(ctx); err != nil {
			return err
		}

		log.Info("health api stopped without error")
		return nil
	},
}
