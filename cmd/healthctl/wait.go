package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	waitCmd.Flags().Duration("timeout", 0, "give up after this duration (0 waits forever)")
	waitCmd.Flags().Duration("interval", time.Second, "delay between two readiness checks")

	ctlCommand.AddCommand(waitCmd)
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait until the service is ready",
	Long:  "This command polls the readiness endpoint until the service reports ready. It can be interrupted with SIGINT or SIGTERM.",
	RunE: func(c *cobra.Command, args []string) error {
		timeout, _ := c.Flags().GetDuration("timeout")
		interval, _ := c.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := newClient().WaitReady(ctx, interval); err != nil {
			return err
		}

		log.Info("service is ready")
		return nil
	},
}
