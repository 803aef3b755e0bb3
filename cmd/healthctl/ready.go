package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/mittwald/healthd/cmd"
	"github.com/spf13/cobra"
)

func init() {
	readyCmd.Flags().BoolP("json", "j", false, "Print the readiness report as JSON")
	readyCmd.Flags().Bool("exit-with-status", false, "Exit with status code 0 if the service is ready, 1 if not")

	ctlCommand.AddCommand(readyCmd)
	ctlCommand.AddCommand(liveCmd)
}

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Show whether the service is ready to take traffic",
	RunE: func(c *cobra.Command, args []string) error {
		resp := newClient().Readiness(context.Background())
		if resp.Err() != nil {
			return fmt.Errorf("failed to get readiness: %w", resp.Err())
		}

		if printJSON, _ := c.Flags().GetBool("json"); printJSON {
			if err := resp.Print(c.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to print output: %w", err)
			}
		} else {
			fmt.Fprintln(c.OutOrStdout(), cmd.RenderReadiness(resp.Body))
		}

		if exitWithStatus, _ := c.Flags().GetBool("exit-with-status"); exitWithStatus && resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		return nil
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Show whether the service process answers at all",
	RunE: func(c *cobra.Command, args []string) error {
		resp := newClient().Liveness(context.Background())
		if resp.Err() != nil {
			return fmt.Errorf("service is not alive: %w", resp.Err())
		}
		return resp.Print(c.OutOrStdout())
	},
}
