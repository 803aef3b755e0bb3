package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/mittwald/healthd/cmd"
	"github.com/mittwald/healthd/pkg/health"
	"github.com/spf13/cobra"
)

func init() {
	statusCmd.Flags().BoolP("json", "j", false, "Print the detailed report as JSON")
	statusCmd.Flags().Bool("exit-with-status", false, "Exit with status code 0 if the service is healthy, 1 if not")

	ctlCommand.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the detailed service status",
	Long:  "This command shows the status of every dependency together with the uptime, metrics and environment of the service.",
	RunE: func(c *cobra.Command, args []string) error {
		client := newClient()
		out := c.OutOrStdout()

		if printJSON, _ := c.Flags().GetBool("json"); printJSON {
			resp := client.Raw(context.Background(), health.PathDetailed)
			if resp.Err() != nil {
				return fmt.Errorf("failed to get service status: %w", resp.Err())
			}
			return resp.Print(out)
		}

		resp := client.Detailed(context.Background())
		if resp.Err() != nil {
			return fmt.Errorf("failed to get service status: %w", resp.Err())
		}

		fmt.Fprintln(out, cmd.RenderDetailed(resp.Body))

		if exitWithStatus, _ := c.Flags().GetBool("exit-with-status"); exitWithStatus && resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		return nil
	},
}
