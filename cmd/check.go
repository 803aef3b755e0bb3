package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mittwald/healthd/internal/config"
	"github.com/mittwald/healthd/pkg/health"
	"github.com/spf13/cobra"
)

func init() {
	check.Flags().BoolP("json", "j", false, "Print the readiness report as JSON")
	rootCmd.AddCommand(check)
}

var check = &cobra.Command{
	Use:   "check",
	Short: "Run all probes once",
	Long:  "This sub-command runs every configured probe once, prints the readiness report and exits with status 1 when the service is not ready",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configDir)
		if err != nil {
			return err
		}

		s, err := buildStack(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		res, code := health.Readiness(s.aggregator.RunAll(context.Background()), time.Now())

		out := cmd.OutOrStdout()
		if printJSON, _ := cmd.Flags().GetBool("json"); printJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "    ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, RenderReadiness(res))
		}

		if code != http.StatusOK {
			s.Close()
			os.Exit(1)
		}
		return nil
	},
}
