package main

import (
	"fmt"
	"os"

	"github.com/mittwald/healthd/cmd"
	"github.com/mittwald/healthd/pkg/cli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	apiAddress string
)

func init() {
	ctlCommand.PersistentFlags().StringVarP(&apiAddress, "api-address", "", cmd.DefaultAPIAddress, "address of the health endpoints (http://host:port or unix:///path)")
	ctlCommand.AddCommand(cmd.VersionCmd)
}

var ctlCommand = &cobra.Command{
	Use:           "healthctl",
	Short:         "query healthd from the command line",
	Long:          "This command can be used to inspect the health endpoints of a service from the command line.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newClient() *cli.APIClient {
	return cli.NewAPIClient(apiAddress)
}

func Execute() {
	if err := ctlCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cmd.RenderError(err))
		log.Exit(1)
	}
}
