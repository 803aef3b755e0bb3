package cmd

import (
	"net"
	"net/http"
	"net/http/pprof"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DefaultAPIAddress is where healthctl expects the health endpoints.
const DefaultAPIAddress = "http://localhost:9102"

var (
	configDir     string
	logLevel      string
	logFormat     string
	enableProfile bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "/etc/healthd.d", "set directory to where your .hcl-configs are located")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&enableProfile, "profile", false, "enable pprof http server")
}

var rootCmd = &cobra.Command{
	Use:     "healthd",
	Short:   "healthd - dependency aware health reporting",
	Long:    "healthd probes the dependencies of a backend service and reports liveness, readiness and a detailed status over HTTP",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ConfigureLogging(logLevel, logFormat); err != nil {
			return err
		}
		if enableProfile {
			go serveProfiler()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Warn("Running 'healthd' without any arguments - defaulting to 'serve'.")
		return serve.RunE(cmd, args)
	},
}

func serveProfiler() {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		log.Errorf("pprof server failed to listen: %v", err)
		return
	}
	log.Infof("Starting pprof server on http://%s/debug/pprof/", listener.Addr().String())
	if err := http.Serve(listener, mux); err != nil {
		log.Errorf("pprof server error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
