// Package commands implements the snetctl CLI commands.
package commands

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// httpClient is the plain HTTP client used to talk to the daemon's
	// control plane, initialized in PersistentPreRunE.
	httpClient *http.Client

	// outputFormat controls the output format for all commands (table or json).
	outputFormat string

	// serverAddr is the daemon's control-plane address (host:port).
	serverAddr string
)

// rootCmd is the top-level cobra command for snetctl.
var rootCmd = &cobra.Command{
	Use:   "snetctl",
	Short: "CLI client for the snet daemon",
	Long:  "snetctl talks to the snet daemon's HTTP/JSON control plane to inspect and drive a running simulation.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		httpClient = &http.Client{Timeout: 10 * time.Second}
		return nil
	},
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", "localhost:8080",
		"snet daemon control-plane address (host:port)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")

	rootCmd.AddCommand(componentsCmd())
	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(versionCmd())
}

// baseURL returns the daemon's control-plane base URL for serverAddr.
func baseURL() string {
	return "http://" + serverAddr
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
