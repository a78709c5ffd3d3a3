// ABOUTME: Root command for mnemoctl CLI
// ABOUTME: Handles global flags and configuration

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "mnemoctl",
	Short: "CLI for the Mnemo capacity broker",
	Long: `mnemoctl is a command-line interface for the Mnemo capacity broker.

It enables operators and CI/CD pipelines to browse the marketplace, match
resource requests against the node fleet, and manage capacity contracts.

Environment Variables:
  MNEMO_API_URL  Broker API URL (default: http://localhost:8080)`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Broker API URL (overrides MNEMO_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// getAPIURL returns the API URL from flag, env, or default (in priority order)
func getAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("MNEMO_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// isJSONOutput returns whether JSON output is requested
func isJSONOutput() bool {
	return jsonOutput
}
