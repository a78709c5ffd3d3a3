// ABOUTME: Health command for mnemoctl CLI
// ABOUTME: Checks broker connectivity and reports storage mode and node counts

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djmistretta15/Nnemo/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check broker connectivity",
	Long:  `Check connectivity to the Mnemo broker and report storage mode and node counts.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := getAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if isJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Status != "ok" {
		return 1
	}
	return 0
}

// formatHealthHuman formats the health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	return fmt.Sprintf(`Broker:       %s
Status:       %s
Storage:      %s
Nodes:        %d
Active Nodes: %d`, url, resp.Status, resp.Storage, resp.NodeCount, resp.ActiveNodeCount)
}

// formatHealthJSON formats the health response as JSON
func formatHealthJSON(url string, resp *client.HealthResponse) string {
	output := map[string]interface{}{
		"broker":            url,
		"status":            resp.Status,
		"storage":           resp.Storage,
		"node_count":        resp.NodeCount,
		"active_node_count": resp.ActiveNodeCount,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
