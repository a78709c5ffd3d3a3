// ABOUTME: Nodes command for mnemoctl CLI
// ABOUTME: Browses the marketplace and inspects individual nodes

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djmistretta15/Nnemo/internal/client"
)

var nodesFlags struct {
	nodeType  string
	region    string
	minRAMGB  int
	minVRAMGB int
	limit     int
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Browse marketplace nodes",
	Long:  `List active marketplace nodes, optionally filtered by type, region, and minimum capacity.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNodes(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var nodesGetCmd = &cobra.Command{
	Use:   "get <node-id>",
	Short: "Show one node",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runNodesGet(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	nodesCmd.Flags().StringVar(&nodesFlags.nodeType, "type", "", "Filter by node type (datacenter, edge_cluster, mist_node)")
	nodesCmd.Flags().StringVar(&nodesFlags.region, "region", "", "Filter by region")
	nodesCmd.Flags().IntVar(&nodesFlags.minRAMGB, "min-ram", 0, "Minimum available RAM in GB")
	nodesCmd.Flags().IntVar(&nodesFlags.minVRAMGB, "min-vram", 0, "Minimum available VRAM in GB")
	nodesCmd.Flags().IntVar(&nodesFlags.limit, "limit", 50, "Page size")
	nodesCmd.AddCommand(nodesGetCmd)
	rootCmd.AddCommand(nodesCmd)
}

// runNodes lists marketplace nodes and returns exit code
func runNodes(ctx context.Context, w io.Writer) int {
	c := client.New(getAPIURL())

	page, err := c.Browse(ctx, client.BrowseOptions{
		NodeType:  nodesFlags.nodeType,
		Region:    nodesFlags.region,
		MinRAMGB:  nodesFlags.minRAMGB,
		MinVRAMGB: nodesFlags.minVRAMGB,
		Limit:     nodesFlags.limit,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if isJSONOutput() {
		data, _ := json.MarshalIndent(page, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(page.Nodes) == 0 {
		fmt.Fprintln(w, "No nodes found.")
		return 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %-20s %-14s %-14s %10s %10s\n", "ID", "NAME", "TYPE", "REGION", "RAM FREE", "VRAM FREE")
	for _, n := range page.Nodes {
		fmt.Fprintf(&b, "%-36s %-20s %-14s %-14s %8dGB %8dGB\n",
			n.ID, n.Name, n.NodeType, n.Region, n.AvailableRAMGB, n.AvailableVRAMGB)
	}
	fmt.Fprintf(&b, "\n%d of %d node(s)", len(page.Nodes), page.Total)
	fmt.Fprintln(w, b.String())
	return 0
}

// runNodesGet fetches one node and returns exit code
func runNodesGet(ctx context.Context, w io.Writer, id string) int {
	c := client.New(getAPIURL())

	node, err := c.GetNode(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if isJSONOutput() {
		data, _ := json.MarshalIndent(node, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, `Node:      %s (%s)
Type:      %s
Region:    %s
Status:    %s
RAM:       %d/%d GB available
VRAM:      %d/%d GB available
Bandwidth: %d Mbps
Uptime:    %.1f
Price:     $%s per GB-second
`, node.Name, node.ID, node.NodeType, node.Region, node.Status,
		node.AvailableRAMGB, node.TotalRAMGB,
		node.AvailableVRAMGB, node.TotalVRAMGB,
		node.BandwidthMbps, node.UptimeScore, node.PricePerGBSec.String())
	return 0
}
