// ABOUTME: Match command for mnemoctl CLI
// ABOUTME: Ranks marketplace nodes against a resource request

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

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/djmistretta15/Nnemo/internal/client"
	"github.com/djmistretta15/Nnemo/models"
)

var matchFlags struct {
	ramGB         int
	vramGB        int
	durationSec   int
	maxPrice      string
	preferLocal   bool
	latitude      float64
	longitude     float64
	maxDistanceKm float64
	minUptime     float64
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resource request against the node fleet",
	Long:  `Match a RAM/VRAM resource request against active marketplace nodes and print the ranked candidates.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runMatch(ctx, cmd, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	matchCmd.Flags().IntVar(&matchFlags.ramGB, "ram", 0, "RAM to request in GB")
	matchCmd.Flags().IntVar(&matchFlags.vramGB, "vram", 0, "VRAM to request in GB")
	matchCmd.Flags().IntVar(&matchFlags.durationSec, "duration", 3600, "Contract duration in seconds")
	matchCmd.Flags().StringVar(&matchFlags.maxPrice, "max-price", "0.0001", "Max price per GB-second in USD")
	matchCmd.Flags().BoolVar(&matchFlags.preferLocal, "prefer-local", true, "Weight proximity heavily in scoring")
	matchCmd.Flags().Float64Var(&matchFlags.latitude, "lat", 0, "Requester latitude")
	matchCmd.Flags().Float64Var(&matchFlags.longitude, "lng", 0, "Requester longitude")
	matchCmd.Flags().Float64Var(&matchFlags.maxDistanceKm, "max-distance", 0, "Max node distance in km (0 = no limit)")
	matchCmd.Flags().Float64Var(&matchFlags.minUptime, "min-uptime", 0, "Minimum node uptime score")
	rootCmd.AddCommand(matchCmd)
}

// runMatch executes the match request and returns exit code
func runMatch(ctx context.Context, cmd *cobra.Command, w io.Writer) int {
	maxPrice, err := decimal.NewFromString(matchFlags.maxPrice)
	if err != nil {
		fmt.Fprintf(w, "Error: invalid --max-price %q\n", matchFlags.maxPrice)
		return 2
	}

	req := &models.ResourceRequest{
		RAMGB:            matchFlags.ramGB,
		VRAMGB:           matchFlags.vramGB,
		DurationSec:      matchFlags.durationSec,
		MaxPricePerGBSec: maxPrice,
		PreferLocal:      matchFlags.preferLocal,
		MaxDistanceKm:    matchFlags.maxDistanceKm,
		MinUptimeScore:   matchFlags.minUptime,
	}
	if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
		req.Latitude = &matchFlags.latitude
		req.Longitude = &matchFlags.longitude
	}

	c := client.New(getAPIURL())
	resp, err := c.Match(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if isJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintln(w, formatMatchesHuman(resp))
	return 0
}

// formatMatchesHuman renders the ranked match list as a plain table
func formatMatchesHuman(resp *models.MatchResponse) string {
	if resp.Total == 0 {
		return "No matching nodes."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-24s %-14s %-14s %8s %12s\n", "RANK", "NODE", "TYPE", "REGION", "SCORE", "EST. COST")
	for i, m := range resp.Matches {
		fmt.Fprintf(&b, "%-4d %-24s %-14s %-14s %8.2f %12s\n",
			i+1, m.NodeName, m.NodeType, m.Region, m.MatchScore, "$"+m.EstimatedCost.StringFixed(4))
	}
	fmt.Fprintf(&b, "\n%d candidate(s)", resp.Total)
	return b.String()
}
