// ABOUTME: Contracts command for mnemoctl CLI
// ABOUTME: Creates, lists, extends, and settles capacity contracts

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
	"github.com/djmistretta15/Nnemo/models"
)

var contractsFlags struct {
	status string

	nodeID      string
	clientID    string
	ramGB       int
	vramGB      int
	durationSec int

	additionalSec int
	egressGB      float64
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List capacity contracts",
	Long:  `List capacity contracts, optionally filtered by status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runContractsList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var contractsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Allocate capacity on a node",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runContractsCreate(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var contractsExtendCmd = &cobra.Command{
	Use:   "extend <contract-id>",
	Short: "Extend an active contract at its frozen price",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runContractsExtend(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var contractsSettleCmd = &cobra.Command{
	Use:   "settle <contract-id>",
	Short: "Complete an active contract and release its capacity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runContractsSettle(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	contractsCmd.Flags().StringVar(&contractsFlags.status, "status", "", "Filter by status (active, completed, failed)")

	contractsCreateCmd.Flags().StringVar(&contractsFlags.nodeID, "node", "", "Node ID to allocate on")
	contractsCreateCmd.Flags().StringVar(&contractsFlags.clientID, "client", "", "Client ID")
	contractsCreateCmd.Flags().IntVar(&contractsFlags.ramGB, "ram", 0, "RAM to allocate in GB")
	contractsCreateCmd.Flags().IntVar(&contractsFlags.vramGB, "vram", 0, "VRAM to allocate in GB")
	contractsCreateCmd.Flags().IntVar(&contractsFlags.durationSec, "duration", 3600, "Contract duration in seconds")

	contractsExtendCmd.Flags().IntVar(&contractsFlags.additionalSec, "duration", 3600, "Additional duration in seconds")
	contractsSettleCmd.Flags().Float64Var(&contractsFlags.egressGB, "egress", 0, "Actual egress in GB")

	contractsCmd.AddCommand(contractsCreateCmd)
	contractsCmd.AddCommand(contractsExtendCmd)
	contractsCmd.AddCommand(contractsSettleCmd)
	rootCmd.AddCommand(contractsCmd)
}

// runContractsList lists contracts and returns exit code
func runContractsList(ctx context.Context, w io.Writer) int {
	c := client.New(getAPIURL())

	contracts, err := c.ListContracts(ctx, contractsFlags.status)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if isJSONOutput() {
		data, _ := json.MarshalIndent(contracts, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(contracts) == 0 {
		fmt.Fprintln(w, "No contracts found.")
		return 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %-16s %-10s %6s %6s %12s\n", "ID", "CLIENT", "STATUS", "RAM", "VRAM", "COST")
	for _, contract := range contracts {
		fmt.Fprintf(&b, "%-36s %-16s %-10s %4dGB %4dGB %12s\n",
			contract.ID, contract.ClientID, contract.Status,
			contract.RAMGB, contract.VRAMGB, "$"+contract.TotalCostUSD.StringFixed(4))
	}
	fmt.Fprintf(&b, "\n%d contract(s)", len(contracts))
	fmt.Fprintln(w, b.String())
	return 0
}

// runContractsCreate allocates capacity and returns exit code
func runContractsCreate(ctx context.Context, w io.Writer) int {
	if contractsFlags.nodeID == "" || contractsFlags.clientID == "" {
		fmt.Fprintln(w, "Error: --node and --client are required")
		return 2
	}

	c := client.New(getAPIURL())
	contract, err := c.CreateContract(ctx, &models.ContractCreate{
		NodeID:      contractsFlags.nodeID,
		ClientID:    contractsFlags.clientID,
		RAMGB:       contractsFlags.ramGB,
		VRAMGB:      contractsFlags.vramGB,
		DurationSec: contractsFlags.durationSec,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printContract(w, contract)
	return 0
}

// runContractsExtend extends a contract and returns exit code
func runContractsExtend(ctx context.Context, w io.Writer, id string) int {
	c := client.New(getAPIURL())

	contract, err := c.ExtendContract(ctx, id, contractsFlags.additionalSec)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printContract(w, contract)
	return 0
}

// runContractsSettle settles a contract and returns exit code
func runContractsSettle(ctx context.Context, w io.Writer, id string) int {
	c := client.New(getAPIURL())

	contract, err := c.SettleContract(ctx, id, contractsFlags.egressGB)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	printContract(w, contract)
	return 0
}

// printContract renders one contract in the selected output format
func printContract(w io.Writer, contract *models.Contract) {
	if isJSONOutput() {
		data, _ := json.MarshalIndent(contract, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, `Contract: %s
Client:   %s
Node:     %s
Status:   %s
RAM:      %d GB
VRAM:     %d GB
Duration: %d sec
Cost:     $%s
`, contract.ID, contract.ClientID, contract.NodeID, contract.Status,
		contract.RAMGB, contract.VRAMGB, contract.DurationSec,
		contract.TotalCostUSD.StringFixed(4))
}
