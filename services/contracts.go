// ABOUTME: Contract lifecycle: create reserves capacity, extend adds paid time, settle releases
// ABOUTME: Every transition is legal only from its documented source state

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// ContractService drives reservations from creation through settlement.
type ContractService struct {
	store  store.Store
	ledger *CapacityLedger
}

// NewContractService creates a contract service over the store and ledger.
func NewContractService(s store.Store, ledger *CapacityLedger) *ContractService {
	return &ContractService{store: s, ledger: ledger}
}

// Create validates the node, reserves capacity, and persists an active
// contract with the node's price frozen in. On insufficient capacity it
// fails without any mutation.
func (c *ContractService) Create(ctx context.Context, params models.ContractCreate) (*models.Contract, error) {
	if params.RAMGB < 0 || params.VRAMGB < 0 || params.RAMGB+params.VRAMGB == 0 {
		return nil, fmt.Errorf("%w: contract must allocate a positive amount of RAM or VRAM", ErrValidation)
	}
	if params.DurationSec <= 0 {
		return nil, fmt.Errorf("%w: duration_sec must be positive", ErrValidation)
	}

	node, err := c.store.GetNode(ctx, params.NodeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("node %s: %w", params.NodeID, store.ErrNotFound)
		}
		return nil, err
	}
	if node.Status != models.NodeStatusActive {
		// A node in maintenance or offline is not available for allocation
		return nil, fmt.Errorf("node %s is not available: %w", params.NodeID, store.ErrNotFound)
	}

	if err := c.ledger.Reserve(ctx, node.ID, params.RAMGB, params.VRAMGB); err != nil {
		return nil, err
	}

	totalGB := int64(params.RAMGB + params.VRAMGB)
	totalCost := decimal.NewFromInt(totalGB).
		Mul(decimal.NewFromInt(int64(params.DurationSec))).
		Mul(node.PricePerGBSec)

	startTime := time.Now().UTC()
	contract := &models.Contract{
		ID:            uuid.NewString(),
		ClientID:      params.ClientID,
		NodeID:        node.ID,
		RAMGB:         params.RAMGB,
		VRAMGB:        params.VRAMGB,
		DurationSec:   params.DurationSec,
		StartTime:     startTime,
		EndTime:       startTime.Add(time.Duration(params.DurationSec) * time.Second),
		PricePerGBSec: node.PricePerGBSec,
		TotalCostUSD:  totalCost,
		EgressGB:      decimal.Zero,
		Status:        models.ContractStatusActive,
		CreatedAt:     startTime,
	}

	if err := c.store.CreateContract(ctx, contract); err != nil {
		// Undo the reservation rather than leak capacity
		if releaseErr := c.ledger.Release(ctx, node.ID, params.RAMGB, params.VRAMGB); releaseErr != nil {
			slog.Error("Failed to roll back reservation after contract persist failure",
				"node_id", node.ID, "error", releaseErr)
		}
		return nil, fmt.Errorf("persisting contract: %w", err)
	}

	slog.Info("Contract created",
		"contract_id", contract.ID, "node_id", node.ID,
		"ram_gb", params.RAMGB, "vram_gb", params.VRAMGB,
		"total_cost_usd", totalCost.String())
	return contract, nil
}

// Get returns one contract by ID.
func (c *ContractService) Get(ctx context.Context, contractID string) (*models.Contract, error) {
	return c.store.GetContract(ctx, contractID)
}

// List returns contracts matching the filter, newest first.
func (c *ContractService) List(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error) {
	return c.store.ListContracts(ctx, filter)
}

// Extend adds duration and incremental cost at the originally frozen price.
// Valid from active only; extension consumes no additional GB, so capacity
// is not re-checked.
func (c *ContractService) Extend(ctx context.Context, contractID string, additionalDurationSec int) (*models.Contract, error) {
	if additionalDurationSec <= 0 {
		return nil, fmt.Errorf("%w: additional_duration_sec must be positive", ErrValidation)
	}

	contract, err := c.store.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, fmt.Errorf("%w: can only extend active contracts, contract %s is %s",
			ErrInvalidState, contractID, contract.Status)
	}

	totalGB := int64(contract.RAMGB + contract.VRAMGB)
	additionalCost := decimal.NewFromInt(totalGB).
		Mul(decimal.NewFromInt(int64(additionalDurationSec))).
		Mul(contract.PricePerGBSec)

	contract.DurationSec += additionalDurationSec
	contract.EndTime = contract.EndTime.Add(time.Duration(additionalDurationSec) * time.Second)
	contract.TotalCostUSD = contract.TotalCostUSD.Add(additionalCost)

	if err := c.store.UpdateContract(ctx, contract); err != nil {
		return nil, fmt.Errorf("persisting extension: %w", err)
	}

	slog.Info("Contract extended",
		"contract_id", contract.ID, "additional_duration_sec", additionalDurationSec,
		"total_cost_usd", contract.TotalCostUSD.String())
	return contract, nil
}

// Settle completes an active contract, stamps the completion time, records
// actual egress, and returns the reserved GB to the node. The contract is
// marked completed before capacity is released, so a concurrent settle hits
// the active-only guard and can never double-release.
func (c *ContractService) Settle(ctx context.Context, contractID string, actualEgressGB decimal.Decimal) (*models.Contract, error) {
	contract, err := c.store.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusActive {
		return nil, fmt.Errorf("%w: can only settle active contracts, contract %s is %s",
			ErrInvalidState, contractID, contract.Status)
	}

	completedAt := time.Now().UTC()
	contract.Status = models.ContractStatusCompleted
	contract.CompletedAt = &completedAt
	contract.EgressGB = actualEgressGB

	if err := c.store.UpdateContract(ctx, contract); err != nil {
		return nil, fmt.Errorf("persisting settlement: %w", err)
	}

	if err := c.ledger.Release(ctx, contract.NodeID, contract.RAMGB, contract.VRAMGB); err != nil {
		// The contract is already completed; capacity must be reconciled
		// manually rather than risking a double release on retry.
		slog.Error("Contract completed but capacity release failed",
			"contract_id", contract.ID, "node_id", contract.NodeID, "error", err)
		return nil, fmt.Errorf("releasing capacity for contract %s: %w", contract.ID, err)
	}

	slog.Info("Contract settled",
		"contract_id", contract.ID, "node_id", contract.NodeID,
		"egress_gb", actualEgressGB.String())
	return contract, nil
}
