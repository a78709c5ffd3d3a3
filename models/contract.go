// ABOUTME: Contract model for time-bounded memory reservations with frozen pricing
// ABOUTME: Status drives the lifecycle: pending -> active -> completed (or failed)

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is a contract's lifecycle state.
type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusFailed    ContractStatus = "failed"
)

// Contract is an allocation of RAM/VRAM on one node for one client.
// While active, the allocated GB are subtracted from the node's available
// capacity exactly once; settlement adds them back exactly once.
type Contract struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	NodeID   string `json:"node_id"`

	// Allocation (GB)
	RAMGB  int `json:"ram_gb"`
	VRAMGB int `json:"vram_gb"`

	// Timing
	DurationSec int       `json:"duration_sec"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	// Pricing, frozen at creation
	PricePerGBSec decimal.Decimal `json:"price_per_gb_sec"`
	TotalCostUSD  decimal.Decimal `json:"total_cost_usd"`

	// Settlement
	EgressGB decimal.Decimal `json:"egress_gb"`

	Status      ContractStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// ContractCreate is the payload for allocating capacity on a node.
type ContractCreate struct {
	NodeID      string `json:"node_id"`
	ClientID    string `json:"client_id"`
	RAMGB       int    `json:"ram_gb"`
	VRAMGB      int    `json:"vram_gb"`
	DurationSec int    `json:"duration_sec"`
}

// ContractExtend adds duration to an active contract at the frozen price.
type ContractExtend struct {
	AdditionalDurationSec int `json:"additional_duration_sec"`
}

// ContractSettle completes a contract and records actual egress.
type ContractSettle struct {
	ActualEgressGB decimal.Decimal `json:"actual_egress_gb"`
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	ClientID string
	NodeID   string
	Status   ContractStatus
	Limit    int
	Offset   int
}
