// ABOUTME: Node model for capacity providers (datacenters, edge clusters, mist nodes)
// ABOUTME: Capacity counters are mutated only by the ledger and telemetry ingestion

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NodeType classifies a capacity provider.
type NodeType string

const (
	NodeTypeDatacenter  NodeType = "datacenter"
	NodeTypeEdgeCluster NodeType = "edge_cluster"
	NodeTypeMistNode    NodeType = "mist_node"
)

// NodeStatus is a node's lifecycle state.
type NodeStatus string

const (
	NodeStatusActive      NodeStatus = "active"
	NodeStatusMaintenance NodeStatus = "maintenance"
	NodeStatusOffline     NodeStatus = "offline"
)

// Node is a capacity provider offering RAM/VRAM for rent.
// Invariant: 0 <= Available <= Total for both RAM and VRAM.
type Node struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NodeType       NodeType `json:"node_type"`
	Region         string   `json:"region"`
	OrganizationID string   `json:"organization_id,omitempty"`

	// Location (optional; nil means distance unknown, not zero)
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Capacity (GB)
	TotalRAMGB      int `json:"total_ram_gb"`
	AvailableRAMGB  int `json:"available_ram_gb"`
	TotalVRAMGB     int `json:"total_vram_gb"`
	AvailableVRAMGB int `json:"available_vram_gb"`

	// Performance
	BandwidthMbps int     `json:"bandwidth_mbps"`
	BaseLatencyMs float64 `json:"base_latency_ms"`
	GPUModel      string  `json:"gpu_model,omitempty"`

	// Reliability (0-100)
	UptimeScore float64 `json:"uptime_score"`

	// Pricing
	PricePerGBSec decimal.Decimal `json:"price_per_gb_sec"`

	Status        NodeStatus `json:"status"`
	LastHeartbeat *time.Time `json:"last_heartbeat,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasCoordinates reports whether the node's location is known.
func (n *Node) HasCoordinates() bool {
	return n.Latitude != nil && n.Longitude != nil
}

// BandwidthGbps converts the stored Mbps figure for fit scoring.
func (n *Node) BandwidthGbps() float64 {
	return float64(n.BandwidthMbps) / 1000
}

// NodeRegistration is the payload for registering a new node.
// Available capacity starts equal to total.
type NodeRegistration struct {
	Name           string          `json:"name"`
	NodeType       NodeType        `json:"node_type"`
	Region         string          `json:"region"`
	OrganizationID string          `json:"organization_id,omitempty"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	TotalRAMGB     int             `json:"total_ram_gb"`
	TotalVRAMGB    int             `json:"total_vram_gb"`
	BandwidthMbps  int             `json:"bandwidth_mbps"`
	BaseLatencyMs  float64         `json:"base_latency_ms"`
	GPUModel       string          `json:"gpu_model,omitempty"`
	UptimeScore    float64         `json:"uptime_score"`
	PricePerGBSec  decimal.Decimal `json:"price_per_gb_sec"`
}
