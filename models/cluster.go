// ABOUTME: Geographic cluster rollup computed from active nodes per region
// ABOUTME: A read-only aggregate view; never written back to individual nodes

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cluster aggregates capacity per region.
type Cluster struct {
	Region string `json:"region"`

	TotalNodes      int `json:"total_nodes"`
	DatacenterNodes int `json:"datacenter_nodes"`
	EdgeNodes       int `json:"edge_nodes"`
	MistNodes       int `json:"mist_nodes"`

	TotalRAMGB      int `json:"total_ram_gb"`
	AvailableRAMGB  int `json:"available_ram_gb"`
	TotalVRAMGB     int `json:"total_vram_gb"`
	AvailableVRAMGB int `json:"available_vram_gb"`

	AvgPricePerGBSec decimal.Decimal `json:"avg_price_per_gb_sec"`

	CenterLatitude  *float64 `json:"center_latitude,omitempty"`
	CenterLongitude *float64 `json:"center_longitude,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// MarketSupply summarizes the active sell side of the marketplace, either
// globally or for a single region. Utilization is the reserved share of the
// combined RAM+VRAM capacity, as a percentage.
type MarketSupply struct {
	Region string `json:"region,omitempty"`

	TotalNodes      int `json:"total_nodes"`
	TotalRAMGB      int `json:"total_ram_gb"`
	AvailableRAMGB  int `json:"available_ram_gb"`
	TotalVRAMGB     int `json:"total_vram_gb"`
	AvailableVRAMGB int `json:"available_vram_gb"`

	UtilizationRate  decimal.Decimal `json:"utilization_rate"`
	AvgPricePerGBSec decimal.Decimal `json:"avg_price_per_gb_sec"`
}

// ErrorResponse is the JSON error shape shared by all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
