// ABOUTME: Telemetry models for node heartbeats and time-series metrics
// ABOUTME: Heartbeats overwrite a node's available-capacity estimates directly

package models

import "time"

// NodeMetric is one heartbeat report from a node agent.
type NodeMetric struct {
	NodeID string `json:"node_id"`

	// Live capacity measurement (overwrites the node's estimates)
	AvailableRAMGB  int `json:"available_ram_gb"`
	AvailableVRAMGB int `json:"available_vram_gb"`

	CPUUsagePct   float64 `json:"cpu_usage_pct,omitempty"`
	GPUUsagePct   float64 `json:"gpu_usage_pct,omitempty"`
	TemperatureC  int     `json:"temperature_c,omitempty"`
	BandwidthMbps int     `json:"bandwidth_mbps,omitempty"`

	// Geolocation can change for mobile mist nodes
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
