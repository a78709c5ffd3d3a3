// ABOUTME: Telemetry ingestion from node agents: heartbeats and metric history
// ABOUTME: Heartbeats overwrite available-capacity estimates directly, bypassing the ledger

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// TelemetryService records node heartbeats. It writes the node's available
// RAM/VRAM fields straight from live measurement, independent of reservation
// bookkeeping; the ledger tolerates the resulting drift instead of silently
// reconciling it.
type TelemetryService struct {
	store store.Store
}

// NewTelemetryService creates a telemetry service over the given store.
func NewTelemetryService(s store.Store) *TelemetryService {
	return &TelemetryService{store: s}
}

// Record ingests one heartbeat: it appends a metric record and overwrites
// the node's capacity estimates, heartbeat timestamp, and (for mobile mist
// nodes) coordinates.
func (t *TelemetryService) Record(ctx context.Context, nodeID string, metric *models.NodeMetric) (*models.NodeMetric, error) {
	if metric.AvailableRAMGB < 0 || metric.AvailableVRAMGB < 0 {
		return nil, fmt.Errorf("%w: available capacity must not be negative", ErrValidation)
	}

	node, err := t.store.GetNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	metric.NodeID = nodeID
	if metric.Timestamp.IsZero() {
		metric.Timestamp = time.Now().UTC()
	}

	// Live measurement wins over ledger bookkeeping, but the invariant
	// available <= total still holds.
	node.AvailableRAMGB = min(metric.AvailableRAMGB, node.TotalRAMGB)
	node.AvailableVRAMGB = min(metric.AvailableVRAMGB, node.TotalVRAMGB)
	if metric.BandwidthMbps > 0 {
		node.BandwidthMbps = metric.BandwidthMbps
	}
	if metric.Latitude != nil && metric.Longitude != nil {
		node.Latitude = metric.Latitude
		node.Longitude = metric.Longitude
	}
	heartbeat := metric.Timestamp
	node.LastHeartbeat = &heartbeat
	node.UpdatedAt = heartbeat

	if err := t.store.UpdateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("updating node estimates: %w", err)
	}
	if err := t.store.AppendMetric(ctx, metric); err != nil {
		return nil, fmt.Errorf("appending metric: %w", err)
	}

	slog.Debug("Heartbeat recorded",
		"node_id", nodeID,
		"available_ram_gb", node.AvailableRAMGB, "available_vram_gb", node.AvailableVRAMGB)
	return metric, nil
}

// History returns recent metrics for a node, newest first.
func (t *TelemetryService) History(ctx context.Context, nodeID string, limit int) ([]*models.NodeMetric, error) {
	if _, err := t.store.GetNode(ctx, nodeID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return t.store.ListMetrics(ctx, nodeID, limit)
}
