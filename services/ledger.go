// ABOUTME: Capacity ledger owning reserve/release of node RAM/VRAM counters
// ABOUTME: A per-node mutex serializes check-then-subtract so nodes cannot be overdrawn

package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/djmistretta15/Nnemo/store"
)

// CapacityLedger is the only component allowed to mutate a node's available
// counters for reservation bookkeeping. Telemetry ingestion writes those
// counters directly; callers must tolerate estimates moving underneath them.
type CapacityLedger struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCapacityLedger creates a ledger over the given store.
func NewCapacityLedger(s store.Store) *CapacityLedger {
	return &CapacityLedger{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

// nodeLock returns the mutex serializing mutations for one node.
func (l *CapacityLedger) nodeLock(nodeID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[nodeID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[nodeID] = lock
	}
	return lock
}

// Reserve subtracts the requested GB from a node's available counters. If
// either resource would go negative the reservation is rejected with no
// mutation; insufficient capacity is reported synchronously and the caller
// is expected to pick a different node.
func (l *CapacityLedger) Reserve(ctx context.Context, nodeID string, ramGB, vramGB int) error {
	if ramGB < 0 || vramGB < 0 {
		return fmt.Errorf("%w: reservation amounts must not be negative", ErrValidation)
	}

	lock := l.nodeLock(nodeID)
	lock.Lock()
	defer lock.Unlock()

	node, err := l.store.GetNode(ctx, nodeID)
	if err != nil {
		return err
	}

	if node.AvailableRAMGB < ramGB {
		return fmt.Errorf("%w: RAM available %dGB, requested %dGB on node %s",
			ErrInsufficientCapacity, node.AvailableRAMGB, ramGB, nodeID)
	}
	if node.AvailableVRAMGB < vramGB {
		return fmt.Errorf("%w: VRAM available %dGB, requested %dGB on node %s",
			ErrInsufficientCapacity, node.AvailableVRAMGB, vramGB, nodeID)
	}

	node.AvailableRAMGB -= ramGB
	node.AvailableVRAMGB -= vramGB

	if err := l.store.UpdateNode(ctx, node); err != nil {
		return fmt.Errorf("persisting reservation: %w", err)
	}

	slog.Debug("Capacity reserved",
		"node_id", nodeID, "ram_gb", ramGB, "vram_gb", vramGB,
		"available_ram_gb", node.AvailableRAMGB, "available_vram_gb", node.AvailableVRAMGB)
	return nil
}

// Release adds back exactly the amounts reserved for a contract. The result
// is clamped at the node's totals: telemetry may have raised the available
// estimates underneath the ledger, and available must never exceed total.
func (l *CapacityLedger) Release(ctx context.Context, nodeID string, ramGB, vramGB int) error {
	if ramGB < 0 || vramGB < 0 {
		return fmt.Errorf("%w: release amounts must not be negative", ErrValidation)
	}

	lock := l.nodeLock(nodeID)
	lock.Lock()
	defer lock.Unlock()

	node, err := l.store.GetNode(ctx, nodeID)
	if err != nil {
		return err
	}

	node.AvailableRAMGB += ramGB
	node.AvailableVRAMGB += vramGB

	if node.AvailableRAMGB > node.TotalRAMGB || node.AvailableVRAMGB > node.TotalVRAMGB {
		slog.Warn("Release clamped at node totals; telemetry moved estimates under the ledger",
			"node_id", nodeID,
			"available_ram_gb", node.AvailableRAMGB, "total_ram_gb", node.TotalRAMGB,
			"available_vram_gb", node.AvailableVRAMGB, "total_vram_gb", node.TotalVRAMGB)
		if node.AvailableRAMGB > node.TotalRAMGB {
			node.AvailableRAMGB = node.TotalRAMGB
		}
		if node.AvailableVRAMGB > node.TotalVRAMGB {
			node.AvailableVRAMGB = node.TotalVRAMGB
		}
	}

	if err := l.store.UpdateNode(ctx, node); err != nil {
		return fmt.Errorf("persisting release: %w", err)
	}

	slog.Debug("Capacity released",
		"node_id", nodeID, "ram_gb", ramGB, "vram_gb", vramGB,
		"available_ram_gb", node.AvailableRAMGB, "available_vram_gb", node.AvailableVRAMGB)
	return nil
}
