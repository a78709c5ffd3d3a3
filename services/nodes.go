// ABOUTME: Node registry: registration, lookup, and filtered marketplace browsing
// ABOUTME: Registration starts a node with available capacity equal to total

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// NodeService manages the provider registry.
type NodeService struct {
	store store.Store
}

// NewNodeService creates a node service over the given store.
func NewNodeService(s store.Store) *NodeService {
	return &NodeService{store: s}
}

// BrowseFilter narrows marketplace listings.
type BrowseFilter struct {
	NodeType         models.NodeType
	Region           string
	MinRAMGB         int
	MinVRAMGB        int
	MaxPricePerGBSec decimal.Decimal
	MinUptimeScore   float64
	Limit            int
	Offset           int
}

// BrowseResult is one page of marketplace offers.
type BrowseResult struct {
	Nodes []*models.Node `json:"nodes"`
	Total int            `json:"total"`
}

// Register validates and persists a new node.
func (n *NodeService) Register(ctx context.Context, reg models.NodeRegistration) (*models.Node, error) {
	if reg.Name == "" {
		return nil, fmt.Errorf("%w: node name is required", ErrValidation)
	}
	switch reg.NodeType {
	case models.NodeTypeDatacenter, models.NodeTypeEdgeCluster, models.NodeTypeMistNode:
	default:
		return nil, fmt.Errorf("%w: unknown node type %q", ErrValidation, reg.NodeType)
	}
	if reg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrValidation)
	}
	if reg.TotalRAMGB < 0 || reg.TotalVRAMGB < 0 || reg.TotalRAMGB+reg.TotalVRAMGB == 0 {
		return nil, fmt.Errorf("%w: node must offer a positive amount of RAM or VRAM", ErrValidation)
	}
	if !reg.PricePerGBSec.IsPositive() {
		return nil, fmt.Errorf("%w: price_per_gb_sec must be positive", ErrValidation)
	}
	if reg.UptimeScore < 0 || reg.UptimeScore > 100 {
		return nil, fmt.Errorf("%w: uptime_score must be between 0 and 100", ErrValidation)
	}
	if (reg.Latitude == nil) != (reg.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", ErrValidation)
	}

	uptime := reg.UptimeScore
	if uptime == 0 {
		uptime = 99.0
	}

	now := time.Now().UTC()
	node := &models.Node{
		ID:              uuid.NewString(),
		Name:            reg.Name,
		NodeType:        reg.NodeType,
		Region:          reg.Region,
		OrganizationID:  reg.OrganizationID,
		Latitude:        reg.Latitude,
		Longitude:       reg.Longitude,
		TotalRAMGB:      reg.TotalRAMGB,
		AvailableRAMGB:  reg.TotalRAMGB,
		TotalVRAMGB:     reg.TotalVRAMGB,
		AvailableVRAMGB: reg.TotalVRAMGB,
		BandwidthMbps:   reg.BandwidthMbps,
		BaseLatencyMs:   reg.BaseLatencyMs,
		GPUModel:        reg.GPUModel,
		UptimeScore:     uptime,
		PricePerGBSec:   reg.PricePerGBSec,
		Status:          models.NodeStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := n.store.CreateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("persisting node: %w", err)
	}
	return node, nil
}

// Get returns one node by ID.
func (n *NodeService) Get(ctx context.Context, id string) (*models.Node, error) {
	return n.store.GetNode(ctx, id)
}

// SetStatus moves a node between active, maintenance, and offline.
func (n *NodeService) SetStatus(ctx context.Context, id string, status models.NodeStatus) (*models.Node, error) {
	switch status {
	case models.NodeStatusActive, models.NodeStatusMaintenance, models.NodeStatusOffline:
	default:
		return nil, fmt.Errorf("%w: unknown node status %q", ErrValidation, status)
	}

	node, err := n.store.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	node.Status = status
	node.UpdatedAt = time.Now().UTC()
	if err := n.store.UpdateNode(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// Browse lists active nodes matching the marketplace filters, with the
// total count taken before pagination.
func (n *NodeService) Browse(ctx context.Context, filter BrowseFilter) (*BrowseResult, error) {
	nodes, err := n.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	matched := make([]*models.Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Status != models.NodeStatusActive {
			continue
		}
		if filter.NodeType != "" && node.NodeType != filter.NodeType {
			continue
		}
		if filter.Region != "" && node.Region != filter.Region {
			continue
		}
		if filter.MinRAMGB > 0 && node.AvailableRAMGB < filter.MinRAMGB {
			continue
		}
		if filter.MinVRAMGB > 0 && node.AvailableVRAMGB < filter.MinVRAMGB {
			continue
		}
		if filter.MaxPricePerGBSec.IsPositive() && node.PricePerGBSec.GreaterThan(filter.MaxPricePerGBSec) {
			continue
		}
		if filter.MinUptimeScore > 0 && node.UptimeScore < filter.MinUptimeScore {
			continue
		}
		matched = append(matched, node)
	}

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = []*models.Node{}
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return &BrowseResult{Nodes: matched, Total: total}, nil
}
