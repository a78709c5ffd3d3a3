// ABOUTME: Per-region aggregation of active nodes into cluster rollups
// ABOUTME: A computed read-only view; callers cache it with a TTL

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// ClusterService computes geographic capacity rollups.
type ClusterService struct {
	store store.Store
}

// NewClusterService creates a cluster service over the given store.
func NewClusterService(s store.Store) *ClusterService {
	return &ClusterService{store: s}
}

// Aggregate groups active nodes by region and sums capacity, averages price,
// and centers coordinates. Regions with no active nodes are omitted.
func (c *ClusterService) Aggregate(ctx context.Context) ([]models.Cluster, error) {
	nodes, err := c.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	byRegion := make(map[string][]*models.Node)
	for _, node := range nodes {
		if node.Status != models.NodeStatusActive {
			continue
		}
		byRegion[node.Region] = append(byRegion[node.Region], node)
	}

	now := time.Now().UTC()
	clusters := make([]models.Cluster, 0, len(byRegion))
	for region, regionNodes := range byRegion {
		cluster := models.Cluster{
			Region:      region,
			TotalNodes:  len(regionNodes),
			LastUpdated: now,
		}

		priceSum := decimal.Zero
		var latSum, lngSum float64
		var located int
		for _, node := range regionNodes {
			switch node.NodeType {
			case models.NodeTypeDatacenter:
				cluster.DatacenterNodes++
			case models.NodeTypeEdgeCluster:
				cluster.EdgeNodes++
			case models.NodeTypeMistNode:
				cluster.MistNodes++
			}
			cluster.TotalRAMGB += node.TotalRAMGB
			cluster.AvailableRAMGB += node.AvailableRAMGB
			cluster.TotalVRAMGB += node.TotalVRAMGB
			cluster.AvailableVRAMGB += node.AvailableVRAMGB
			priceSum = priceSum.Add(node.PricePerGBSec)
			if node.HasCoordinates() {
				latSum += *node.Latitude
				lngSum += *node.Longitude
				located++
			}
		}

		cluster.AvgPricePerGBSec = priceSum.DivRound(decimal.NewFromInt(int64(len(regionNodes))), 9)
		if located > 0 {
			centerLat := latSum / float64(located)
			centerLng := lngSum / float64(located)
			cluster.CenterLatitude = &centerLat
			cluster.CenterLongitude = &centerLng
		}
		clusters = append(clusters, cluster)
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Region < clusters[j].Region })
	return clusters, nil
}

// Supply sums active sell-side capacity, optionally limited to one region.
// An empty market yields zero counters, not an error.
func (c *ClusterService) Supply(ctx context.Context, region string) (*models.MarketSupply, error) {
	nodes, err := c.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	supply := &models.MarketSupply{
		Region:           region,
		UtilizationRate:  decimal.Zero,
		AvgPricePerGBSec: decimal.Zero,
	}
	priceSum := decimal.Zero
	for _, node := range nodes {
		if node.Status != models.NodeStatusActive {
			continue
		}
		if region != "" && node.Region != region {
			continue
		}
		supply.TotalNodes++
		supply.TotalRAMGB += node.TotalRAMGB
		supply.AvailableRAMGB += node.AvailableRAMGB
		supply.TotalVRAMGB += node.TotalVRAMGB
		supply.AvailableVRAMGB += node.AvailableVRAMGB
		priceSum = priceSum.Add(node.PricePerGBSec)
	}

	totalCapacity := supply.TotalRAMGB + supply.TotalVRAMGB
	if totalCapacity > 0 {
		used := totalCapacity - supply.AvailableRAMGB - supply.AvailableVRAMGB
		supply.UtilizationRate = decimal.NewFromInt(int64(used)).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(int64(totalCapacity)), 2)
	}
	if supply.TotalNodes > 0 {
		supply.AvgPricePerGBSec = priceSum.DivRound(decimal.NewFromInt(int64(supply.TotalNodes)), 9)
	}
	return supply, nil
}
