// ABOUTME: Tests for per-region cluster aggregation
// ABOUTME: Validates grouping, type counts, capacity sums, and price averaging

package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

func TestAggregate_GroupsByRegion(t *testing.T) {
	s := store.NewMemoryStore()

	euDC := newTestNode("eu-1")
	euMist := newTestNode("eu-2")
	euMist.NodeType = models.NodeTypeMistNode
	usEdge := newTestNode("us-1")
	usEdge.NodeType = models.NodeTypeEdgeCluster
	usEdge.Region = "us-east"

	seedNodes(t, s, euDC, euMist, usEdge)

	svc := NewClusterService(s)
	clusters, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	// Sorted by region name
	if clusters[0].Region != "eu-central" || clusters[1].Region != "us-east" {
		t.Errorf("Expected regions [eu-central us-east], got [%s %s]",
			clusters[0].Region, clusters[1].Region)
	}

	eu := clusters[0]
	if eu.TotalNodes != 2 || eu.DatacenterNodes != 1 || eu.MistNodes != 1 {
		t.Errorf("Expected eu-central 2 nodes (1 DC, 1 mist), got %d/%d/%d",
			eu.TotalNodes, eu.DatacenterNodes, eu.MistNodes)
	}
	if eu.TotalRAMGB != 200 || eu.AvailableRAMGB != 200 {
		t.Errorf("Expected 200/200 GB RAM, got %d/%d", eu.TotalRAMGB, eu.AvailableRAMGB)
	}
}

func TestAggregate_SkipsInactiveNodes(t *testing.T) {
	s := store.NewMemoryStore()

	active := newTestNode("a")
	offline := newTestNode("b")
	offline.Status = models.NodeStatusOffline

	seedNodes(t, s, active, offline)

	svc := NewClusterService(s)
	clusters, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(clusters) != 1 || clusters[0].TotalNodes != 1 {
		t.Fatalf("Expected 1 cluster with 1 active node, got %v", clusters)
	}
}

func TestAggregate_AveragesPrice(t *testing.T) {
	// Prices 0.00001 and 0.00003 average to 0.00002

	s := store.NewMemoryStore()

	cheap := newTestNode("a")
	pricey := newTestNode("b")
	pricey.PricePerGBSec = decimal.RequireFromString("0.00003")

	seedNodes(t, s, cheap, pricey)

	svc := NewClusterService(s)
	clusters, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	expected := decimal.RequireFromString("0.00002")
	if !clusters[0].AvgPricePerGBSec.Equal(expected) {
		t.Errorf("Expected average price 0.00002, got %s", clusters[0].AvgPricePerGBSec)
	}
}

func TestAggregate_CentersCoordinates(t *testing.T) {
	s := store.NewMemoryStore()

	north := newTestNode("a")
	nlat, nlng := 50.0, 10.0
	north.Latitude, north.Longitude = &nlat, &nlng

	south := newTestNode("b")
	slat, slng := 48.0, 12.0
	south.Latitude, south.Longitude = &slat, &slng

	unlocated := newTestNode("c")

	seedNodes(t, s, north, south, unlocated)

	svc := NewClusterService(s)
	clusters, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	cluster := clusters[0]
	if cluster.CenterLatitude == nil || cluster.CenterLongitude == nil {
		t.Fatal("Expected a coordinate center")
	}
	if *cluster.CenterLatitude != 49.0 || *cluster.CenterLongitude != 11.0 {
		t.Errorf("Expected center (49, 11), got (%f, %f)",
			*cluster.CenterLatitude, *cluster.CenterLongitude)
	}
}

func TestSupply_SumsActiveCapacity(t *testing.T) {
	// Two active nodes, 100GB RAM + 100GB VRAM each, one half-reserved:
	//   combined total 400GB, available 300GB, used 100GB
	//   utilization = 100/400 * 100 = 25%
	// Prices 0.00001 and 0.00003 average to 0.00002. The offline node
	// contributes nothing.

	s := store.NewMemoryStore()

	busy := newTestNode("a")
	busy.AvailableRAMGB = 60
	busy.AvailableVRAMGB = 40

	idle := newTestNode("b")
	idle.PricePerGBSec = decimal.RequireFromString("0.00003")

	offline := newTestNode("c")
	offline.Status = models.NodeStatusOffline

	seedNodes(t, s, busy, idle, offline)

	svc := NewClusterService(s)
	supply, err := svc.Supply(context.Background(), "")
	if err != nil {
		t.Fatalf("Supply failed: %v", err)
	}

	if supply.TotalNodes != 2 {
		t.Errorf("Expected 2 active nodes, got %d", supply.TotalNodes)
	}
	if supply.TotalRAMGB != 200 || supply.AvailableRAMGB != 160 {
		t.Errorf("Expected RAM 200/160, got %d/%d", supply.TotalRAMGB, supply.AvailableRAMGB)
	}
	if supply.TotalVRAMGB != 200 || supply.AvailableVRAMGB != 140 {
		t.Errorf("Expected VRAM 200/140, got %d/%d", supply.TotalVRAMGB, supply.AvailableVRAMGB)
	}
	if expected := decimal.RequireFromString("25"); !supply.UtilizationRate.Equal(expected) {
		t.Errorf("Expected utilization 25, got %s", supply.UtilizationRate)
	}
	if expected := decimal.RequireFromString("0.00002"); !supply.AvgPricePerGBSec.Equal(expected) {
		t.Errorf("Expected average price 0.00002, got %s", supply.AvgPricePerGBSec)
	}
}

func TestSupply_RegionFilter(t *testing.T) {
	s := store.NewMemoryStore()

	eu := newTestNode("eu-1")
	us := newTestNode("us-1")
	us.Region = "us-east"

	seedNodes(t, s, eu, us)

	svc := NewClusterService(s)
	supply, err := svc.Supply(context.Background(), "us-east")
	if err != nil {
		t.Fatalf("Supply failed: %v", err)
	}
	if supply.Region != "us-east" || supply.TotalNodes != 1 {
		t.Errorf("Expected 1 node in us-east, got %d in %q", supply.TotalNodes, supply.Region)
	}
	if supply.TotalRAMGB != 100 {
		t.Errorf("Expected 100GB RAM, got %d", supply.TotalRAMGB)
	}
}

func TestSupply_EmptyMarket(t *testing.T) {
	svc := NewClusterService(store.NewMemoryStore())
	supply, err := svc.Supply(context.Background(), "")
	if err != nil {
		t.Fatalf("Supply failed: %v", err)
	}
	if supply.TotalNodes != 0 {
		t.Errorf("Expected 0 nodes, got %d", supply.TotalNodes)
	}
	if !supply.UtilizationRate.IsZero() || !supply.AvgPricePerGBSec.IsZero() {
		t.Errorf("Expected zero utilization and price, got %s / %s",
			supply.UtilizationRate, supply.AvgPricePerGBSec)
	}
}

func TestAggregate_EmptyFleet(t *testing.T) {
	svc := NewClusterService(store.NewMemoryStore())
	clusters, err := svc.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(clusters) != 0 {
		t.Errorf("Expected no clusters, got %d", len(clusters))
	}
}
