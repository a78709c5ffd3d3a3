// ABOUTME: Tests for the in-memory store
// ABOUTME: Validates copy semantics, ordering guarantees, and filters

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/djmistretta15/Nnemo/models"
)

func TestMemoryStore_NodeCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	node := &models.Node{ID: "a", Name: "node-a", Status: models.NodeStatusActive}
	if err := s.CreateNode(ctx, node); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	got, err := s.GetNode(ctx, "a")
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if got.Name != "node-a" {
		t.Errorf("Expected name 'node-a', got %q", got.Name)
	}

	got.Name = "mutated"
	fresh, _ := s.GetNode(ctx, "a")
	if fresh.Name != "node-a" {
		t.Error("Mutating a returned node leaked into the store")
	}

	if _, err := s.GetNode(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteNode(ctx, "a"); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if _, err := s.GetNode(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_ListNodesSortedByID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := s.CreateNode(ctx, &models.Node{ID: id}); err != nil {
			t.Fatalf("CreateNode failed: %v", err)
		}
	}

	nodes, err := s.ListNodes(ctx)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if nodes[i].ID != want {
			t.Errorf("Expected position %d to be %q, got %q", i, want, nodes[i].ID)
		}
	}
}

func TestMemoryStore_UpdateNodeUnknown(t *testing.T) {
	s := NewMemoryStore()
	err := s.UpdateNode(context.Background(), &models.Node{ID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ContractFilterAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	contracts := []*models.Contract{
		{ID: "old", ClientID: "c1", Status: models.ContractStatusCompleted, CreatedAt: base},
		{ID: "mid", ClientID: "c1", Status: models.ContractStatusActive, CreatedAt: base.Add(time.Hour)},
		{ID: "new", ClientID: "c2", Status: models.ContractStatusActive, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, c := range contracts {
		if err := s.CreateContract(ctx, c); err != nil {
			t.Fatalf("CreateContract failed: %v", err)
		}
	}

	all, err := s.ListContracts(ctx, models.ContractFilter{})
	if err != nil {
		t.Fatalf("ListContracts failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "new" || all[2].ID != "old" {
		t.Errorf("Expected newest-first [new mid old], got %v", all)
	}

	forClient, err := s.ListContracts(ctx, models.ContractFilter{ClientID: "c1", Status: models.ContractStatusActive})
	if err != nil {
		t.Fatalf("ListContracts failed: %v", err)
	}
	if len(forClient) != 1 || forClient[0].ID != "mid" {
		t.Errorf("Expected only 'mid', got %v", forClient)
	}

	paged, err := s.ListContracts(ctx, models.ContractFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListContracts failed: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != "mid" {
		t.Errorf("Expected page containing 'mid', got %v", paged)
	}

	beyond, err := s.ListContracts(ctx, models.ContractFilter{Offset: 10})
	if err != nil {
		t.Fatalf("ListContracts failed: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("Expected empty page past the end, got %d", len(beyond))
	}
}

func TestMemoryStore_ProfileByName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	profile := &models.ModelProfile{ID: "p1", Name: "llama-70b", SuggestedMinVRAMGB: 48}
	if err := s.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}

	got, err := s.GetProfileByName(ctx, "llama-70b")
	if err != nil {
		t.Fatalf("GetProfileByName failed: %v", err)
	}
	if got.ID != "p1" {
		t.Errorf("Expected profile p1, got %q", got.ID)
	}

	if _, err := s.GetProfileByName(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_PlacementPair(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	req := &models.PlacementRequest{ID: "r1", ClientID: "c1", ModelName: "llama-70b"}
	decision := &models.PlacementDecision{ID: "d1", PlacementRequestID: "r1", ChosenNodeID: "n1"}
	if err := s.CreatePlacement(ctx, req, decision); err != nil {
		t.Fatalf("CreatePlacement failed: %v", err)
	}

	gotReq, gotDecision, err := s.GetPlacement(ctx, "r1")
	if err != nil {
		t.Fatalf("GetPlacement failed: %v", err)
	}
	if gotReq.ModelName != "llama-70b" || gotDecision.ChosenNodeID != "n1" {
		t.Errorf("Expected stored pair, got %v / %v", gotReq, gotDecision)
	}

	if _, _, err := s.GetPlacement(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_MetricsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		metric := &models.NodeMetric{NodeID: "a", AvailableRAMGB: i}
		if err := s.AppendMetric(ctx, metric); err != nil {
			t.Fatalf("AppendMetric failed: %v", err)
		}
	}

	metrics, err := s.ListMetrics(ctx, "a", 2)
	if err != nil {
		t.Fatalf("ListMetrics failed: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("Expected 2 metrics, got %d", len(metrics))
	}
	if metrics[0].AvailableRAMGB != 4 || metrics[1].AvailableRAMGB != 3 {
		t.Errorf("Expected newest-first [4 3], got [%d %d]",
			metrics[0].AvailableRAMGB, metrics[1].AvailableRAMGB)
	}
}
