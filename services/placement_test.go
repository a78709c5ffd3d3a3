// ABOUTME: Tests for VRAM-aware placement selection and fit scoring
// ABOUTME: Covers the fit formula, clamping, filters, and profile fallback

package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

func TestFitScore_Formula(t *testing.T) {
	// Scenario: 80 GB VRAM free, 40 GB required, 10000 Mbps, 10 ms latency
	// Headroom:  (80-40) * 0.5 = 20
	// Bandwidth: 10 Gbps * 0.3 = 3
	// Latency:   10 * 0.2      = -2
	// Total:     21

	svc := NewPlacementService(store.NewMemoryStore())
	node := newTestNode("a")
	node.AvailableVRAMGB = 80

	score, reason := svc.FitScore(node, 40)
	if math.Abs(score-21) > 1e-9 {
		t.Errorf("Expected fit score 21, got %f", score)
	}
	if reason == "" {
		t.Error("Expected a non-empty reason")
	}
}

func TestFitScore_ClampedToHundred(t *testing.T) {
	svc := NewPlacementService(store.NewMemoryStore())
	node := newTestNode("a")
	node.AvailableVRAMGB = 500

	score, _ := svc.FitScore(node, 10)
	if score != 100 {
		t.Errorf("Expected fit score clamped at 100, got %f", score)
	}
}

func TestFitScore_ClampedToZero(t *testing.T) {
	// Zero headroom, no bandwidth, 50 ms latency pushes the raw score
	// negative; it must clamp at 0

	svc := NewPlacementService(store.NewMemoryStore())
	node := newTestNode("a")
	node.AvailableVRAMGB = 40
	node.BandwidthMbps = 0
	node.BaseLatencyMs = 50

	score, _ := svc.FitScore(node, 40)
	if score != 0 {
		t.Errorf("Expected fit score clamped at 0, got %f", score)
	}
}

func TestFindBestNode_PicksHighestFit(t *testing.T) {
	s := store.NewMemoryStore()

	small := newTestNode("small")
	small.AvailableVRAMGB = 50

	big := newTestNode("big")
	big.AvailableVRAMGB = 100

	seedNodes(t, s, small, big)

	svc := NewPlacementService(s)
	node, score, _, err := svc.FindBestNode(context.Background(), 40, "", "")
	if err != nil {
		t.Fatalf("FindBestNode failed: %v", err)
	}
	if node == nil {
		t.Fatal("Expected a node, got nil")
	}
	if node.ID != "big" {
		t.Errorf("Expected node 'big', got %q", node.ID)
	}
	if score <= 0 {
		t.Errorf("Expected positive fit score, got %f", score)
	}
}

func TestFindBestNode_NoCandidateReturnsNil(t *testing.T) {
	// Scenario: every node offers 80 GB VRAM, the request needs 100 GB.
	// Absence of eligible capacity is not an error at this layer.

	s := store.NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		node := newTestNode(id)
		node.AvailableVRAMGB = 80
		seedNodes(t, s, node)
	}

	svc := NewPlacementService(s)
	node, score, reason, err := svc.FindBestNode(context.Background(), 100, "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if node != nil {
		t.Errorf("Expected nil node, got %q", node.ID)
	}
	if score != 0 || reason != "" {
		t.Errorf("Expected zero score and empty reason, got %f %q", score, reason)
	}
}

func TestFindBestNode_SkipsInactiveAndFilters(t *testing.T) {
	s := store.NewMemoryStore()

	offline := newTestNode("offline")
	offline.Status = models.NodeStatusOffline

	wrongRegion := newTestNode("us")
	wrongRegion.Region = "us-east"

	wrongOrg := newTestNode("org")
	wrongOrg.OrganizationID = "other-org"

	match := newTestNode("match")
	match.OrganizationID = "my-org"

	seedNodes(t, s, offline, wrongRegion, wrongOrg, match)

	svc := NewPlacementService(s)
	node, _, _, err := svc.FindBestNode(context.Background(), 40, "eu-central", "my-org")
	if err != nil {
		t.Fatalf("FindBestNode failed: %v", err)
	}
	if node == nil || node.ID != "match" {
		t.Fatalf("Expected node 'match', got %v", node)
	}
}

func TestFindBestNode_TieKeepsLowestID(t *testing.T) {
	s := store.NewMemoryStore()
	seedNodes(t, s, newTestNode("bbb"), newTestNode("aaa"))

	svc := NewPlacementService(s)
	node, _, _, err := svc.FindBestNode(context.Background(), 40, "", "")
	if err != nil {
		t.Fatalf("FindBestNode failed: %v", err)
	}
	if node.ID != "aaa" {
		t.Errorf("Expected tie to keep lowest ID 'aaa', got %q", node.ID)
	}
}

func TestCreatePlacement_PersistsRequestAndDecision(t *testing.T) {
	s := store.NewMemoryStore()
	seedNodes(t, s, newTestNode("a"))

	svc := NewPlacementService(s)
	vram := 40.0
	decision, err := svc.CreatePlacement(context.Background(), PlacementParams{
		ClientID:       "client-1",
		ModelName:      "llama-70b",
		RequiredVRAMGB: &vram,
	})
	if err != nil {
		t.Fatalf("CreatePlacement failed: %v", err)
	}
	if decision.ChosenNodeID != "a" {
		t.Errorf("Expected chosen node 'a', got %q", decision.ChosenNodeID)
	}

	req, stored, err := s.GetPlacement(context.Background(), decision.PlacementRequestID)
	if err != nil {
		t.Fatalf("GetPlacement failed: %v", err)
	}
	if req.ClientID != "client-1" {
		t.Errorf("Expected persisted client 'client-1', got %q", req.ClientID)
	}
	if stored.ID != decision.ID {
		t.Errorf("Expected persisted decision %q, got %q", decision.ID, stored.ID)
	}
}

func TestCreatePlacement_InsufficientCapacity(t *testing.T) {
	s := store.NewMemoryStore()
	node := newTestNode("a")
	node.AvailableVRAMGB = 80
	seedNodes(t, s, node)

	svc := NewPlacementService(s)
	vram := 100.0
	_, err := svc.CreatePlacement(context.Background(), PlacementParams{
		ClientID:       "client-1",
		RequiredVRAMGB: &vram,
	})
	if !errors.Is(err, ErrInsufficientCapacity) {
		t.Errorf("Expected ErrInsufficientCapacity, got %v", err)
	}
}

func TestCreatePlacement_VRAMFromProfile(t *testing.T) {
	s := store.NewMemoryStore()
	seedNodes(t, s, newTestNode("a"))

	profiles := NewProfileService(s)
	if _, err := profiles.Create(context.Background(), "llama-70b", 48, 8, "llm"); err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}

	svc := NewPlacementService(s)
	decision, err := svc.CreatePlacement(context.Background(), PlacementParams{
		ClientID:  "client-1",
		ModelName: "llama-70b",
	})
	if err != nil {
		t.Fatalf("CreatePlacement failed: %v", err)
	}

	req, _, err := s.GetPlacement(context.Background(), decision.PlacementRequestID)
	if err != nil {
		t.Fatalf("GetPlacement failed: %v", err)
	}
	if req.RequiredVRAMGB == nil || *req.RequiredVRAMGB != 48 {
		t.Errorf("Expected VRAM 48 derived from profile, got %v", req.RequiredVRAMGB)
	}
}

func TestCreatePlacement_UnknownModelWithoutVRAMRejected(t *testing.T) {
	s := store.NewMemoryStore()
	seedNodes(t, s, newTestNode("a"))

	svc := NewPlacementService(s)
	_, err := svc.CreatePlacement(context.Background(), PlacementParams{
		ClientID:  "client-1",
		ModelName: "no-such-model",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestCreatePlacement_NonPositiveVRAMRejected(t *testing.T) {
	svc := NewPlacementService(store.NewMemoryStore())
	vram := 0.0
	_, err := svc.CreatePlacement(context.Background(), PlacementParams{
		ClientID:       "client-1",
		RequiredVRAMGB: &vram,
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestQuote_DoesNotPersist(t *testing.T) {
	s := store.NewMemoryStore()
	seedNodes(t, s, newTestNode("a"))

	svc := NewPlacementService(s)
	vram := 40.0
	quote, err := svc.Quote(context.Background(), PlacementParams{
		ClientID:       "client-1",
		RequiredVRAMGB: &vram,
	})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if quote.NodeID != "a" {
		t.Errorf("Expected quoted node 'a', got %q", quote.NodeID)
	}
	if quote.FitScore <= 0 {
		t.Errorf("Expected positive fit score, got %f", quote.FitScore)
	}
}
