// ABOUTME: VRAM-aware placement selecting the single best node for a model
// ABOUTME: Fit score: VRAM headroom * 0.5 + bandwidth * 0.3 - latency * 0.2, clamped to 0-100

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

// PlacementService answers "which one node should run this model".
type PlacementService struct {
	store store.Store
}

// NewPlacementService creates a placement service backed by the given store.
func NewPlacementService(s store.Store) *PlacementService {
	return &PlacementService{store: s}
}

// PlacementParams describes a placement request before persistence.
type PlacementParams struct {
	ClientID        string
	OrganizationID  string
	ModelName       string
	RequiredVRAMGB  *float64
	PreferredRegion string
	Priority        models.PlacementPriority
}

// FitScore scores one node for a VRAM requirement and explains the result.
func (s *PlacementService) FitScore(node *models.Node, requiredVRAMGB float64) (float64, string) {
	headroom := float64(node.AvailableVRAMGB) - requiredVRAMGB

	total := headroom*0.5 + node.BandwidthGbps()*0.3 - node.BaseLatencyMs*0.2

	// Clamp to the 0-100 range
	score := total
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	reason := fmt.Sprintf(
		"Node %q selected with %.1fGB VRAM headroom. Memory bandwidth: %.1f GB/s, Network latency: %.1fms. Total fit score: %.1f/100",
		node.Name, headroom, node.BandwidthGbps(), node.BaseLatencyMs, score,
	)
	return score, reason
}

// FindBestNode returns the highest-scoring active node with enough free
// VRAM, or nil when no candidate qualifies. A nil node is absence of
// eligible capacity, not an error.
func (s *PlacementService) FindBestNode(ctx context.Context, requiredVRAMGB float64, preferredRegion, organizationID string) (*models.Node, float64, string, error) {
	nodes, err := s.store.ListNodes(ctx)
	if err != nil {
		return nil, 0, "", fmt.Errorf("listing nodes: %w", err)
	}

	var (
		bestNode   *models.Node
		bestScore  float64
		bestReason string
	)
	for _, node := range nodes {
		if node.Status != models.NodeStatusActive {
			continue
		}
		if float64(node.AvailableVRAMGB) < requiredVRAMGB {
			continue
		}
		if preferredRegion != "" && node.Region != preferredRegion {
			continue
		}
		if organizationID != "" && node.OrganizationID != organizationID {
			continue
		}

		score, reason := s.FitScore(node, requiredVRAMGB)

		// Strictly-greater keeps the lowest node ID on ties; ListNodes
		// returns nodes in ascending ID order.
		if bestNode == nil || score > bestScore {
			bestNode = node
			bestScore = score
			bestReason = reason
		}
	}

	if bestNode == nil {
		return nil, 0, "", nil
	}
	return bestNode, bestScore, bestReason, nil
}

// CreatePlacement resolves the VRAM requirement, picks the best node, and
// persists the request/decision pair.
func (s *PlacementService) CreatePlacement(ctx context.Context, params PlacementParams) (*models.PlacementDecision, error) {
	requiredVRAM, err := s.resolveVRAM(ctx, params)
	if err != nil {
		return nil, err
	}

	bestNode, score, reason, err := s.FindBestNode(ctx, requiredVRAM, params.PreferredRegion, params.OrganizationID)
	if err != nil {
		return nil, err
	}
	if bestNode == nil {
		msg := fmt.Sprintf("no suitable node found for %gGB VRAM requirement", requiredVRAM)
		if params.PreferredRegion != "" {
			msg += fmt.Sprintf(" in region %q", params.PreferredRegion)
		}
		return nil, fmt.Errorf("%w: %s", ErrInsufficientCapacity, msg)
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PlacementPriorityNormal
	}

	now := time.Now().UTC()
	request := &models.PlacementRequest{
		ID:              uuid.NewString(),
		ClientID:        params.ClientID,
		OrganizationID:  params.OrganizationID,
		ModelName:       params.ModelName,
		RequiredVRAMGB:  &requiredVRAM,
		PreferredRegion: params.PreferredRegion,
		Priority:        priority,
		CreatedAt:       now,
	}
	decision := &models.PlacementDecision{
		ID:                 uuid.NewString(),
		PlacementRequestID: request.ID,
		ChosenNodeID:       bestNode.ID,
		Reason:             reason,
		EstimatedFitScore:  score,
		CreatedAt:          now,
	}

	if err := s.store.CreatePlacement(ctx, request, decision); err != nil {
		return nil, fmt.Errorf("persisting placement: %w", err)
	}
	return decision, nil
}

// Quote scores a placement without persisting anything.
func (s *PlacementService) Quote(ctx context.Context, params PlacementParams) (*models.PlacementQuote, error) {
	requiredVRAM, err := s.resolveVRAM(ctx, params)
	if err != nil {
		return nil, err
	}

	bestNode, score, reason, err := s.FindBestNode(ctx, requiredVRAM, params.PreferredRegion, params.OrganizationID)
	if err != nil {
		return nil, err
	}
	if bestNode == nil {
		return nil, fmt.Errorf("%w: no suitable node found for %gGB VRAM requirement", ErrInsufficientCapacity, requiredVRAM)
	}

	return &models.PlacementQuote{
		NodeID:   bestNode.ID,
		NodeName: bestNode.Name,
		Region:   bestNode.Region,
		FitScore: score,
		Reason:   reason,
	}, nil
}

// resolveVRAM returns the explicit requirement or falls back to the model's
// profile. Absence of both is a client error, rejected before any node query.
func (s *PlacementService) resolveVRAM(ctx context.Context, params PlacementParams) (float64, error) {
	if params.RequiredVRAMGB != nil {
		if *params.RequiredVRAMGB <= 0 {
			return 0, fmt.Errorf("%w: required_vram_gb must be positive", ErrValidation)
		}
		return *params.RequiredVRAMGB, nil
	}

	profile, err := s.store.GetProfileByName(ctx, params.ModelName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, fmt.Errorf("%w: model profile %q not found and required_vram_gb not specified", ErrValidation, params.ModelName)
		}
		return 0, fmt.Errorf("looking up model profile: %w", err)
	}
	return profile.SuggestedMinVRAMGB, nil
}
