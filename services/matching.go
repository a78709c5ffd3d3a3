// ABOUTME: Matching engine ranking candidate nodes against a resource request
// ABOUTME: Composite score: proximity, price, reliability, capacity headroom, type bonus

package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/store"
)

const (
	// maxMatches caps the ranked list returned to callers.
	maxMatches = 10

	// defaultDurationSec prices a match when the request omits duration.
	defaultDurationSec = 3600

	// defaultMaxDistanceKm bounds the distance filter when unset.
	defaultMaxDistanceKm = 10000
)

// Matcher ranks eligible nodes for resource requests. Matching is read-only;
// capacity is only committed at contract creation, so a result can go stale
// between matching and creation.
type Matcher struct {
	store store.Store
}

// NewMatcher creates a matcher backed by the given store.
func NewMatcher(s store.Store) *Matcher {
	return &Matcher{store: s}
}

// Match returns up to maxMatches nodes ranked by descending score, ties
// broken by ascending node ID. An empty list is a valid outcome, not an
// error; the caller decides whether that is a client-facing failure.
func (m *Matcher) Match(ctx context.Context, req *models.ResourceRequest) ([]models.MatchResult, error) {
	if req.RAMGB < 0 || req.VRAMGB < 0 || req.RAMGB+req.VRAMGB == 0 {
		return nil, fmt.Errorf("%w: request must ask for a positive amount of RAM or VRAM", ErrValidation)
	}
	if !req.MaxPricePerGBSec.IsPositive() {
		return nil, fmt.Errorf("%w: max_price_per_gb_sec must be positive", ErrValidation)
	}

	maxDistance := req.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistanceKm
	}

	nodes, err := m.store.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	// Hard eligibility and distance filters before any scoring
	type candidate struct {
		node     *models.Node
		distance *float64
	}
	candidates := make([]candidate, 0, len(nodes))
	for _, node := range nodes {
		if !m.eligible(req, node) {
			continue
		}
		var distance *float64
		if req.Latitude != nil && req.Longitude != nil && node.HasCoordinates() {
			d := Distance(*req.Latitude, *req.Longitude, *node.Latitude, *node.Longitude)
			if d > maxDistance {
				continue
			}
			distance = &d
		}
		candidates = append(candidates, candidate{node: node, distance: distance})
	}

	// Scoring is pure per candidate and may run fully in parallel
	results := make([]models.MatchResult, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			results[i] = m.scoreNode(req, c.node, c.distance)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].NodeID < results[j].NodeID
	})

	if len(results) > maxMatches {
		results = results[:maxMatches]
	}
	return results, nil
}

// eligible applies the hard filters a node must pass before scoring.
func (m *Matcher) eligible(req *models.ResourceRequest, node *models.Node) bool {
	if node.Status != models.NodeStatusActive {
		return false
	}
	if node.AvailableRAMGB < req.RAMGB || node.AvailableVRAMGB < req.VRAMGB {
		return false
	}
	if node.PricePerGBSec.GreaterThan(req.MaxPricePerGBSec) {
		return false
	}
	if node.UptimeScore < req.MinUptimeScore {
		return false
	}
	return true
}

// scoreNode computes the composite score and breakdown for one candidate.
// The eligibility filter guarantees node price <= max price, so the price
// term cannot go negative here.
func (m *Matcher) scoreNode(req *models.ResourceRequest, node *models.Node, distance *float64) models.MatchResult {
	var breakdown models.ScoreBreakdown

	// Proximity: 100 at 0km decreasing to 0 at 1000km, tripled when the
	// client prefers local capacity. Missing coordinates contribute 0.
	if distance != nil {
		proximity := math.Max(0, 100-*distance/10)
		if req.PreferLocal {
			proximity *= 3
		}
		breakdown.Proximity = round2(proximity)
	}

	// Price: cheaper relative to the client's ceiling scores higher
	priceRatio := node.PricePerGBSec.Div(req.MaxPricePerGBSec).InexactFloat64()
	breakdown.Price = round2((1 - priceRatio) * 50)

	// Reliability
	breakdown.Reliability = round2(node.UptimeScore * 0.5)

	// Capacity headroom: overcapacity means better failover, capped at 30
	totalNeeded := req.RAMGB + req.VRAMGB
	totalAvailable := node.AvailableRAMGB + node.AvailableVRAMGB
	capacityRatio := float64(totalAvailable) / float64(totalNeeded)
	breakdown.Capacity = round2(math.Min(30, capacityRatio*10))

	// Community preference bonus for mist nodes
	if node.NodeType == models.NodeTypeMistNode {
		breakdown.NodeTypeBonus = 20
	}

	score := breakdown.Proximity + breakdown.Price + breakdown.Reliability +
		breakdown.Capacity + breakdown.NodeTypeBonus

	durationSec := req.DurationSec
	if durationSec <= 0 {
		durationSec = defaultDurationSec
	}
	estimatedCost := decimal.NewFromInt(int64(totalNeeded)).
		Mul(decimal.NewFromInt(int64(durationSec))).
		Mul(node.PricePerGBSec)

	result := models.MatchResult{
		NodeID:             node.ID,
		NodeName:           node.Name,
		NodeType:           node.NodeType,
		Region:             node.Region,
		MatchScore:         round2(score),
		EstimatedCost:      estimatedCost.Round(4),
		EstimatedLatencyMs: node.BaseLatencyMs,
		ScoreBreakdown:     breakdown,
	}
	if distance != nil {
		d := round2(*distance)
		result.DistanceKm = &d
	}
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
