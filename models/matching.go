// ABOUTME: Resource request and match result structures for the matching engine
// ABOUTME: A MatchResult is transient; it is only persisted if turned into a contract

package models

import "github.com/shopspring/decimal"

// ResourceRequest describes the capacity a client wants to rent.
// Immutable once submitted to the matcher.
type ResourceRequest struct {
	RAMGB            int             `json:"ram_gb"`
	VRAMGB           int             `json:"vram_gb"`
	DurationSec      int             `json:"duration_sec"`
	MaxPricePerGBSec decimal.Decimal `json:"max_price_per_gb_sec"`

	// Locality
	PreferLocal   bool     `json:"prefer_local"`
	MaxDistanceKm float64  `json:"max_distance_km"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`

	MinUptimeScore float64 `json:"min_uptime_score"`
}

// ScoreBreakdown exposes the individual scoring terms for transparency.
type ScoreBreakdown struct {
	Proximity     float64 `json:"proximity"`
	Price         float64 `json:"price"`
	Reliability   float64 `json:"reliability"`
	Capacity      float64 `json:"capacity"`
	NodeTypeBonus float64 `json:"node_type_bonus"`
}

// MatchResult ranks one candidate node against a request.
type MatchResult struct {
	NodeID             string          `json:"node_id"`
	NodeName           string          `json:"node_name"`
	NodeType           NodeType        `json:"node_type"`
	Region             string          `json:"region"`
	MatchScore         float64         `json:"match_score"`
	DistanceKm         *float64        `json:"distance_km,omitempty"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	EstimatedLatencyMs float64         `json:"estimated_latency_ms"`
	ScoreBreakdown     ScoreBreakdown  `json:"score_breakdown"`
}

// MatchResponse is the caller-facing ranked list.
type MatchResponse struct {
	Matches []MatchResult `json:"matches"`
	Total   int           `json:"total"`
}
