// ABOUTME: Placement request/decision models for deterministic workload placement
// ABOUTME: Each request binds to at most one decision with a fit score and reason

package models

import "time"

// PlacementPriority orders placement requests for callers that queue them.
type PlacementPriority string

const (
	PlacementPriorityLow    PlacementPriority = "low"
	PlacementPriorityNormal PlacementPriority = "normal"
	PlacementPriorityHigh   PlacementPriority = "high"
)

// PlacementRequest asks for VRAM for a named model. RequiredVRAMGB may be
// nil, in which case it is derived from the model's profile.
type PlacementRequest struct {
	ID              string            `json:"id"`
	ClientID        string            `json:"client_id"`
	OrganizationID  string            `json:"organization_id,omitempty"`
	ModelName       string            `json:"model_name"`
	RequiredVRAMGB  *float64          `json:"required_vram_gb,omitempty"`
	PreferredRegion string            `json:"preferred_region,omitempty"`
	Priority        PlacementPriority `json:"priority"`
	CreatedAt       time.Time         `json:"created_at"`
}

// PlacementDecision binds a request to exactly one node.
type PlacementDecision struct {
	ID                 string    `json:"id"`
	PlacementRequestID string    `json:"placement_request_id"`
	ChosenNodeID       string    `json:"chosen_node_id"`
	Reason             string    `json:"reason"`
	EstimatedFitScore  float64   `json:"estimated_fit_score"`
	CreatedAt          time.Time `json:"created_at"`
}

// PlacementQuote is a non-persisted placement answer.
type PlacementQuote struct {
	NodeID   string  `json:"node_id"`
	NodeName string  `json:"node_name"`
	Region   string  `json:"region"`
	FitScore float64 `json:"fit_score"`
	Reason   string  `json:"reason"`
}
