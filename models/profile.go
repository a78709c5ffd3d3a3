// ABOUTME: Model profile for deriving VRAM requirements from a model name
// ABOUTME: Used by the placement path when a request carries no explicit VRAM

package models

import "time"

// ModelProfile suggests resource requirements for a named model.
type ModelProfile struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	SuggestedMinVRAMGB float64   `json:"suggested_min_vram_gb"`
	SuggestedBatchSize int       `json:"suggested_batch_size,omitempty"`
	Category           string    `json:"category,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ModelProfileUpdate carries partial updates; nil fields are left unchanged.
type ModelProfileUpdate struct {
	SuggestedMinVRAMGB *float64 `json:"suggested_min_vram_gb,omitempty"`
	SuggestedBatchSize *int     `json:"suggested_batch_size,omitempty"`
	Category           *string  `json:"category,omitempty"`
}
