// ABOUTME: Placement endpoints: persisted decisions and non-persisted quotes
// ABOUTME: VRAM may be explicit or derived from a model profile

package handlers

import (
	"net/http"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/services"
)

type placementBody struct {
	ClientID        string                   `json:"client_id"`
	OrganizationID  string                   `json:"organization_id,omitempty"`
	ModelName       string                   `json:"model_name"`
	RequiredVRAMGB  *float64                 `json:"required_vram_gb,omitempty"`
	PreferredRegion string                   `json:"preferred_region,omitempty"`
	Priority        models.PlacementPriority `json:"priority,omitempty"`
}

func (b placementBody) params() services.PlacementParams {
	return services.PlacementParams{
		ClientID:        b.ClientID,
		OrganizationID:  b.OrganizationID,
		ModelName:       b.ModelName,
		RequiredVRAMGB:  b.RequiredVRAMGB,
		PreferredRegion: b.PreferredRegion,
		Priority:        b.Priority,
	}
}

// CreatePlacement binds a placement request to the single best node and
// persists the request/decision pair.
func (h *Handler) CreatePlacement(w http.ResponseWriter, r *http.Request) {
	var body placementBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	if body.ModelName == "" && body.RequiredVRAMGB == nil {
		h.writeError(w, "model_name or required_vram_gb is required", http.StatusUnprocessableEntity)
		return
	}

	decision, err := h.placement.CreatePlacement(r.Context(), body.params())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, decision)
}

// QuotePlacement scores a placement without persisting anything.
func (h *Handler) QuotePlacement(w http.ResponseWriter, r *http.Request) {
	var body placementBody
	if !h.decodeJSON(w, r, &body) {
		return
	}
	if body.ModelName == "" && body.RequiredVRAMGB == nil {
		h.writeError(w, "model_name or required_vram_gb is required", http.StatusUnprocessableEntity)
		return
	}

	quote, err := h.placement.Quote(r.Context(), body.params())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}
