// ABOUTME: CRUD endpoints for model profiles
// ABOUTME: Profiles back the placement path's VRAM derivation

package handlers

import (
	"net/http"

	"github.com/djmistretta15/Nnemo/models"
)

// CreateProfile adds a new model profile.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name               string  `json:"name"`
		SuggestedMinVRAMGB float64 `json:"suggested_min_vram_gb"`
		SuggestedBatchSize int     `json:"suggested_batch_size,omitempty"`
		Category           string  `json:"category,omitempty"`
	}
	if !h.decodeJSON(w, r, &body) {
		return
	}

	profile, err := h.profiles.Create(r.Context(), body.Name, body.SuggestedMinVRAMGB, body.SuggestedBatchSize, body.Category)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, profile)
}

// ListProfiles returns all model profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profiles)
}

// GetProfile returns one model profile by ID.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial update to a model profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ModelProfileUpdate
	if !h.decodeJSON(w, r, &update) {
		return
	}

	profile, err := h.profiles.Update(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// DeleteProfile removes a model profile.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
