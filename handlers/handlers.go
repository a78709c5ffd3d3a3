// ABOUTME: HTTP handler wiring for the capacity broker API
// ABOUTME: Holds the injected services plus shared JSON and error helpers

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/djmistretta15/Nnemo/cache"
	"github.com/djmistretta15/Nnemo/config"
	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/services"
	"github.com/djmistretta15/Nnemo/store"
)

// maxRequestBodySize bounds JSON request bodies (1 MB).
const maxRequestBodySize = 1 << 20

type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	store     store.Store
	nodes     *services.NodeService
	matcher   *services.Matcher
	placement *services.PlacementService
	contracts *services.ContractService
	telemetry *services.TelemetryService
	profiles  *services.ProfileService
	clusters  *services.ClusterService
}

// NewHandler wires all services over one store.
func NewHandler(cfg *config.Config, c *cache.Cache, s store.Store) *Handler {
	ledger := services.NewCapacityLedger(s)
	return &Handler{
		cfg:       cfg,
		cache:     c,
		store:     s,
		nodes:     services.NewNodeService(s),
		matcher:   services.NewMatcher(s),
		placement: services.NewPlacementService(s),
		contracts: services.NewContractService(s, ledger),
		telemetry: services.NewTelemetryService(s),
		profiles:  services.NewProfileService(s),
		clusters:  services.NewClusterService(s),
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps the service error taxonomy to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrInsufficientCapacity):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidState):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrValidation):
		h.writeError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("Internal error", "error", err)
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON decodes a bounded JSON request body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err.Error() == "http: request body too large" {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}
