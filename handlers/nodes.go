// ABOUTME: Node registry endpoints: registration, lookup, status, telemetry
// ABOUTME: Heartbeats land here from node agents and update capacity estimates

package handlers

import (
	"net/http"
	"strconv"

	"github.com/djmistretta15/Nnemo/models"
)

// RegisterNode adds a new capacity provider to the registry.
func (h *Handler) RegisterNode(w http.ResponseWriter, r *http.Request) {
	var reg models.NodeRegistration
	if !h.decodeJSON(w, r, &reg) {
		return
	}

	node, err := h.nodes.Register(r.Context(), reg)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, node)
}

// GetNode returns one node by ID.
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := h.nodes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, node)
}

// SetNodeStatus moves a node between active, maintenance, and offline.
func (h *Handler) SetNodeStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.NodeStatus `json:"status"`
	}
	if !h.decodeJSON(w, r, &body) {
		return
	}

	node, err := h.nodes.SetStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, node)
}

// Heartbeat ingests one telemetry report from a node agent.
func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	var metric models.NodeMetric
	if !h.decodeJSON(w, r, &metric) {
		return
	}

	recorded, err := h.telemetry.Record(r.Context(), r.PathValue("id"), &metric)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, recorded)
}

// TelemetryHistory returns recent metrics for a node, newest first.
func (h *Handler) TelemetryHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	metrics, err := h.telemetry.History(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, metrics)
}
