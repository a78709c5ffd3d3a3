// ABOUTME: Contract endpoints: create, list, get, extend, settle
// ABOUTME: Lifecycle conflicts surface as 409; capacity rejections as 400

package handlers

import (
	"net/http"
	"strconv"

	"github.com/djmistretta15/Nnemo/models"
)

// CreateContract allocates capacity on a node and opens an active contract.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var params models.ContractCreate
	if !h.decodeJSON(w, r, &params) {
		return
	}

	contract, err := h.contracts.Create(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, contract)
}

// ListContracts returns contracts matching the query filters, newest first.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.ContractFilter{
		ClientID: q.Get("client_id"),
		NodeID:   q.Get("node_id"),
		Status:   models.ContractStatus(q.Get("status")),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	contracts, err := h.contracts.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, contracts)
}

// GetContract returns one contract by ID.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, contract)
}

// ExtendContract adds duration to an active contract at the frozen price.
func (h *Handler) ExtendContract(w http.ResponseWriter, r *http.Request) {
	var params models.ContractExtend
	if !h.decodeJSON(w, r, &params) {
		return
	}

	contract, err := h.contracts.Extend(r.Context(), r.PathValue("id"), params.AdditionalDurationSec)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, contract)
}

// SettleContract completes an active contract and releases its capacity.
func (h *Handler) SettleContract(w http.ResponseWriter, r *http.Request) {
	var params models.ContractSettle
	if !h.decodeJSON(w, r, &params) {
		return
	}

	contract, err := h.contracts.Settle(r.Context(), r.PathValue("id"), params.ActualEgressGB)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, contract)
}
