// ABOUTME: Marketplace endpoints: filtered browsing and request matching
// ABOUTME: Matching returns a ranked list; an empty list is a valid answer

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/djmistretta15/Nnemo/models"
	"github.com/djmistretta15/Nnemo/services"
)

// BrowseMarketplace lists active nodes matching the query filters.
func (h *Handler) BrowseMarketplace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := services.BrowseFilter{
		NodeType: models.NodeType(q.Get("node_type")),
		Region:   q.Get("region"),
	}
	filter.MinRAMGB, _ = strconv.Atoi(q.Get("min_ram_gb"))
	filter.MinVRAMGB, _ = strconv.Atoi(q.Get("min_vram_gb"))
	filter.MinUptimeScore, _ = strconv.ParseFloat(q.Get("min_uptime_score"), 64)
	if raw := q.Get("max_price_per_gb_sec"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			h.writeError(w, "Invalid max_price_per_gb_sec", http.StatusBadRequest)
			return
		}
		filter.MaxPricePerGBSec = price
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	cacheKey := fmt.Sprintf("marketplace:%s", q.Encode())
	if cached, found := h.cache.Get(cacheKey); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := h.nodes.Browse(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	ttl := 15 * time.Second
	if h.cfg != nil {
		ttl = time.Duration(h.cfg.MarketplaceCacheTTL) * time.Second
	}
	h.cache.SetWithTTL(cacheKey, result, ttl)
	h.writeJSON(w, http.StatusOK, result)
}

// MarketSupply reports aggregate active capacity and the current average
// price, globally or filtered to one region.
func (h *Handler) MarketSupply(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")

	cacheKey := "marketplace:supply:" + region
	if cached, found := h.cache.Get(cacheKey); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	supply, err := h.clusters.Supply(r.Context(), region)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	ttl := 15 * time.Second
	if h.cfg != nil {
		ttl = time.Duration(h.cfg.MarketplaceCacheTTL) * time.Second
	}
	h.cache.SetWithTTL(cacheKey, supply, ttl)
	h.writeJSON(w, http.StatusOK, supply)
}

// MatchNodes ranks candidate nodes against a resource request.
func (h *Handler) MatchNodes(w http.ResponseWriter, r *http.Request) {
	req := models.ResourceRequest{PreferLocal: true}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	matches, err := h.matcher.Match(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []models.MatchResult{}
	}
	h.writeJSON(w, http.StatusOK, models.MatchResponse{
		Matches: matches,
		Total:   len(matches),
	})
}
