// ABOUTME: Cluster endpoint returning per-region capacity rollups
// ABOUTME: Aggregation is cached; the TTL comes from configuration

package handlers

import (
	"net/http"
	"time"
)

const clusterCacheKey = "clusters:all"

// ListClusters returns per-region aggregates of active nodes.
func (h *Handler) ListClusters(w http.ResponseWriter, r *http.Request) {
	if cached, found := h.cache.Get(clusterCacheKey); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	clusters, err := h.clusters.Aggregate(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	ttl := 60 * time.Second
	if h.cfg != nil {
		ttl = time.Duration(h.cfg.ClusterCacheTTL) * time.Second
	}
	h.cache.SetWithTTL(clusterCacheKey, clusters, ttl)
	h.writeJSON(w, http.StatusOK, clusters)
}
