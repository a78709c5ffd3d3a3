// ABOUTME: Health check endpoint reporting storage mode and node counts
// ABOUTME: Used by the CLI and deployment probes

package handlers

import (
	"net/http"

	"github.com/djmistretta15/Nnemo/models"
)

// Health reports service status and basic registry counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"storage": "memory",
	}
	if h.cfg != nil && h.cfg.EtcdConfigured() {
		resp["storage"] = "etcd"
	}

	nodes, err := h.store.ListNodes(r.Context())
	if err != nil {
		resp["status"] = "degraded"
		resp["storage_error"] = err.Error()
	} else {
		active := 0
		for _, node := range nodes {
			if node.Status == models.NodeStatusActive {
				active++
			}
		}
		resp["node_count"] = len(nodes)
		resp["active_node_count"] = active
	}

	h.writeJSON(w, http.StatusOK, resp)
}
