// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration. Method matching and path
// parameters rely on the Go 1.22+ router patterns.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Nodes
		{Method: http.MethodPost, Path: "/api/v1/nodes", Handler: h.RegisterNode},
		{Method: http.MethodGet, Path: "/api/v1/nodes/{id}", Handler: h.GetNode},
		{Method: http.MethodPatch, Path: "/api/v1/nodes/{id}/status", Handler: h.SetNodeStatus},
		{Method: http.MethodPost, Path: "/api/v1/nodes/{id}/heartbeat", Handler: h.Heartbeat},
		{Method: http.MethodGet, Path: "/api/v1/nodes/{id}/telemetry", Handler: h.TelemetryHistory},

		// Marketplace
		{Method: http.MethodGet, Path: "/api/v1/marketplace", Handler: h.BrowseMarketplace},
		{Method: http.MethodGet, Path: "/api/v1/marketplace/supply", Handler: h.MarketSupply},
		{Method: http.MethodPost, Path: "/api/v1/marketplace/match", Handler: h.MatchNodes},

		// Contracts
		{Method: http.MethodPost, Path: "/api/v1/contracts", Handler: h.CreateContract},
		{Method: http.MethodGet, Path: "/api/v1/contracts", Handler: h.ListContracts},
		{Method: http.MethodGet, Path: "/api/v1/contracts/{id}", Handler: h.GetContract},
		{Method: http.MethodPost, Path: "/api/v1/contracts/{id}/extend", Handler: h.ExtendContract},
		{Method: http.MethodPost, Path: "/api/v1/contracts/{id}/settle", Handler: h.SettleContract},

		// Placement
		{Method: http.MethodPost, Path: "/api/v1/placements", Handler: h.CreatePlacement},
		{Method: http.MethodPost, Path: "/api/v1/placements/quote", Handler: h.QuotePlacement},

		// Model profiles
		{Method: http.MethodPost, Path: "/api/v1/model-profiles", Handler: h.CreateProfile},
		{Method: http.MethodGet, Path: "/api/v1/model-profiles", Handler: h.ListProfiles},
		{Method: http.MethodGet, Path: "/api/v1/model-profiles/{id}", Handler: h.GetProfile},
		{Method: http.MethodPatch, Path: "/api/v1/model-profiles/{id}", Handler: h.UpdateProfile},
		{Method: http.MethodDelete, Path: "/api/v1/model-profiles/{id}", Handler: h.DeleteProfile},

		// Clusters
		{Method: http.MethodGet, Path: "/api/v1/clusters", Handler: h.ListClusters},
	}
}
