// ABOUTME: Entry point for the Mnemo capacity broker service
// ABOUTME: Provides HTTP API for node matching, placements, and contracts

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/djmistretta15/Nnemo/cache"
	"github.com/djmistretta15/Nnemo/config"
	"github.com/djmistretta15/Nnemo/handlers"
	"github.com/djmistretta15/Nnemo/logger"
	"github.com/djmistretta15/Nnemo/middleware"
	"github.com/djmistretta15/Nnemo/store"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Mnemo Capacity Broker")

	// Select storage backend
	var st store.Store
	if cfg.EtcdConfigured() {
		etcdStore, err := store.NewEtcdStore(cfg.EtcdEndpoints, cfg.EtcdDialTimeout)
		if err != nil {
			slog.Error("Failed to connect to etcd", "endpoints", cfg.EtcdEndpoints, "error", err)
			os.Exit(1)
		}
		defer etcdStore.Close()
		st = etcdStore
		slog.Info("etcd storage configured", "endpoints", cfg.EtcdEndpoints)
	} else {
		st = store.NewMemoryStore()
		slog.Warn("ETCD_ENDPOINTS not set, using in-memory storage (data is lost on restart)")
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.ClusterCacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, st)

	// Register routes with middleware. Each path also gets one OPTIONS
	// registration so CORS preflight reaches the middleware.
	mux := http.NewServeMux()
	preflight := make(map[string]bool)
	for _, route := range h.Routes() {
		handler := middleware.CORS(middleware.LogRequest(middleware.Recover(route.Handler)))
		mux.HandleFunc(route.Method+" "+route.Path, handler)
		if !preflight[route.Path] {
			preflight[route.Path] = true
			mux.HandleFunc(http.MethodOptions+" "+route.Path, middleware.CORS(func(w http.ResponseWriter, r *http.Request) {}))
		}
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
