// ABOUTME: Tests for the health command
// ABOUTME: Exercises runHealth against a stub backend

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withStubBackend(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := apiURL
	apiURL = srv.URL
	t.Cleanup(func() { apiURL = prev })
}

func TestRunHealth_OK(t *testing.T) {
	withStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok", "storage": "memory", "node_count": 2, "active_node_count": 2,
		})
	})

	var out bytes.Buffer
	code := runHealth(context.Background(), &out)
	if code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Status:       ok") {
		t.Errorf("Expected status line in output, got %q", out.String())
	}
}

func TestRunHealth_DegradedExitsNonZero(t *testing.T) {
	withStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "degraded", "storage": "etcd",
		})
	})

	var out bytes.Buffer
	code := runHealth(context.Background(), &out)
	if code != 1 {
		t.Errorf("Expected exit code 1 for degraded backend, got %d", code)
	}
}

func TestRunHealth_ConnectionFailure(t *testing.T) {
	prev := apiURL
	apiURL = "http://127.0.0.1:1"
	t.Cleanup(func() { apiURL = prev })

	var out bytes.Buffer
	code := runHealth(context.Background(), &out)
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "Error:") {
		t.Errorf("Expected error output, got %q", out.String())
	}
}

func TestRunHealth_JSONOutput(t *testing.T) {
	withStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok", "storage": "memory",
		})
	})

	prevJSON := jsonOutput
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = prevJSON })

	var out bytes.Buffer
	if code := runHealth(context.Background(), &out); code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON output: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Errorf("Expected status ok in JSON output, got %v", decoded["status"])
	}
}
