package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eugenenazirov/container-packer/internal/application"
)

func TestBuildRootHandler(t *testing.T) {
	apiInvoked := false
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Fatalf("unexpected path passed to API handler: %s", r.URL.Path)
		}
		apiInvoked = true
		w.WriteHeader(http.StatusNoContent)
	})

	handler, err := application.BuildRootHandler(apiHandler)
	if err != nil {
		t.Fatalf("BuildRootHandler returned error: %v", err)
	}

	t.Run("serves index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") == "" {
			t.Fatalf("expected Content-Type header for index page")
		}
	})

	t.Run("returns not found for unknown paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("serves static assets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("forwards api traffic", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if !apiInvoked {
			t.Fatalf("expected API handler to be invoked")
		}
	})
}

func TestBuildOverrides(t *testing.T) {
	t.Run("unset flags", func(t *testing.T) {
		got := buildOverrides("", "", "", "", -1, -1, -1, -1)
		if got.Port != nil || got.LogLevel != nil || got.ContainerStr != nil || got.GridStep != nil ||
			got.MaxUnits != nil || got.RateLimitRPS != nil || got.RateLimitBurst != nil {
			t.Fatalf("expected no overrides, got %+v", got)
		}
	})

	t.Run("set flags", func(t *testing.T) {
		got := buildOverrides("cfg.yaml", "9000", "debug", "3x2x1", 0.1, 0, 5, 10)
		if got.ConfigFile != "cfg.yaml" {
			t.Fatalf("expected config file, got %q", got.ConfigFile)
		}
		if got.Port == nil || *got.Port != "9000" {
			t.Fatalf("expected port override")
		}
		if got.LogLevel == nil || *got.LogLevel != "debug" {
			t.Fatalf("expected log level override")
		}
		if got.ContainerStr == nil || *got.ContainerStr != "3x2x1" {
			t.Fatalf("expected container override")
		}
		if got.GridStep == nil || *got.GridStep != 0.1 {
			t.Fatalf("expected grid step override")
		}
		if got.MaxUnits == nil || *got.MaxUnits != 0 {
			t.Fatalf("expected max units override of 0")
		}
		if got.RateLimitRPS == nil || *got.RateLimitRPS != 5 || got.RateLimitBurst == nil || *got.RateLimitBurst != 10 {
			t.Fatalf("expected rate limit overrides")
		}
	})
}
