package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/angelmondragon/printcrm/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := serve(t, http.MethodGet, "/health/live", "/health/live", "", HealthLive(cfg))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-PrintCRM-Env") != "dev" {
		t.Fatalf("expected env header")
	}
}

func TestHealthReadySkipsDisabledRedis(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := serve(t, http.MethodGet, "/health/ready", "/health/ready", "", HealthReady(cfg, nil, stubPinger{}, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeData(t, resp, &payload)
	if payload.Checks["database"] != "ok" || payload.Checks["redis"] != "disabled" {
		t.Fatalf("unexpected checks %v", payload.Checks)
	}
}

func TestHealthReadyFailsOnDatabase(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := serve(t, http.MethodGet, "/health/ready", "/health/ready", "", HealthReady(cfg, nil, stubPinger{err: errors.New("down")}, nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
