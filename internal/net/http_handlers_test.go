package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/net/ws"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/sim"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

type acceptAll struct{}

func (acceptAll) Enqueue(sim.Command) (bool, string) { return true, "" }

func TestHealth(t *testing.T) {
	handler := NewHTTPHandler(HTTPHandlerConfig{})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestDiagnostics(t *testing.T) {
	counters := telemetry.NewCounters()
	counters.Add(telemetry.KeyClicks, 3)
	handler := NewHTTPHandler(HTTPHandlerConfig{
		Sockets:     ws.NewHandler(acceptAll{}, ws.HandlerConfig{}),
		Counters:    counters,
		RouterStats: func() logging.RouterStats { return logging.RouterStats{EventsTotal: 12, DroppedTotal: 1} },
		Locations:   func() []string { return []string{"Farm"} },
		TickRate:    60,
		Now:         func() time.Time { return time.UnixMilli(777) },
	})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 OK, got %d", resp.Code)
	}
	if contentType := resp.Header().Get("Content-Type"); contentType != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", contentType)
	}
	var payload diagnosticsPayload
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if payload.Status != "ok" || payload.ServerTime != 777 || payload.TickRate != 60 {
		t.Fatalf("unexpected diagnostics %+v", payload)
	}
	if payload.Telemetry[telemetry.KeyClicks] != 3 {
		t.Fatalf("expected 3 clicks, got %v", payload.Telemetry)
	}
	if payload.Logging.EventsTotal != 12 || payload.Logging.DroppedTotal != 1 {
		t.Fatalf("unexpected logging stats %+v", payload.Logging)
	}
	if len(payload.Locations) != 1 || payload.Locations[0] != "Farm" || len(payload.Sessions) != 0 {
		t.Fatalf("unexpected locations/sessions %+v", payload)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/diagnostics", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", resp.Code)
	}
}

func TestWebsocketRouteRequiresUpgrade(t *testing.T) {
	handler := NewHTTPHandler(HTTPHandlerConfig{Sockets: ws.NewHandler(acceptAll{}, ws.HandlerConfig{})})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected a plain GET on /ws to be refused, got %d", resp.Code)
	}
}
