package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/monitor"
	"github.com/scout-cfb/scout/internal/trigger"
)

type stubMonitor struct {
	stats monitor.Stats
}

func (s *stubMonitor) Stats() monitor.Stats { return s.stats }

type stubParser struct {
	stats trigger.Stats
}

func (s *stubParser) Stats() trigger.Stats { return s.stats }

type stubTracker struct {
	stats groupctx.Stats
}

func (s *stubTracker) Stats() groupctx.Stats { return s.stats }

type stubHealth struct {
	err error
}

func (s *stubHealth) HealthCheck(context.Context) error { return s.err }

func newTestGateway(tb testing.TB) *Gateway {
	tb.Helper()

	g := &Gateway{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		startedAt: time.Now().Add(-90 * time.Second),
	}
	g.config.defaults()
	return g
}

func TestHealth_OK(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	g.health = &stubHealth{}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want %q", resp.Status, "ok")
	}
}

func TestHealth_NoCheckerIsOK(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHealth_Degraded(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	g.health = &stubHealth{err: errors.New("provider unreachable")}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("Status = %q, want %q", resp.Status, "degraded")
	}
	if resp.Provider != "provider unreachable" {
		t.Errorf("Provider = %q, want the checker error", resp.Provider)
	}
}

func TestStatus_AllServices(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	g.monitor = &stubMonitor{stats: monitor.Stats{
		Policy:            "uniform",
		ResponsesThisHour: 7,
		HourlyCap:         50,
	}}
	g.parser = &stubParser{stats: trigger.Stats{DirectPatterns: 4}}
	g.tracker = &stubTracker{stats: groupctx.Stats{TrackedChannels: 2, TrackedUsers: 9}}
	g.modelName = "gpt-4o-mini"

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", resp.Model, "gpt-4o-mini")
	}
	if resp.Uptime == "" {
		t.Error("Uptime is empty")
	}
	if resp.Monitor == nil || resp.Monitor.ResponsesThisHour != 7 {
		t.Errorf("Monitor = %+v, want ResponsesThisHour 7", resp.Monitor)
	}
	if resp.Parser == nil || resp.Parser.DirectPatterns != 4 {
		t.Errorf("Parser = %+v, want DirectPatterns 4", resp.Parser)
	}
	if resp.Tracker == nil || resp.Tracker.TrackedUsers != 9 {
		t.Errorf("Tracker = %+v, want TrackedUsers 9", resp.Tracker)
	}
}

func TestStatus_MissingServicesOmitted(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Monitor != nil || resp.Parser != nil || resp.Tracker != nil {
		t.Errorf("expected nil sections, got %+v", resp)
	}
}

func TestStatus_AuthRequiredWhenConfigured(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	g.config.Auth = AuthConfig{BearerToken: "secret"}
	router := g.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestStatus_HealthStaysPublicWithAuth(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	g.config.Auth = AuthConfig{BearerToken: "secret"}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestMetrics_ServedWhenRegistryPresent(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)
	reg := prometheus.NewRegistry()
	g.registry = reg

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestMetrics_NotFoundWithoutRegistry(t *testing.T) {
	t.Parallel()

	g := newTestGateway(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.defaults()

	if cfg.Bind != "127.0.0.1:8080" {
		t.Errorf("Bind = %q, want loopback default", cfg.Bind)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", cfg.ReadTimeout)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
}

func TestGateway_ValidateBindAddress(t *testing.T) {
	t.Parallel()

	g := &Gateway{}
	g.config.defaults()
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() with default bind = %v, want nil", err)
	}

	g.config.Bind = "not a bind address"
	if err := g.Validate(); err == nil {
		t.Error("Validate() with bad bind = nil, want error")
	}
}
