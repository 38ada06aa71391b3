// Package gateway provides the HTTP server for health checks, pipeline
// status, and Prometheus metrics. It binds to loopback by default and
// follows the module system pattern.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/monitor"
	"github.com/scout-cfb/scout/internal/provider"
	"github.com/scout-cfb/scout/internal/trigger"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Gateway{})
}

// MonitorStats is the slice of the monitor the status surface reads.
type MonitorStats interface {
	Stats() monitor.Stats
}

// ParserStats is the slice of the trigger parser the status surface reads.
type ParserStats interface {
	Stats() trigger.Stats
}

// TrackerStats is the slice of the context tracker the status surface reads.
type TrackerStats interface {
	Stats() groupctx.Stats
}

// Gateway is the HTTP gateway module. It exposes health, status, and
// metrics endpoints. It is a leaf module — nothing imports it.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time

	// Resolved lazily at Start() via the service registry.
	monitor   MonitorStats
	parser    ParserStats
	tracker   TrackerStats
	health    provider.HealthChecker
	modelName string
	registry  prometheus.Gatherer
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "gateway.http",
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.appCtx = ctx
	g.logger = ctx.Logger.With("component", "gateway")
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	return nil
}

// Start implements core.Starter. It resolves dependencies from the
// service registry (lazy binding) and starts the HTTP server.
func (g *Gateway) Start() error {
	// All services are optional — the gateway degrades to health-only.
	if svc, ok := g.appCtx.GetService("monitor"); ok {
		if m, ok := svc.(MonitorStats); ok {
			g.monitor = m
		}
	}
	if svc, ok := g.appCtx.GetService("trigger.parser"); ok {
		if p, ok := svc.(ParserStats); ok {
			g.parser = p
		}
	}
	if svc, ok := g.appCtx.GetService("groupctx.tracker"); ok {
		if t, ok := svc.(TrackerStats); ok {
			g.tracker = t
		}
	}
	if svc, ok := g.appCtx.GetService("provider"); ok {
		if h, ok := svc.(provider.HealthChecker); ok {
			g.health = h
		}
		if p, ok := svc.(provider.Provider); ok {
			g.modelName = p.ModelName()
		}
	}
	if svc, ok := g.appCtx.GetService("metrics.registry"); ok {
		if r, ok := svc.(prometheus.Gatherer); ok {
			g.registry = r
		}
	}

	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}
