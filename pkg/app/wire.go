package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/scout-cfb/scout/internal/channel"
	"github.com/scout-cfb/scout/internal/config"
	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/internal/cron"
	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/metrics"
	"github.com/scout-cfb/scout/internal/monitor"
	"github.com/scout-cfb/scout/internal/personality"
	"github.com/scout-cfb/scout/internal/provider"
	"github.com/scout-cfb/scout/internal/trigger"
	"github.com/scout-cfb/scout/pkg/message"
)

// pipelineSettings is the YAML shape of the top-level monitor section.
// Durations are strings ("15s", "5m") parsed by time.ParseDuration;
// zero values fall back to the component defaults.
type pipelineSettings struct {
	Policy                   string  `yaml:"policy"`
	SelfID                   string  `yaml:"self_id"`
	CueProbability           float64 `yaml:"cue_probability"`
	ReactionProbability      float64 `yaml:"reaction_probability"`
	MaxTokens                int     `yaml:"max_tokens"`
	Temperature              float64 `yaml:"temperature"`
	ErrorThreshold           int     `yaml:"error_threshold"`
	RecoveryDuration         string  `yaml:"recovery_duration"`
	MentionBypassSuppression bool    `yaml:"mention_bypass_suppression"`
	TypingTimeout            string  `yaml:"typing_timeout"`
	AITimeout                string  `yaml:"ai_timeout"`
	ReplyTimeout             string  `yaml:"reply_timeout"`
	SweepSchedule            string  `yaml:"sweep_schedule"`
	ResetSchedule            string  `yaml:"reset_schedule"`
}

// monitorConfig translates the YAML settings into the monitor's config,
// parsing the duration strings.
func (s pipelineSettings) monitorConfig() (monitor.Config, error) {
	cfg := monitor.Config{
		SelfID:                   s.SelfID,
		ErrorThreshold:           s.ErrorThreshold,
		MentionBypassSuppression: s.MentionBypassSuppression,
		MaxTokens:                s.MaxTokens,
		Temperature:              s.Temperature,
	}

	for _, d := range []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"typing_timeout", s.TypingTimeout, &cfg.TypingTimeout},
		{"ai_timeout", s.AITimeout, &cfg.AITimeout},
		{"reply_timeout", s.ReplyTimeout, &cfg.ReplyTimeout},
		{"recovery_duration", s.RecoveryDuration, &cfg.RecoveryDuration},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return monitor.Config{}, fmt.Errorf("wiring: invalid monitor.%s %q: %w", d.field, d.raw, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}

// systemRand draws from the shared math/rand/v2 source, which is safe
// for concurrent use. The parser and the monitor's fallback picker may
// draw from multiple handler goroutines at once.
type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }

// pipeline glues the channels to the trigger parser and the monitor and
// owns the cron scheduler. It participates in the app lifecycle so the
// scheduler starts after the channels and handlers are cancelled on
// shutdown.
type pipeline struct {
	monitor   *monitor.Monitor
	parser    *trigger.Parser
	scheduler *cron.Scheduler

	ctx    context.Context
	cancel context.CancelFunc
}

func (p *pipeline) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{ID: "pipeline"}
}

func (p *pipeline) Start() error {
	return p.scheduler.Start()
}

func (p *pipeline) Stop(ctx context.Context) error {
	p.cancel()
	return p.scheduler.Stop(ctx)
}

// handle is the inbox for every channel: analyze, then hand the result
// to the monitor. Runs on the channel's delivery goroutine.
func (p *pipeline) handle(msg message.InboundMessage) error {
	p.monitor.Handle(p.ctx, msg, p.parser.Analyze(msg))
	return nil
}

// wirePipeline builds the response pipeline from the loaded modules.
// Must be called after LoadModules and before Start.
func wirePipeline(
	app *core.App,
	appCtx *core.AppContext,
	cfg *config.Config,
	ids []string,
	logger *slog.Logger,
) error {
	var settings pipelineSettings
	if !cfg.Monitor.IsZero() {
		if err := cfg.Monitor.Decode(&settings); err != nil {
			return fmt.Errorf("wiring: decoding monitor section: %w", err)
		}
	}
	monCfg, err := settings.monitorConfig()
	if err != nil {
		return err
	}

	// Discover channels among the loaded modules.
	dispatcher := channel.NewDispatcher()
	var channels []channel.Channel
	for _, id := range ids {
		mod, ok := app.Module(id)
		if !ok {
			continue
		}
		ch, ok := mod.(channel.Channel)
		if !ok {
			continue
		}
		// Register under the full module ID (e.g. "channel.discord")
		// because that is what the channel sets as msg.Channel.
		if err := dispatcher.Register(id, ch); err != nil {
			return fmt.Errorf("wiring: registering channel %s: %w", id, err)
		}
		channels = append(channels, ch)
		logger.Info("wiring: registered channel", "channel", id)
	}

	if len(channels) == 0 {
		logger.Warn("wiring: no channel modules loaded, response pipeline disabled")
		return nil
	}

	svc, ok := appCtx.GetService("provider")
	if !ok {
		return fmt.Errorf("wiring: a provider module is required when channels are configured")
	}
	prov, ok := svc.(provider.Provider)
	if !ok {
		return fmt.Errorf("wiring: registered provider service has unexpected type %T", svc)
	}

	// The sqlite module registers a persistent store; without it user
	// preferences live in memory for the lifetime of the process.
	var prefs personality.Store = personality.NewMemoryStore()
	if svc, ok := appCtx.GetService("prefs.store"); ok {
		if s, ok := svc.(personality.Store); ok {
			prefs = s
		}
	} else {
		logger.Info("wiring: no preference store loaded, using in-memory defaults")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	met := metrics.New(registry)

	parser := trigger.NewParser(trigger.Config{
		CueProbability:      settings.CueProbability,
		ReactionProbability: settings.ReactionProbability,
	}, systemRand{})
	tracker := groupctx.NewTracker(groupctx.Config{})

	policy := monitor.PolicyByName(settings.Policy)
	mon := monitor.New(monCfg, policy, monitor.Deps{
		Provider: prov,
		Sender:   dispatcher,
		Tracker:  tracker,
		Prefs:    prefs,
		Metrics:  met,
		Logger:   logger,
		Rand:     systemRand{},
	})

	// Publish the pipeline pieces so other modules (the gateway's status
	// surface, the discord /monitoring command) can observe them.
	appCtx.RegisterService("monitor", mon)
	appCtx.RegisterService("trigger.parser", parser)
	appCtx.RegisterService("groupctx.tracker", tracker)
	appCtx.RegisterService("metrics.registry", registry)

	scheduler := cron.NewScheduler(logger)
	if err := scheduler.RegisterJob(&cron.ActivitySweepJob{
		Tracker:      tracker,
		Metrics:      met,
		Logger:       logger,
		ScheduleExpr: settings.SweepSchedule,
	}); err != nil {
		return fmt.Errorf("wiring: %w", err)
	}
	if err := scheduler.RegisterJob(&cron.HourlyResetJob{
		Counter:      mon,
		Logger:       logger,
		ScheduleExpr: settings.ResetSchedule,
	}); err != nil {
		return fmt.Errorf("wiring: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &pipeline{
		monitor:   mon,
		parser:    parser,
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, ch := range channels {
		ch.SetInbox(p.handle)
	}
	app.AppendModule("pipeline", p)

	logger.Info("wiring: pipeline ready",
		"channels", len(channels),
		"policy", policy.Name(),
		"model", prov.ModelName())
	return nil
}
