// Package monitor owns the response orchestration pipeline: it is the
// only component with externally observable side effects (typing
// indicators, replies, emoji reactions). It gates every triggered
// message through cooldown, hourly-cap, and error-recovery checks,
// drives the completion call under timeouts, and falls back to canned
// replies when the provider misbehaves.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/scout-cfb/scout/internal/groupctx"
	"github.com/scout-cfb/scout/internal/metrics"
	"github.com/scout-cfb/scout/internal/personality"
	"github.com/scout-cfb/scout/internal/provider"
	"github.com/scout-cfb/scout/internal/trigger"
	"github.com/scout-cfb/scout/pkg/message"
)

// Rand is the source of uniform draws for fallback selection.
type Rand interface {
	Float64() float64
}

// Sender delivers outbound actions. channel.Dispatcher implements it.
type Sender interface {
	Send(ctx context.Context, msg message.OutboundMessage) error
}

// Config holds the monitor's timeouts and failure-recovery settings.
type Config struct {
	// SelfID is the bot's own account id; its messages are ignored.
	SelfID string
	// TypingTimeout bounds the typing-indicator send.
	TypingTimeout time.Duration
	// AITimeout bounds the completion call.
	AITimeout time.Duration
	// ReplyTimeout bounds reply and reaction delivery.
	ReplyTimeout time.Duration
	// ErrorThreshold is the consecutive-failure count that triggers
	// recovery mode.
	ErrorThreshold int
	// RecoveryDuration is how long recovery mode suppresses responses.
	RecoveryDuration time.Duration
	// MentionBypassSuppression lets direct mentions through while
	// recovery mode is suppressing ambient responses.
	MentionBypassSuppression bool
	// MaxTokens and Temperature shape the completion request.
	MaxTokens   int
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.TypingTimeout <= 0 {
		c.TypingTimeout = 5 * time.Second
	}
	if c.AITimeout <= 0 {
		c.AITimeout = 15 * time.Second
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = 10 * time.Second
	}
	if c.ErrorThreshold <= 0 {
		c.ErrorThreshold = 3
	}
	if c.RecoveryDuration <= 0 {
		c.RecoveryDuration = 5 * time.Minute
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 150
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.8
	}
	return c
}

// Deps are the monitor's collaborators.
type Deps struct {
	Provider provider.Provider
	Sender   Sender
	Tracker  *groupctx.Tracker
	Prefs    personality.Store
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Rand     Rand
}

// rateState is the shared mutable state every handler interleaves on.
// One mutex guards all of it; handlers hold it only for short
// read-then-write sequences, never across network calls.
type rateState struct {
	cooldownUntil     time.Time
	responseCount     int
	consecutiveErrors int
	suppressedUntil   time.Time
	lastResponseAt    time.Time
}

// Monitor orchestrates responses for triggered messages. Safe for
// concurrent use; multiple messages may be in flight at once.
type Monitor struct {
	config   Config
	policy   Policy
	provider provider.Provider
	sender   Sender
	tracker  *groupctx.Tracker
	prefs    personality.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	rand     Rand
	now      func() time.Time

	mu    sync.Mutex
	state rateState
}

// New creates a Monitor with the given policy and collaborators.
func New(cfg Config, policy Policy, deps Deps) *Monitor {
	return &Monitor{
		config:   cfg.withDefaults(),
		policy:   policy,
		provider: deps.Provider,
		sender:   deps.Sender,
		tracker:  deps.Tracker,
		prefs:    deps.Prefs,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With("component", "monitor"),
		rand:     deps.Rand,
		now:      time.Now,
	}
}

// Handle processes one analyzed message. A message produces at most one
// reply; dropped messages produce no output and no state change beyond
// the drop counter.
func (m *Monitor) Handle(ctx context.Context, msg message.InboundMessage, trig trigger.Result) {
	if msg.Sender.IsBot || (m.config.SelfID != "" && msg.Sender.ID == m.config.SelfID) {
		m.metrics.DroppedTotal.WithLabelValues(metrics.DropBotAuthor).Inc()
		return
	}

	if trig.Kind != trigger.KindNone {
		m.metrics.TriggersTotal.WithLabelValues(string(trig.Kind)).Inc()
	}

	if !trig.ShouldRespond {
		// A high-energy match still gets its emoji even when the
		// probability draw said not to speak.
		if trig.ReactionEmoji != "" {
			m.react(ctx, msg, trig.ReactionEmoji)
		}
		return
	}

	if reason := m.precheck(trig.IsDirectMention); reason != "" {
		m.metrics.DroppedTotal.WithLabelValues(reason).Inc()
		m.logger.Debug("response suppressed",
			"reason", reason,
			"channel", msg.Chat.ID,
			"trigger", string(trig.Kind))
		return
	}

	m.respond(ctx, msg, trig)
}

// precheck runs the ordered rate checks and returns a drop reason, or
// "" when the message may proceed. It also clears recovery mode once
// the recovery window has elapsed.
func (m *Monitor) precheck(directMention bool) string {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	rateLimited := m.policy.RateLimited(directMention)
	if rateLimited && now.Before(m.state.cooldownUntil) {
		return metrics.DropCooldown
	}
	if rateLimited && m.state.responseCount >= m.policy.HourlyCap() {
		return metrics.DropHourlyCap
	}
	if m.state.consecutiveErrors >= m.config.ErrorThreshold {
		if !now.Before(m.state.suppressedUntil) {
			m.state.consecutiveErrors = 0
			m.logger.Info("error recovery window elapsed, resuming")
		} else if !directMention || !m.config.MentionBypassSuppression {
			return metrics.DropErrorRecovery
		}
	}
	return ""
}

// respond drives the full reply pipeline for an approved message.
func (m *Monitor) respond(ctx context.Context, msg message.InboundMessage, trig trigger.Result) {
	gctx := m.tracker.RecordAndClassify(msg)

	archetype := trig.SuggestedArchetype
	if !archetype.Valid() {
		archetype = m.prefs.Archetype(msg.Sender.ID)
	}
	banter := m.prefs.BanterLevel(msg.Sender.ID)
	systemPrompt := personality.BuildPrompt(personality.Config{
		Archetype:   archetype,
		ChatContext: gctx.ChatContext(),
		BanterLevel: banter,
	})

	// Typing failure takes the same failure path as a completion
	// failure; both mean the channel is struggling.
	if _, outcome, err := withTimeout(ctx, m.config.TypingTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.sender.Send(ctx, message.NewTyping(msg))
	}); outcome != OutcomeOK {
		m.recoverWithFallback(ctx, msg, trig, "typing", outcome, err)
		return
	}

	started := m.now()
	resp, outcome, err := withTimeout(ctx, m.config.AITimeout, func(ctx context.Context) (provider.CompletionResponse, error) {
		return m.provider.Complete(ctx, provider.NewChatRequest(
			systemPrompt, trig.ContextualPrompt, m.config.MaxTokens, m.config.Temperature))
	})
	if outcome != OutcomeOK {
		m.recoverWithFallback(ctx, msg, trig, "completion", outcome, err)
		return
	}
	m.metrics.CompletionSeconds.Observe(m.now().Sub(started).Seconds())

	text := personality.FilterResponse(resp.Content, banter)
	text = personality.AlignWithOpinions(text, msg.Content)

	if _, outcome, err := withTimeout(ctx, m.config.ReplyTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.sender.Send(ctx, message.NewReply(msg, text))
	}); outcome != OutcomeOK {
		m.recoverWithFallback(ctx, msg, trig, "reply", outcome, err)
		return
	}

	m.mu.Lock()
	m.state.consecutiveErrors = 0
	m.state.lastResponseAt = m.now()
	if m.policy.CountsTowardCap(trig.IsDirectMention) {
		m.state.responseCount++
	}
	m.state.cooldownUntil = m.now().Add(m.policy.Cooldown())
	count := m.state.responseCount
	m.mu.Unlock()

	m.metrics.ResponsesTotal.WithLabelValues(metrics.PathAI).Inc()
	m.logger.Info("reply sent",
		"channel", msg.Chat.ID,
		"trigger", string(trig.Kind),
		"context", string(gctx.Type),
		"archetype", string(archetype),
		"count_this_hour", count)
}

// recoverWithFallback records one failure and, while below the error
// threshold, attempts a single canned reply. Crossing the threshold
// opens the recovery window instead; the fallback's own failures are
// logged but never counted.
func (m *Monitor) recoverWithFallback(ctx context.Context, msg message.InboundMessage, trig trigger.Result, stage string, outcome Outcome, cause error) {
	m.mu.Lock()
	m.state.consecutiveErrors++
	errs := m.state.consecutiveErrors
	suppress := errs >= m.config.ErrorThreshold
	if suppress {
		m.state.suppressedUntil = m.now().Add(m.config.RecoveryDuration)
	}
	m.mu.Unlock()

	m.logger.Error("response failed",
		"stage", stage,
		"outcome", outcome.String(),
		"consecutive_errors", errs,
		"error", cause)

	if suppress {
		m.logger.Warn("entering error recovery mode",
			"duration", m.config.RecoveryDuration,
			"threshold", m.config.ErrorThreshold)
		return
	}

	text := m.pickFallback()
	if _, out, err := withTimeout(ctx, m.config.ReplyTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.sender.Send(ctx, message.NewReply(msg, text))
	}); out != OutcomeOK {
		m.logger.Error("fallback delivery failed", "outcome", out.String(), "error", err)
		return
	}

	m.mu.Lock()
	m.state.lastResponseAt = m.now()
	if m.policy.CountsTowardCap(trig.IsDirectMention) {
		m.state.responseCount++
	}
	m.state.cooldownUntil = m.now().Add(m.policy.Cooldown())
	m.mu.Unlock()

	m.metrics.ResponsesTotal.WithLabelValues(metrics.PathFallback).Inc()
	m.logger.Warn("fallback reply sent", "channel", msg.Chat.ID)
}

// react sends the suggested emoji reaction. Reaction failures are
// log-only and never feed the error counter.
func (m *Monitor) react(ctx context.Context, msg message.InboundMessage, emoji string) {
	if _, outcome, err := withTimeout(ctx, m.config.ReplyTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.sender.Send(ctx, message.NewReaction(msg, emoji))
	}); outcome != OutcomeOK {
		m.logger.Debug("reaction failed", "outcome", outcome.String(), "error", err)
		return
	}
	m.metrics.ReactionsTotal.Inc()
}

// ResetHourly zeroes the response counter. Wired to a repeating hourly
// job; the reset is unconditional regardless of in-flight handlers,
// which allows bursts at the boundary. Accepted trade-off inherited
// from the fixed-interval design.
func (m *Monitor) ResetHourly() {
	m.mu.Lock()
	m.state.responseCount = 0
	m.mu.Unlock()
	m.logger.Info("hourly response counter reset")
}

// Stats is a point-in-time snapshot for the status surface.
type Stats struct {
	Policy            string        `json:"policy"`
	LastResponseAt    time.Time     `json:"last_response_at"`
	ResponsesThisHour int           `json:"responses_this_hour"`
	HourlyCap         int           `json:"hourly_cap"`
	CooldownRemaining time.Duration `json:"cooldown_remaining"`
	ConsecutiveErrors int           `json:"consecutive_errors"`
	ErrorRecoveryMode bool          `json:"error_recovery_mode"`
}

// Stats returns the monitor's current rate state.
func (m *Monitor) Stats() Stats {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.state.cooldownUntil.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return Stats{
		Policy:            m.policy.Name(),
		LastResponseAt:    m.state.lastResponseAt,
		ResponsesThisHour: m.state.responseCount,
		HourlyCap:         m.policy.HourlyCap(),
		CooldownRemaining: remaining,
		ConsecutiveErrors: m.state.consecutiveErrors,
		ErrorRecoveryMode: m.state.consecutiveErrors >= m.config.ErrorThreshold && now.Before(m.state.suppressedUntil),
	}
}
