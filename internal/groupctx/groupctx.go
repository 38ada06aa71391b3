// Package groupctx tracks per-channel and per-user activity and
// classifies the conversational setting of each inbound message (group
// vs 1-on-1, energy level, conversation flow). The tracker owns its
// activity store; nothing here is package-global, so independent bot
// instances and tests stay isolated.
package groupctx

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/scout-cfb/scout/internal/personality"
	"github.com/scout-cfb/scout/pkg/message"
)

// ContextType classifies how many people are actively talking.
type ContextType string

// Context types, by distinct active users in the trailing window.
const (
	TypeGroup    ContextType = "group"
	TypeOneOnOne ContextType = "1on1"
	TypeQuiet    ContextType = "quiet"
)

// Energy grades how lively the channel is right now.
type Energy string

// Energy levels.
const (
	EnergyHigh   Energy = "high"
	EnergyMedium Energy = "medium"
	EnergyLow    Energy = "low"
)

// Flow trend values over the last few messages.
const (
	TrendHeatingUp   = "heating_up"
	TrendCoolingDown = "cooling_down"
	TrendSteady      = "steady"
	TrendNeutral     = "neutral"
)

// Flow topic values.
const (
	TopicFootball = "football"
	TopicGeneral  = "general"
)

// Flow summarizes the recent conversation trajectory in a channel.
type Flow struct {
	Trend            string        `json:"trend"`
	Topic            string        `json:"topic"`
	AvgInterval      time.Duration `json:"avg_interval"`
	FootballMentions int           `json:"football_mentions"`
}

// Context is the classification produced for one message.
type Context struct {
	Type        ContextType `json:"type"`
	Energy      Energy      `json:"energy"`
	RecentUsers int         `json:"recent_users"`
	MessageRate int         `json:"message_rate"`
	// QuietPeriod is true when the channel had been silent for longer
	// than the quiet threshold before this message arrived.
	QuietPeriod bool      `json:"quiet_period"`
	Flow        Flow      `json:"flow"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChatContext maps the classification onto the personality configuration
// space. Anything that is not clearly a group conversation is treated as
// one-on-one.
func (c Context) ChatContext() personality.ChatContext {
	if c.Type == TypeGroup {
		return personality.ContextGroup
	}
	return personality.ContextOneOnOne
}

// Config holds the tracker's window sizes and thresholds.
type Config struct {
	ActiveUserWindow time.Duration // distinct-user window for type classification
	RateWindow       time.Duration // window for messages-per-minute rate
	QuietThreshold   time.Duration // silence longer than this marks a quiet period
	MessageRetention time.Duration // how long channel messages are kept
	UserRetention    time.Duration // how long idle users are kept
	GroupMinUsers    int           // active users needed to call it a group
	HighEnergyRate   int           // messages/rate-window for high energy
	MediumEnergyRate int           // messages/rate-window for medium energy
}

func (c Config) withDefaults() Config {
	if c.ActiveUserWindow <= 0 {
		c.ActiveUserWindow = 5 * time.Minute
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.QuietThreshold <= 0 {
		c.QuietThreshold = 10 * time.Minute
	}
	if c.MessageRetention <= 0 {
		c.MessageRetention = time.Hour
	}
	if c.UserRetention <= 0 {
		c.UserRetention = 24 * time.Hour
	}
	if c.GroupMinUsers <= 0 {
		c.GroupMinUsers = 3
	}
	if c.HighEnergyRate <= 0 {
		c.HighEnergyRate = 5
	}
	if c.MediumEnergyRate <= 0 {
		c.MediumEnergyRate = 2
	}
	return c
}

type recordedMessage struct {
	at      time.Time
	userID  string
	content string
}

type channelActivity struct {
	messages      []recordedMessage
	lastMessage   time.Time
	totalMessages int
}

type userActivity struct {
	lastSeen     time.Time
	messageCount int
	channels     map[string]struct{}
}

// Tracker records activity and classifies messages. Safe for concurrent
// use; RecordAndClassify and Sweep may interleave freely.
type Tracker struct {
	config Config
	now    func() time.Time

	mu       sync.Mutex
	channels map[string]*channelActivity
	users    map[string]*userActivity
}

// NewTracker creates a Tracker with the given thresholds, zero values
// replaced by the defaults.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		config:   cfg.withDefaults(),
		now:      time.Now,
		channels: make(map[string]*channelActivity),
		users:    make(map[string]*userActivity),
	}
}

// High-energy content markers, checked against the raw message text.
var highEnergyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`!{2,}`),
	regexp.MustCompile(`[A-Z]{3,}`),
	regexp.MustCompile(`🔥|💪|🚀|⚡`),
	regexp.MustCompile(`(?i)(wow|omg|holy|damn|insane|crazy)`),
}

// Topic keywords counted for the flow analysis.
var footballKeywords = []string{"game", "team", "player", "score", "win", "lose", "championship"}

// RecordAndClassify appends the message to the channel's activity record
// exactly once, prunes expired entries, and classifies the resulting
// conversational setting. The quiet-period flag reflects the silence
// before this message, not after.
func (t *Tracker) RecordAndClassify(msg message.InboundMessage) Context {
	now := t.now()
	channelID := msg.Chat.ID

	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.channels[channelID]
	if !ok {
		ch = &channelActivity{}
		t.channels[channelID] = ch
	}

	// Silence is measured against the previous message.
	quiet := ch.lastMessage.IsZero() || now.Sub(ch.lastMessage) > t.config.QuietThreshold

	ch.messages = append(ch.messages, recordedMessage{at: now, userID: msg.Sender.ID, content: msg.Content})
	ch.lastMessage = now
	ch.totalMessages++
	ch.prune(now.Add(-t.config.MessageRetention))

	u, ok := t.users[msg.Sender.ID]
	if !ok {
		u = &userActivity{channels: make(map[string]struct{})}
		t.users[msg.Sender.ID] = u
	}
	u.lastSeen = now
	u.messageCount++
	u.channels[channelID] = struct{}{}

	recentUsers := ch.distinctUsersSince(now.Add(-t.config.ActiveUserWindow))
	messageRate := ch.countSince(now.Add(-t.config.RateWindow))

	ctx := Context{
		Type:        t.contextType(recentUsers),
		Energy:      t.energy(messageRate, msg.Content),
		RecentUsers: recentUsers,
		MessageRate: messageRate,
		QuietPeriod: quiet,
		Flow:        ch.flow(),
		Timestamp:   now,
	}
	return ctx
}

func (t *Tracker) contextType(recentUsers int) ContextType {
	switch {
	case recentUsers >= t.config.GroupMinUsers:
		return TypeGroup
	case recentUsers == 2:
		return TypeOneOnOne
	default:
		return TypeQuiet
	}
}

func (t *Tracker) energy(messageRate int, content string) Energy {
	for _, pat := range highEnergyPatterns {
		if pat.MatchString(content) {
			return EnergyHigh
		}
	}
	switch {
	case messageRate >= t.config.HighEnergyRate:
		return EnergyHigh
	case messageRate >= t.config.MediumEnergyRate:
		return EnergyMedium
	default:
		return EnergyLow
	}
}

// prune drops messages recorded at or before the cutoff. Caller holds
// the tracker lock.
func (a *channelActivity) prune(cutoff time.Time) {
	keep := a.messages[:0]
	for _, m := range a.messages {
		if m.at.After(cutoff) {
			keep = append(keep, m)
		}
	}
	a.messages = keep
}

func (a *channelActivity) distinctUsersSince(cutoff time.Time) int {
	seen := make(map[string]struct{})
	for _, m := range a.messages {
		if m.at.After(cutoff) {
			seen[m.userID] = struct{}{}
		}
	}
	return len(seen)
}

func (a *channelActivity) countSince(cutoff time.Time) int {
	n := 0
	for _, m := range a.messages {
		if m.at.After(cutoff) {
			n++
		}
	}
	return n
}

// flow analyzes the last five recorded messages for topic consistency
// and pacing.
func (a *channelActivity) flow() Flow {
	if len(a.messages) < 2 {
		return Flow{Trend: TrendNeutral, Topic: TopicGeneral}
	}

	recent := a.messages
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	mentions := 0
	for _, m := range recent {
		lower := strings.ToLower(m.content)
		for _, kw := range footballKeywords {
			if strings.Contains(lower, kw) {
				mentions++
				break
			}
		}
	}
	topic := TopicGeneral
	if mentions >= 2 {
		topic = TopicFootball
	}

	var total time.Duration
	for i := 1; i < len(recent); i++ {
		total += recent[i].at.Sub(recent[i-1].at)
	}
	avg := total / time.Duration(len(recent)-1)

	trend := TrendSteady
	switch {
	case avg < 30*time.Second:
		trend = TrendHeatingUp
	case avg > 2*time.Minute:
		trend = TrendCoolingDown
	}

	return Flow{Trend: trend, Topic: topic, AvgInterval: avg, FootballMentions: mentions}
}

// Sweep prunes expired messages, evicts channels that have been silent
// past the message retention window, and forgets users idle past the
// user retention window. Idempotent; safe to run concurrently with
// message recording.
func (t *Tracker) Sweep() {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	msgCutoff := now.Add(-t.config.MessageRetention)
	for id, ch := range t.channels {
		ch.prune(msgCutoff)
		if len(ch.messages) == 0 && now.Sub(ch.lastMessage) > t.config.MessageRetention {
			delete(t.channels, id)
		}
	}

	userCutoff := now.Add(-t.config.UserRetention)
	for id, u := range t.users {
		if u.lastSeen.Before(userCutoff) {
			delete(t.users, id)
		}
	}
}

// Stats is a point-in-time snapshot of what the tracker holds, exposed
// on the status endpoint.
type Stats struct {
	TrackedChannels int `json:"tracked_channels"`
	TrackedUsers    int `json:"tracked_users"`
	TotalMessages   int `json:"total_messages"`
}

// Stats returns current tracking totals. TotalMessages counts every
// message ever recorded, not just retained ones.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, ch := range t.channels {
		total += ch.totalMessages
	}
	return Stats{
		TrackedChannels: len(t.channels),
		TrackedUsers:    len(t.users),
		TotalMessages:   total,
	}
}
