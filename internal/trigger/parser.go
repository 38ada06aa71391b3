// Package trigger classifies inbound chat messages into respond/ignore
// decisions. The pattern sets are fixed: direct mentions always fire,
// conversation cues and high-energy moments fire probabilistically so the
// bot behaves like an occasional group member rather than an autoresponder.
package trigger

import (
	"regexp"
	"time"

	"github.com/scout-cfb/scout/internal/personality"
	"github.com/scout-cfb/scout/pkg/message"
)

// Kind names the trigger tier that matched a message.
type Kind string

// Trigger kinds, in priority order.
const (
	KindDirectMention   Kind = "direct_mention"
	KindConversationCue Kind = "conversation_cue"
	KindHighEnergy      Kind = "high_energy"
	KindNone            Kind = "none"
)

// Result is the outcome of analyzing one message. Created fresh per
// message, never persisted.
type Result struct {
	// ShouldRespond is the final respond/ignore decision.
	ShouldRespond bool
	// Kind is the trigger tier that matched, KindNone if nothing did.
	Kind Kind
	// IsDirectMention is true when the bot was addressed explicitly.
	IsDirectMention bool
	// SuggestedArchetype is the persona hinted at by the content,
	// empty when no hint matched.
	SuggestedArchetype personality.Archetype
	// ContextualPrompt is the text to hand the completion capability.
	// For ambient (non-mention) responses it carries a time-of-day prefix.
	ContextualPrompt string
	// Confidence is the parser's confidence in the decision, in [0,1].
	Confidence float64
	// ReactionEmoji, when non-empty, suggests an emoji reaction even if
	// ShouldRespond is false.
	ReactionEmoji string
}

// Rand is the source of uniform draws for the probabilistic tiers.
// math/rand/v2's *rand.Rand satisfies it; tests inject fixed sequences.
type Rand interface {
	Float64() float64
}

// Config holds the tunable parts of the parser.
type Config struct {
	// CueProbability is the chance of responding to a conversation cue.
	CueProbability float64
	// ReactionProbability is the chance of responding (not just reacting)
	// to a high-energy moment.
	ReactionProbability float64
}

// withDefaults returns a copy of the config with zero values replaced.
func (c Config) withDefaults() Config {
	if c.CueProbability <= 0 {
		c.CueProbability = 0.4
	}
	if c.ReactionProbability <= 0 {
		c.ReactionProbability = 0.2
	}
	return c
}

// Parser analyzes messages against the fixed trigger pattern sets.
// Analyze has no side effects beyond consuming random draws, so a single
// Parser is safe to share when the injected Rand is.
type Parser struct {
	config Config
	rand   Rand
	now    func() time.Time
}

// NewParser creates a Parser with the given config and random source.
func NewParser(cfg Config, rnd Rand) *Parser {
	return &Parser{
		config: cfg.withDefaults(),
		rand:   rnd,
		now:    time.Now,
	}
}

// Analyze classifies a message. Tiers are checked in priority order and
// only the first tier whose pattern matches is evaluated: a conversation
// cue that loses its probability draw does not fall through to the
// high-energy tier.
func (p *Parser) Analyze(msg message.InboundMessage) Result {
	result := Result{
		Kind:             KindNone,
		ContextualPrompt: msg.Content,
	}

	// Whitespace-only content never matches any trigger.
	if msg.IsEmpty() {
		return result
	}

	content := msg.Content

	switch {
	case p.matchesDirect(msg):
		result.ShouldRespond = true
		result.Kind = KindDirectMention
		result.IsDirectMention = true
		result.Confidence = 0.95

	case matchAny(cuePatterns, content):
		result.ShouldRespond = p.rand.Float64() < p.config.CueProbability
		result.Kind = KindConversationCue
		result.Confidence = 0.6

	default:
		for _, rp := range reactionPatterns {
			if rp.pattern.MatchString(content) {
				result.ReactionEmoji = rp.emoji
				result.ShouldRespond = p.rand.Float64() < p.config.ReactionProbability
				result.Kind = KindHighEnergy
				result.Confidence = 0.3
				break
			}
		}
	}

	result.SuggestedArchetype = detectArchetypeHint(content)

	if result.ShouldRespond && !result.IsDirectMention {
		result.ContextualPrompt = p.timeOfDayPrefix() + msg.Content
	}

	return result
}

// matchesDirect reports whether the message addresses the bot explicitly,
// either by name pattern or by a platform-level @-mention.
func (p *Parser) matchesDirect(msg message.InboundMessage) bool {
	if msg.MentionsBot() {
		return true
	}
	return matchAny(directPatterns, msg.Content)
}

// matchAny reports whether any pattern in the list matches content.
func matchAny(patterns []*regexp.Regexp, content string) bool {
	for _, pat := range patterns {
		if pat.MatchString(content) {
			return true
		}
	}
	return false
}

// detectArchetypeHint scans content for persona clues; first match wins.
func detectArchetypeHint(content string) personality.Archetype {
	for _, hint := range archetypeHints {
		for _, pat := range hint.patterns {
			if pat.MatchString(content) {
				return hint.archetype
			}
		}
	}
	return ""
}

// timeOfDayPrefix labels ambient responses with a coarse time-of-day
// bucket, purely cosmetic conditioning for the completion capability.
func (p *Parser) timeOfDayPrefix() string {
	hour := p.now().Hour()
	switch {
	case hour >= 6 && hour < 12:
		return "Morning conversation: "
	case hour >= 12 && hour < 17:
		return "Afternoon chat: "
	case hour >= 17 && hour < 22:
		return "Evening discussion: "
	default:
		return "Late night conversation: "
	}
}

// Stats reports the size of each pattern set, mirrored by the gateway
// status endpoint.
type Stats struct {
	DirectPatterns   int `json:"direct_patterns"`
	ConversationCues int `json:"conversation_cues"`
	ReactionPatterns int `json:"reaction_patterns"`
	ArchetypeHints   int `json:"archetype_hints"`
}

// Stats returns the current pattern set sizes.
func (p *Parser) Stats() Stats {
	return Stats{
		DirectPatterns:   len(directPatterns),
		ConversationCues: len(cuePatterns),
		ReactionPatterns: len(reactionPatterns),
		ArchetypeHints:   len(archetypeHints),
	}
}
