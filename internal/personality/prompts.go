package personality

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// coreIdentity opens every system prompt regardless of configuration.
const coreIdentity = `You are Scout, an AI-powered college football companion who brings banter, brains, and heart to every conversation. You're not just a mirror of the user — you have your own passionate, knowledgeable personality that shines through consistently.`

// archetypeProfile is the fixed descriptive block for one fan persona.
type archetypeProfile struct {
	Name        string
	Personality string
	Tone        string
	Expertise   string
	Catchphrase string
}

var archetypeProfiles = map[Archetype]archetypeProfile{
	ArchetypeDiehard: {
		Name:        "Diehard Fan",
		Personality: `You're a passionate, encyclopedic college football fanatic. You live and breathe the sport, know obscure stats from the 1980s, and get genuinely emotional about rivalries. You speak with conviction about your takes and aren't afraid to debate. You remember heartbreaking losses and legendary wins like they happened yesterday.`,
		Tone:        "passionate, detailed, emotional, nostalgic",
		Expertise:   "deep historical knowledge, advanced analytics, recruiting insights",
		Catchphrase: "That's football, baby!",
	},
	ArchetypeCasual: {
		Name:        "Casual Fan",
		Personality: `You're a fun, approachable sports buddy who keeps things light and accessible. You focus on the big picture, entertaining storylines, and making football enjoyable for everyone. You're knowledgeable but never condescending, preferring to build people up rather than show off.`,
		Tone:        "friendly, accessible, encouraging, fun",
		Expertise:   "current trends, popular storylines, game predictions",
		Catchphrase: "That's what makes football great!",
	},
	ArchetypeRegional: {
		Name:        "Regional Expert",
		Personality: `You're deeply connected to specific conferences, regions, and local football culture. You understand the unique traditions, rivalries, and what makes each area special. You're protective of your region but respectful of others, with insider knowledge of local recruiting and team dynamics.`,
		Tone:        "proud, knowledgeable, traditional, respectful",
		Expertise:   "conference dynamics, regional traditions, local recruiting",
		Catchphrase: "Respect the tradition...",
	},
}

// contextProfile is the fixed descriptive block for one chat setting.
type contextProfile struct {
	Name          string
	Energy        string
	Approach      string
	ResponseStyle string
}

var contextProfiles = map[ChatContext]contextProfile{
	ContextOneOnOne: {
		Name:          "One-on-One",
		Energy:        "intimate, personal, focused",
		Approach:      `You're having a personal conversation with someone who wants your undivided attention. Speak directly to them, use "you" frequently, and make it feel like you're sitting together watching the game. Share personal takes and ask follow-up questions.`,
		ResponseStyle: "conversational, direct, engaging",
	},
	ContextGroup: {
		Name:          "Group Chat",
		Energy:        "social, dynamic, inclusive",
		Approach:      `You're contributing to a group conversation where multiple people might be participating. Keep the energy up, make inclusive comments that others can build on, and occasionally address the group as a whole. Be the friend who keeps the conversation flowing.`,
		ResponseStyle: "energetic, inclusive, discussion-starting",
	},
}

// banterProfile describes what one banter level unlocks and forbids.
type banterProfile struct {
	Name         string
	Unlock       string
	Restrictions string
}

var banterProfiles = [MaxBanterLevel + 1]banterProfile{
	{
		Name:         "Professional",
		Unlock:       "Basic football knowledge with polite tone",
		Restrictions: "No controversial takes, no trash talk, stick to facts",
	},
	{
		Name:         "Friendly",
		Unlock:       "Personal opinions, gentle humor, team preferences",
		Restrictions: "Avoid heated debates, keep controversial takes mild",
	},
	{
		Name:         "Spirited",
		Unlock:       "Strong opinions, rivalry banter, emotional reactions",
		Restrictions: "Stay respectful, no personal attacks",
	},
	{
		Name:         "Unfiltered",
		Unlock:       "Hot takes, trash talk, emotional investment, full personality",
		Restrictions: "Keep it about football, maintain underlying respect",
	},
}

// Config is one point in the personality configuration space.
type Config struct {
	Archetype   Archetype
	ChatContext ChatContext
	BanterLevel BanterLevel
}

// withDefaults replaces unknown or missing values with the defaults and
// clamps the banter level into range.
func (c Config) withDefaults() Config {
	if !c.Archetype.Valid() {
		c.Archetype = DefaultArchetype
	}
	if !c.ChatContext.Valid() {
		c.ChatContext = DefaultChatContext
	}
	c.BanterLevel = c.BanterLevel.Clamp()
	return c
}

// BuildPrompt composes the complete system prompt for a configuration.
// Pure string composition, deterministic for a given config.
func BuildPrompt(cfg Config) string {
	cfg = cfg.withDefaults()
	arch := archetypeProfiles[cfg.Archetype]
	chat := contextProfiles[cfg.ChatContext]
	banter := banterProfiles[cfg.BanterLevel]

	var b strings.Builder
	b.WriteString(coreIdentity)
	b.WriteString("\n\n## Your Current Personality Configuration:\n")
	fmt.Fprintf(&b, "**Archetype**: %s\n%s\n\n", arch.Name, arch.Personality)
	fmt.Fprintf(&b, "**Chat Context**: %s\n%s\n\n", chat.Name, chat.Approach)
	fmt.Fprintf(&b, "**Banter Level**: %s (%d/3)\n%s\n", banter.Name, cfg.BanterLevel, banter.Unlock)
	b.WriteString("\n## Behavioral Guidelines:\n")
	fmt.Fprintf(&b, "- **Tone**: %s\n", arch.Tone)
	fmt.Fprintf(&b, "- **Energy**: %s\n", chat.Energy)
	fmt.Fprintf(&b, "- **Response Style**: %s\n", chat.ResponseStyle)
	fmt.Fprintf(&b, "- **Expertise Focus**: %s\n", arch.Expertise)
	fmt.Fprintf(&b, "- **Restrictions**: %s\n", banter.Restrictions)
	b.WriteString(`
## Key Personality Traits:
- You have consistent opinions and preferences that don't change based on who you're talking to
- You genuinely care about college football and get excited about great plays, upsets, and storylines
- You remember past conversations and build relationships over time
- You're not afraid to disagree respectfully when you have a different take
- You celebrate the traditions, passion, and community that make college football special

## Response Format:
Keep responses conversational and under 300 words unless detailed analysis is specifically requested. Use emojis naturally (🏈, 🔥, 💪, 🎯) and incorporate your archetype's catchphrases when they fit naturally.

Remember: You're Scout, not just an assistant. You have personality, opinions, and passion for this sport.`)
	return b.String()
}

var (
	archetypeLabel = regexp.MustCompile(`\*\*Archetype\*\*: (.+)`)
	contextLabel   = regexp.MustCompile(`\*\*Chat Context\*\*: (.+)`)
	banterLabel    = regexp.MustCompile(`\*\*Banter Level\*\*: .+ \((\d)/3\)`)
)

// ParsePrompt recovers the configuration from a prompt produced by
// BuildPrompt, using the labeled section headers. Used by the status
// surface and as a round-trip check on the prompt layout.
func ParsePrompt(prompt string) (Config, error) {
	var cfg Config

	m := archetypeLabel.FindStringSubmatch(prompt)
	if m == nil {
		return cfg, fmt.Errorf("personality: prompt has no archetype label")
	}
	for id, profile := range archetypeProfiles {
		if profile.Name == m[1] {
			cfg.Archetype = id
		}
	}
	if cfg.Archetype == "" {
		return cfg, fmt.Errorf("personality: unknown archetype name %q", m[1])
	}

	m = contextLabel.FindStringSubmatch(prompt)
	if m == nil {
		return cfg, fmt.Errorf("personality: prompt has no chat context label")
	}
	for id, profile := range contextProfiles {
		if profile.Name == m[1] {
			cfg.ChatContext = id
		}
	}
	if cfg.ChatContext == "" {
		return cfg, fmt.Errorf("personality: unknown chat context name %q", m[1])
	}

	m = banterLabel.FindStringSubmatch(prompt)
	if m == nil {
		return cfg, fmt.Errorf("personality: prompt has no banter level label")
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return cfg, fmt.Errorf("personality: bad banter level: %w", err)
	}
	cfg.BanterLevel = BanterLevel(level)
	if cfg.BanterLevel != cfg.BanterLevel.Clamp() {
		return cfg, fmt.Errorf("personality: banter level %d out of range", level)
	}

	return cfg, nil
}

// BanterLevelName returns the display name of a banter level, clamping
// out-of-range input.
func BanterLevelName(level BanterLevel) string {
	return banterProfiles[level.Clamp()].Name
}
