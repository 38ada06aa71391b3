package trigger

import (
	"regexp"

	"github.com/scout-cfb/scout/internal/personality"
)

// directPatterns match explicit attempts to address the bot. A direct
// mention always fires, with no probability gate.
var directPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bscout\b`),
	regexp.MustCompile(`(?i)hey scout`),
	regexp.MustCompile(`(?i)scout[,!?]?\s`),
	regexp.MustCompile(`(?i)@scout`),
}

// cuePatterns match conversation moments where a group member would
// naturally chime in: opinion-seeking questions, football-specific
// phrases, debate starters, and group-energy exclamations.
var cuePatterns = []*regexp.Regexp{
	// Questions seeking opinions.
	regexp.MustCompile(`(?i)thoughts\?`),
	regexp.MustCompile(`(?i)what do you think`),
	regexp.MustCompile(`(?i)opinions?\?`),
	regexp.MustCompile(`(?i)predictions?\?`),
	regexp.MustCompile(`(?i)who('s|'s gonna|s going to)\s+(win|winning)`),
	regexp.MustCompile(`(?i)any takes\?`),

	// Football-specific phrases.
	regexp.MustCompile(`(?i)championship`),
	regexp.MustCompile(`(?i)playoff`),
	regexp.MustCompile(`(?i)who('s|'s gonna|s going to)\s+(beat|lose to)`),
	regexp.MustCompile(`(?i)(upset|blowout) (alert|incoming)`),
	regexp.MustCompile(`(?i)rivalry week`),
	regexp.MustCompile(`(?i)game day`),
	regexp.MustCompile(`(?i)college football`),

	// Debate and discussion starters.
	regexp.MustCompile(`(?i)controversial take`),
	regexp.MustCompile(`(?i)hot take`),
	regexp.MustCompile(`(?i)unpopular opinion`),
	regexp.MustCompile(`(?i)change my mind`),
	regexp.MustCompile(`(?i)am i wrong`),
	regexp.MustCompile(`(?i)settle (this|an argument)`),

	// Group energy.
	regexp.MustCompile(`(?i)let's go`),
	regexp.MustCompile(`(?i)(this is|that was) (crazy|insane|wild)`),
	regexp.MustCompile(`(?i)no way`),
	regexp.MustCompile(`(?i)are you kidding`),
	regexp.MustCompile(`(?i)i can't believe`),
}

// reactionPattern pairs a high-energy phrase with the emoji Scout would
// react with. Evaluated in order; the first match wins.
type reactionPattern struct {
	pattern *regexp.Regexp
	emoji   string
}

var reactionPatterns = []reactionPattern{
	{regexp.MustCompile(`(?i)(touchdown|td|score)`), "🏈"},
	{regexp.MustCompile(`(?i)(upset|major upset)`), "🔥"},
	{regexp.MustCompile(`(?i)(championship|natty)`), "🏆"},
	{regexp.MustCompile(`(?i)(rivalry|hate)`), "💪"},
	{regexp.MustCompile(`(?i)(no way|unbelievable)`), "😱"},
	{regexp.MustCompile(`(?i)(let's go|hype)`), "🚀"},
}

// archetypeHint maps content clues to the persona they suggest.
// Scanned in a fixed order; the first matching list wins.
type archetypeHint struct {
	archetype personality.Archetype
	patterns  []*regexp.Regexp
}

var archetypeHints = []archetypeHint{
	{personality.ArchetypeDiehard, []*regexp.Regexp{
		regexp.MustCompile(`(?i)stats?`),
		regexp.MustCompile(`(?i)numbers`),
		regexp.MustCompile(`(?i)analytics?`),
		regexp.MustCompile(`(?i)historically`),
		regexp.MustCompile(`(?i)data`),
		regexp.MustCompile(`(?i)metrics`),
	}},
	{personality.ArchetypeCasual, []*regexp.Regexp{
		regexp.MustCompile(`(?i)fun`),
		regexp.MustCompile(`(?i)exciting`),
		regexp.MustCompile(`(?i)entertaining`),
		regexp.MustCompile(`(?i)cool`),
		regexp.MustCompile(`(?i)awesome`),
		regexp.MustCompile(`(?i)love`),
	}},
	{personality.ArchetypeRegional, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(sec|big ten|pac.?12|big.?12|acc)`),
		regexp.MustCompile(`(?i)conference`),
		regexp.MustCompile(`(?i)tradition`),
		regexp.MustCompile(`(?i)culture`),
	}},
}
