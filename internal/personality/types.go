// Package personality composes Scout's system prompt from a fixed
// configuration space (archetype × chat context × banter level), stores
// per-user preferences, and post-processes generated replies (banter-level
// filtering, consistent-opinion injection).
package personality

// Archetype is one of the fixed fan personas Scout can embody.
type Archetype string

// Available archetypes. An empty Archetype means "no preference"; lookups
// fall back to DefaultArchetype.
const (
	ArchetypeDiehard  Archetype = "diehard"
	ArchetypeCasual   Archetype = "casual"
	ArchetypeRegional Archetype = "regional"
)

// DefaultArchetype is used when a user has no stored preference and the
// trigger analysis produced no hint.
const DefaultArchetype = ArchetypeCasual

// Valid reports whether the archetype is one of the known personas.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeDiehard, ArchetypeCasual, ArchetypeRegional:
		return true
	}
	return false
}

// ChatContext classifies the conversation setting a reply is composed for.
type ChatContext string

// Available chat contexts.
const (
	ContextOneOnOne ChatContext = "1on1"
	ContextGroup    ChatContext = "group"
)

// DefaultChatContext is used when the group tracker produced no usable
// classification.
const DefaultChatContext = ContextOneOnOne

// Valid reports whether the chat context is known.
func (c ChatContext) Valid() bool {
	return c == ContextOneOnOne || c == ContextGroup
}

// BanterLevel controls how much opinionated, informal personality is
// allowed in a reply. Levels run 0 (professional) through 3 (unfiltered).
type BanterLevel int

// Banter level bounds and default.
const (
	MinBanterLevel     BanterLevel = 0
	MaxBanterLevel     BanterLevel = 3
	DefaultBanterLevel BanterLevel = 2
)

// Clamp returns the level forced into the valid [0,3] range.
func (l BanterLevel) Clamp() BanterLevel {
	if l < MinBanterLevel {
		return MinBanterLevel
	}
	if l > MaxBanterLevel {
		return MaxBanterLevel
	}
	return l
}
