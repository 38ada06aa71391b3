package message

import (
	"encoding/json"
	"strings"
	"time"
)

// InboundMessage represents a message received from a channel.
type InboundMessage struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Channel   string          `json:"channel"`
	GuildID   string          `json:"guild_id,omitempty"`
	Sender    Sender          `json:"sender"`
	Chat      Chat            `json:"chat"`
	Content   string          `json:"content"`
	Mentions  *Mentions       `json:"mentions,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// MarshalJSON implements json.Marshaler. It normalizes empty Mentions to nil
// so that the field is omitted from JSON output.
func (m InboundMessage) MarshalJSON() ([]byte, error) {
	if m.Mentions.IsEmpty() {
		m.Mentions = nil
	}
	type alias InboundMessage
	return json.Marshal(alias(m))
}

// IsEmpty reports whether the message carries no usable text.
// Whitespace-only content counts as empty; it can never match a trigger.
func (m *InboundMessage) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// IsGroup reports whether the message was sent in a group chat.
func (m *InboundMessage) IsGroup() bool {
	return m.Chat.IsGroup()
}

// IsDirectMessage reports whether the message is a direct message.
func (m *InboundMessage) IsDirectMessage() bool {
	return m.Chat.IsDirectMessage()
}

// MentionsBot reports whether the message carries an explicit bot mention.
func (m *InboundMessage) MentionsBot() bool {
	return m.Mentions != nil && m.Mentions.IsMentioned
}
