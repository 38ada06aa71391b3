package message

// OutboundKind discriminates what an outbound message asks the channel to do.
type OutboundKind string

// Supported outbound kinds.
const (
	// KindReply sends a text reply, threaded to ReplyToID when set.
	KindReply OutboundKind = "reply"
	// KindTyping shows a typing indicator in the chat.
	KindTyping OutboundKind = "typing"
	// KindReaction attaches an emoji reaction to the message in ReplyToID.
	KindReaction OutboundKind = "reaction"
)

// OutboundMessage represents an action to be performed through a channel.
type OutboundMessage struct {
	Channel   string       `json:"channel"`
	Chat      Chat         `json:"chat"`
	Kind      OutboundKind `json:"kind"`
	ReplyToID string       `json:"reply_to_id,omitempty"`
	Text      string       `json:"text,omitempty"`
	Emoji     string       `json:"emoji,omitempty"`
}

// NewReply creates a text reply to the given inbound message.
func NewReply(in InboundMessage, text string) OutboundMessage {
	return OutboundMessage{
		Channel:   in.Channel,
		Chat:      in.Chat,
		Kind:      KindReply,
		ReplyToID: in.ID,
		Text:      text,
	}
}

// NewTyping creates a typing indicator for the chat the inbound message
// arrived in.
func NewTyping(in InboundMessage) OutboundMessage {
	return OutboundMessage{
		Channel: in.Channel,
		Chat:    in.Chat,
		Kind:    KindTyping,
	}
}

// NewReaction creates an emoji reaction to the given inbound message.
func NewReaction(in InboundMessage, emoji string) OutboundMessage {
	return OutboundMessage{
		Channel:   in.Channel,
		Chat:      in.Chat,
		Kind:      KindReaction,
		ReplyToID: in.ID,
		Emoji:     emoji,
	}
}
