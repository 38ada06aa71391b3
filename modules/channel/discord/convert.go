package discord

import (
	"encoding/json"
	"time"

	"github.com/scout-cfb/scout/pkg/message"
)

// toInbound converts a MESSAGE_CREATE payload into the platform-agnostic
// inbound message the monitor consumes. raw is kept on the message for
// diagnostics.
func toInbound(wire wireMessage, raw json.RawMessage, channelName, botID string) message.InboundMessage {
	ts, err := time.Parse(time.RFC3339, wire.Timestamp)
	if err != nil {
		ts = time.Now()
	}

	chatType := message.ChatDM
	if wire.GuildID != "" {
		chatType = message.ChatGroup
	}

	var mentions *message.Mentions
	if len(wire.Mentions) > 0 {
		mentions = &message.Mentions{}
		for _, u := range wire.Mentions {
			mentions.IDs = append(mentions.IDs, u.ID)
			if u.ID == botID {
				mentions.IsMentioned = true
			}
		}
	}

	return message.InboundMessage{
		ID:        wire.ID,
		Timestamp: ts,
		Channel:   channelName,
		GuildID:   wire.GuildID,
		Sender: message.Sender{
			ID:          wire.Author.ID,
			DisplayName: wire.Author.Username,
			IsBot:       wire.Author.Bot,
		},
		Chat: message.Chat{
			ID:   wire.ChannelID,
			Type: chatType,
		},
		Content:  wire.Content,
		Mentions: mentions,
		Raw:      raw,
	}
}
