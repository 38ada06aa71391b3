package channel

import (
	"strings"

	"github.com/scout-cfb/scout/pkg/message"
)

// AllowList controls which chats the monitor observes. Unlike a security
// allow-list, an empty or nil AllowList permits every chat: the bot
// monitors all channels it can see unless the operator narrows the set.
type AllowList struct {
	chats map[string]struct{}
}

// NewAllowList creates an AllowList with O(1) lookups. IDs are trimmed and
// lowercased at construction time so that IsMonitored can use direct map
// lookups.
func NewAllowList(chatIDs []string) *AllowList {
	a := &AllowList{
		chats: make(map[string]struct{}, len(chatIDs)),
	}
	for _, id := range chatIDs {
		a.chats[normalize(id)] = struct{}{}
	}
	return a
}

// IsMonitored reports whether the message's chat should be observed.
//
// Rules:
//   - If the list is nil or empty → allow (monitor everything).
//   - If the chat's ID matches an entry → allow.
//   - Otherwise → deny.
func (a *AllowList) IsMonitored(msg message.InboundMessage) bool {
	if a == nil || len(a.chats) == 0 {
		return true
	}
	_, ok := a.chats[normalize(msg.Chat.ID)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
