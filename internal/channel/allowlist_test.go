package channel

import (
	"testing"

	"github.com/scout-cfb/scout/pkg/message"
)

func chatMsg(chatID string) message.InboundMessage {
	return message.InboundMessage{
		Sender: message.Sender{ID: "u1"},
		Chat:   message.Chat{ID: chatID, Type: message.ChatGroup},
	}
}

func TestAllowList_NilMonitorsEverything(t *testing.T) {
	t.Parallel()
	var a *AllowList
	if !a.IsMonitored(chatMsg("anything")) {
		t.Error("nil AllowList should monitor every chat")
	}
}

func TestAllowList_EmptyMonitorsEverything(t *testing.T) {
	t.Parallel()
	a := NewAllowList(nil)
	if !a.IsMonitored(chatMsg("general")) {
		t.Error("empty AllowList should monitor every chat")
	}
}

func TestAllowList_RestrictsToListedChats(t *testing.T) {
	t.Parallel()
	a := NewAllowList([]string{"cfb-chat", "game-day"})

	tests := []struct {
		name      string
		chatID    string
		monitored bool
	}{
		{"listed chat", "cfb-chat", true},
		{"listed chat 2", "game-day", true},
		{"unlisted chat", "off-topic", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := a.IsMonitored(chatMsg(tc.chatID))
			if got != tc.monitored {
				t.Errorf("IsMonitored(%q) = %v, want %v", tc.chatID, got, tc.monitored)
			}
		})
	}
}

func TestAllowList_NormalizesKeys(t *testing.T) {
	t.Parallel()
	a := NewAllowList([]string{" CFB-Chat "})

	if !a.IsMonitored(chatMsg("cfb-chat")) {
		t.Error("keys should be trimmed and lowercased at construction")
	}
	if !a.IsMonitored(chatMsg("CFB-CHAT")) {
		t.Error("lookups should be case-insensitive")
	}
}
