// Package channeltest exercises the MockChannel used across the monitor
// and wiring tests.
package channeltest

import (
	"errors"
	"testing"

	"github.com/scout-cfb/scout/internal/channel"
	"github.com/scout-cfb/scout/pkg/message"
)

func inbound(chatID string) message.InboundMessage {
	return message.InboundMessage{
		ID:      "m1",
		Channel: "channel.mock",
		Sender:  message.Sender{ID: "u1"},
		Chat:    message.Chat{ID: chatID, Type: message.ChatGroup},
		Content: "scout, thoughts?",
	}
}

func TestSimulateMessage_RequiresInbox(t *testing.T) {
	t.Parallel()

	mock := channel.NewMockChannel("mock", nil)
	err := mock.SimulateMessage(inbound("c1"))
	if !errors.Is(err, channel.ErrNoInbox) {
		t.Errorf("SimulateMessage without inbox = %v, want ErrNoInbox", err)
	}
}

func TestSimulateMessage_DeliversToInbox(t *testing.T) {
	t.Parallel()

	mock := channel.NewMockChannel("mock", nil)
	var got []message.InboundMessage
	mock.SetInbox(func(msg message.InboundMessage) error {
		got = append(got, msg)
		return nil
	})

	if err := mock.SimulateMessage(inbound("c1")); err != nil {
		t.Fatalf("SimulateMessage: %v", err)
	}
	if len(got) != 1 || got[0].Content != "scout, thoughts?" {
		t.Errorf("inbox received %+v", got)
	}
}

func TestSimulateMessage_RespectsAllowList(t *testing.T) {
	t.Parallel()

	al := channel.NewAllowList([]string{"cfb-chat"})
	mock := channel.NewMockChannel("mock", al)
	mock.SetInbox(func(msg message.InboundMessage) error { return nil })

	if err := mock.SimulateMessage(inbound("cfb-chat")); err != nil {
		t.Errorf("monitored chat rejected: %v", err)
	}
	err := mock.SimulateMessage(inbound("off-topic"))
	if !errors.Is(err, channel.ErrUnmonitored) {
		t.Errorf("unmonitored chat = %v, want ErrUnmonitored", err)
	}
}
