package channel

import (
	"context"
	"sync"

	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/pkg/message"
)

// MockChannel is a test double that implements Channel. It records sent
// actions and allows simulating inbound messages via SimulateMessage.
type MockChannel struct {
	name      string
	inbox     func(msg message.InboundMessage) error
	mu        sync.Mutex
	sent      []message.OutboundMessage
	allowList *AllowList

	// SendFunc, if set, is called instead of the default recording behavior.
	SendFunc func(ctx context.Context, msg message.OutboundMessage) error
}

// Compile-time interface guards.
var _ Channel = (*MockChannel)(nil)

// NewMockChannel creates a MockChannel with the given name and an optional
// allow-list. Pass nil for allowList to monitor everything.
func NewMockChannel(name string, allowList *AllowList) *MockChannel {
	return &MockChannel{
		name:      name,
		allowList: allowList,
	}
}

// ModuleInfo implements core.Module.
func (m *MockChannel) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID: core.ModuleID("channel." + m.name),
		New: func() core.Module {
			return NewMockChannel(m.name, m.allowList)
		},
	}
}

// Send records the outbound action. If SendFunc is set, it delegates to it.
func (m *MockChannel) Send(ctx context.Context, msg message.OutboundMessage) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// SetInbox stores the inbox callback provided by the wiring layer.
func (m *MockChannel) SetInbox(fn func(msg message.InboundMessage) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = fn
}

// SimulateMessage pushes an inbound message through the allow-list and into
// the inbox. It returns ErrUnmonitored if the chat is not monitored, and
// ErrNoInbox if SetInbox has not been called.
func (m *MockChannel) SimulateMessage(msg message.InboundMessage) error {
	m.mu.Lock()
	al := m.allowList
	inbox := m.inbox
	m.mu.Unlock()

	if !al.IsMonitored(msg) {
		return ErrUnmonitored
	}
	if inbox == nil {
		return ErrNoInbox
	}
	return inbox(msg)
}

// Sent returns a copy of all recorded outbound actions.
func (m *MockChannel) Sent() []message.OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]message.OutboundMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentOfKind returns the recorded outbound actions of the given kind.
func (m *MockChannel) SentOfKind(kind message.OutboundKind) []message.OutboundMessage {
	var out []message.OutboundMessage
	for _, msg := range m.Sent() {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}
