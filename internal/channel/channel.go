// Package channel defines the bridge between messaging platforms and the
// response monitor. It provides the Channel interface, outbound dispatch,
// message chunking, and the monitored-channel allow-list.
package channel

import (
	"context"

	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/pkg/message"
)

// Channel is the bridge between a messaging platform and the monitor.
// Every concrete channel (Discord, the mock used in tests) implements it.
//
// A channel receives messages from its platform and pushes them to the
// monitor via the inbox callback. It also receives outbound actions
// (replies, typing indicators, emoji reactions) from the monitor via Send().
type Channel interface {
	core.Module

	// Send performs an outbound action on the platform. The action kind
	// (reply, typing, reaction) is carried in the message itself.
	Send(ctx context.Context, msg message.OutboundMessage) error

	// SetInbox gives the channel a function to push inbound messages to
	// the monitor. The wiring layer calls this before Start().
	SetInbox(fn func(msg message.InboundMessage) error)
}
