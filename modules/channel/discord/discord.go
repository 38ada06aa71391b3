package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/scout-cfb/scout/internal/channel"
	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/internal/monitor"
	"github.com/scout-cfb/scout/internal/provider"
	"github.com/scout-cfb/scout/pkg/message"
)

func init() {
	core.RegisterModule(&Discord{})
}

// Compile-time interface guards.
var (
	_ channel.Channel   = (*Discord)(nil)
	_ core.Configurable = (*Discord)(nil)
	_ core.Provisioner  = (*Discord)(nil)
	_ core.Validator    = (*Discord)(nil)
	_ core.Starter      = (*Discord)(nil)
	_ core.Stopper      = (*Discord)(nil)
)

// MonitorStats is the slice of the monitor the /monitoring command reads.
type MonitorStats interface {
	Stats() monitor.Stats
}

// Discord implements the Discord channel module.
type Discord struct {
	config    Config
	logger    *slog.Logger
	client    *Client
	allowList *channel.AllowList
	inbox     func(message.InboundMessage) error
	appCtx    *core.AppContext

	session *sessionState
	state   *connState

	// Resolved at Start() via the service registry.
	provider     provider.Provider
	monitorStats MonitorStats

	botMu   sync.RWMutex
	botUser *User

	cancel context.CancelFunc
	done   chan struct{}
}

// ModuleInfo implements core.Module.
func (d *Discord) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "channel.discord",
		New: func() core.Module { return &Discord{} },
	}
}

// Configure implements core.Configurable.
func (d *Discord) Configure(node *yaml.Node) error {
	if err := node.Decode(&d.config); err != nil {
		return fmt.Errorf("discord: decode config: %w", err)
	}
	d.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (d *Discord) Provision(ctx *core.AppContext) error {
	d.appCtx = ctx
	d.logger = ctx.Logger.With("module", "channel.discord")
	d.client = NewClient(d.config.Token, d.config.APIURL)
	d.allowList = channel.NewAllowList(d.config.AllowChats)
	d.session = &sessionState{}
	d.state = newConnState()
	return nil
}

// Validate implements core.Validator.
func (d *Discord) Validate() error {
	if d.config.Token == "" {
		return errors.New("discord: token is required")
	}
	return d.config.validate()
}

// Start implements core.Starter. It validates the token, registers slash
// commands, and starts the gateway supervisor.
func (d *Discord) Start() error {
	if d.inbox == nil {
		return errors.New("discord: inbox not set, call SetInbox before Start")
	}

	user, err := d.client.GetCurrentUser(context.Background())
	if err != nil {
		return fmt.Errorf("discord: token validation failed: %w", err)
	}
	d.botMu.Lock()
	d.botUser = user
	d.botMu.Unlock()
	d.logger.Info("discord bot authenticated", "id", user.ID, "username", user.Username)

	// Optional collaborators: the channel still relays messages without
	// them, with the affected commands degrading gracefully.
	if svc, ok := d.appCtx.GetService("provider"); ok {
		if p, ok := svc.(provider.Provider); ok {
			d.provider = p
		}
	}
	if svc, ok := d.appCtx.GetService("monitor"); ok {
		if m, ok := svc.(MonitorStats); ok {
			d.monitorStats = m
		}
	}

	if d.config.RegisterCommands {
		if err := d.client.RegisterCommands(context.Background(), d.config.ApplicationID, d.config.GuildID, commandDefinitions()); err != nil {
			return fmt.Errorf("discord: command registration failed: %w", err)
		}
		d.logger.Info("slash commands registered",
			"count", len(commandDefinitions()),
			"guild_scoped", d.config.GuildID != "",
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		d.run(ctx)
	}()

	return nil
}

// Stop implements core.Stopper.
func (d *Discord) Stop(ctx context.Context) error {
	d.logger.Info("discord channel stopping")
	if d.cancel == nil {
		return nil
	}
	d.cancel()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetInbox implements channel.Channel.
func (d *Discord) SetInbox(fn func(msg message.InboundMessage) error) {
	d.inbox = fn
}

// Send implements channel.Channel.
func (d *Discord) Send(ctx context.Context, msg message.OutboundMessage) error {
	switch msg.Kind {
	case message.KindReply:
		return d.sendReply(ctx, msg)
	case message.KindTyping:
		return d.client.TriggerTyping(ctx, msg.Chat.ID)
	case message.KindReaction:
		return d.client.CreateReaction(ctx, msg.Chat.ID, msg.ReplyToID, msg.Emoji)
	default:
		return fmt.Errorf("discord: unsupported outbound kind %q", msg.Kind)
	}
}

// sendReply posts the reply text, split into Discord-sized chunks. Only the
// first chunk is threaded to the original message.
func (d *Discord) sendReply(ctx context.Context, msg message.OutboundMessage) error {
	chunks := channel.SplitText(msg.Text, d.config.MaxMessageLength)
	for n, chunk := range chunks {
		replyTo := ""
		if n == 0 {
			replyTo = msg.ReplyToID
		}
		if _, err := d.client.CreateMessage(ctx, msg.Chat.ID, chunk, replyTo); err != nil {
			return fmt.Errorf("discord: send reply chunk %d/%d: %w", n+1, len(chunks), err)
		}
	}
	return nil
}

// channelName returns the name outbound messages are routed by.
func (d *Discord) channelName() string {
	return string(d.ModuleInfo().ID)
}

// botUserID returns the authenticated bot user ID, or "" before Start.
func (d *Discord) botUserID() string {
	d.botMu.RLock()
	defer d.botMu.RUnlock()
	if d.botUser == nil {
		return ""
	}
	return d.botUser.ID
}
