package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/scout-cfb/scout/internal/provider"
)

// commandSystemPrompt is the fixed system prompt for /scout invocations.
// Slash commands bypass the trigger pipeline and its personality
// composition; they answer with the plain companion persona.
const commandSystemPrompt = "You are Scout, a knowledgeable and enthusiastic college football companion. " +
	"Provide helpful, friendly responses about college football topics. " +
	"Be conversational and use emojis appropriately."

const (
	commandMaxTokens   = 300
	commandTemperature = 0.7
)

// commandErrorText is shown when command handling itself fails.
const commandErrorText = "😅 Oops! Something went wrong, but I'm still here for football! 🏈"

// commandDefinitions returns the slash commands registered on startup.
func commandDefinitions() []applicationCommand {
	return []applicationCommand{
		{Name: "ping", Description: "Check if Scout is awake"},
		{Name: "kickoff", Description: "Get started with Scout!"},
		{
			Name:        "scout",
			Description: "Ask Scout about college football!",
			Options: []commandOption{{
				Type:        optionTypeString,
				Name:        "prompt",
				Description: "What do you want to ask Scout?",
				Required:    true,
			}},
		},
		{Name: "monitoring", Description: "Check Scout's chat monitoring status"},
		{Name: "connection", Description: "Check Scout's connection status and health"},
	}
}

// handleInteraction serves a slash-command invocation.
func (d *Discord) handleInteraction(ctx context.Context, i interaction) {
	if i.Type != interactionTypeCommand {
		return
	}

	d.logger.Info("command received",
		"command", i.Data.Name,
		"user", i.sender().Username,
	)

	var err error
	switch i.Data.Name {
	case "ping":
		err = d.respond(ctx, i, "💚 Scout reporting for duty! Ready to talk college football! 🏈")
	case "kickoff":
		err = d.respond(ctx, i, kickoffText)
	case "monitoring":
		err = d.respond(ctx, i, d.monitoringText())
	case "connection":
		err = d.respond(ctx, i, d.connectionText())
	case "scout":
		err = d.handleScoutCommand(ctx, i)
	default:
		return
	}

	if err != nil {
		d.logger.Error("command handling failed", "command", i.Data.Name, "error", err)
		// Best effort: the interaction may already be answered or expired.
		_ = d.respond(ctx, i, commandErrorText)
	}
}

// respond answers an interaction with an immediate text message.
func (d *Discord) respond(ctx context.Context, i interaction, text string) error {
	return d.client.CreateInteractionResponse(ctx, i.ID, i.Token, interactionResponse{
		Type: responseChannelMessage,
		Data: &interactionResponseData{Content: text},
	})
}

// handleScoutCommand defers the reply, asks the provider, and edits the
// deferred response with the answer. Provider failures produce a visible
// apology rather than a silent timeout.
func (d *Discord) handleScoutCommand(ctx context.Context, i interaction) error {
	prompt := i.option("prompt")
	if prompt == "" {
		return d.respond(ctx, i, "🏈 Ask me something! Try `/scout prompt: who wins the natty this year?`")
	}

	// Defer first: the provider call can take far longer than the 3
	// seconds Discord allows for an initial response.
	if err := d.client.CreateInteractionResponse(ctx, i.ID, i.Token, interactionResponse{Type: responseDeferred}); err != nil {
		return fmt.Errorf("defer interaction: %w", err)
	}

	text, err := d.completePrompt(ctx, prompt)
	if err != nil {
		d.logger.Error("scout command completion failed", "error", err)
		text = fmt.Sprintf("🏈 You asked: %q\n\nI'm Scout, your college football buddy! "+
			"I'm having a moment with my AI brain, but I'm still here to chat about CFB! "+
			"Try asking me again in a moment. 🌟", prompt)
	}

	if err := d.client.EditOriginalResponse(ctx, d.config.ApplicationID, i.Token, text); err != nil {
		return fmt.Errorf("edit deferred response: %w", err)
	}
	return nil
}

// completePrompt runs the provider call for /scout under the command timeout.
func (d *Discord) completePrompt(ctx context.Context, prompt string) (string, error) {
	if d.provider == nil {
		return "", fmt.Errorf("discord: no provider available")
	}

	ctx, cancel := context.WithTimeout(ctx, d.config.CommandTimeout)
	defer cancel()

	resp, err := d.provider.Complete(ctx, provider.NewChatRequest(
		commandSystemPrompt, prompt, commandMaxTokens, commandTemperature,
	))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// kickoffText is the /kickoff welcome message.
const kickoffText = "🏈 **Welcome to Scout!**\n\n" +
	"I'm your college football companion, ready to chat about games, teams, and everything CFB!\n\n" +
	"**Two ways to chat with me:**\n" +
	"• Use `/scout` commands\n" +
	"• Just mention \"Scout\" or ask football questions naturally in chat!\n\n" +
	"Try saying: \"Scout, what do you think about college football?\" 🌟"

// monitoringText formats the monitor stats snapshot for /monitoring.
func (d *Discord) monitoringText() string {
	if d.monitorStats == nil {
		return "📊 Monitoring is not active yet. Check back in a moment!"
	}
	st := d.monitorStats.Stats()

	status := "✅ ACTIVE"
	if st.ErrorRecoveryMode {
		status = "🔄 Recovery Mode"
	}
	last := "never"
	if !st.LastResponseAt.IsZero() {
		last = st.LastResponseAt.Format(time.RFC3339)
	}
	cooldown := int((st.CooldownRemaining + time.Second - 1) / time.Second)

	return fmt.Sprintf(
		"📊 **Monitoring Status:**\n\n"+
			"**Status:** %s\n"+
			"**Last Response:** %s\n"+
			"**Responses This Hour:** %d/%d\n"+
			"**Cooldown:** %ds\n"+
			"**Consecutive Errors:** %d\n\n"+
			"**Natural Triggers:**\n"+
			"• \"Scout\" mentions\n"+
			"• \"Who's winning?\" / \"Thoughts?\"\n"+
			"• College football keywords\n\n"+
			"💬 Just chat naturally - I'll join in!",
		status, last, st.ResponsesThisHour, st.HourlyCap, cooldown, st.ConsecutiveErrors,
	)
}

// connectionText formats gateway health for /connection.
func (d *Discord) connectionText() string {
	st := d.state.status()

	status := "🔴 Disconnected"
	closer := "⚠️ Connection issues detected"
	if st.Connected {
		status = "🟢 Connected"
		closer = "✅ All systems operational!"
	}

	return fmt.Sprintf(
		"🔌 **Scout Connection Status:**\n\n"+
			"**Status:** %s\n"+
			"**Uptime:** %d minutes\n"+
			"**Reconnect Attempts:** %d\n"+
			"**Is Reconnecting:** %v\n\n%s",
		status, int(st.Uptime.Minutes()), st.Attempts, st.Reconnecting, closer,
	)
}
