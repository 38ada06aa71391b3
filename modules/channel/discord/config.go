package discord

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the Discord channel configuration.
type Config struct {
	Token         string `yaml:"token"`
	ApplicationID string `yaml:"application_id"`
	// GuildID scopes slash-command registration to one guild. Guild
	// commands propagate instantly; global commands take up to an hour.
	GuildID          string   `yaml:"guild_id"`
	AllowChats       []string `yaml:"allow_chats"`
	RegisterCommands bool     `yaml:"register_commands"`

	APIURL     string `yaml:"api_url"`
	GatewayURL string `yaml:"gateway_url"`

	MaxMessageLength     int           `yaml:"max_message_length"`
	CommandTimeout       time.Duration `yaml:"command_timeout"`
	ReconnectDelay       time.Duration `yaml:"reconnect_delay"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
}

// defaults applies default values to unset fields.
func (c *Config) defaults() {
	if c.APIURL == "" {
		c.APIURL = "https://discord.com/api/v10"
	}
	if c.GatewayURL == "" {
		c.GatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"
	}
	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = 2000
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = 20 * time.Second
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.MaxReconnectAttempts == 0 {
		c.MaxReconnectAttempts = 5
	}
}

// validate checks configuration field constraints beyond basic presence
// checks. It is called from Discord.Validate after defaults have been applied.
func (c *Config) validate() error {
	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("discord: api_url must be a valid http/https URL, got %q", c.APIURL)
	}
	if u, err := url.Parse(c.GatewayURL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return fmt.Errorf("discord: gateway_url must be a valid ws/wss URL, got %q", c.GatewayURL)
	}
	if c.MaxMessageLength < 1 || c.MaxMessageLength > 2000 {
		return fmt.Errorf("discord: max_message_length must be 1-2000, got %d", c.MaxMessageLength)
	}
	if c.RegisterCommands && c.ApplicationID == "" {
		return fmt.Errorf("discord: application_id is required when register_commands is set")
	}
	return nil
}
