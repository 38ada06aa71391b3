package discord

import (
	"encoding/json"
	"fmt"
)

// Gateway opcodes (the subset the session uses).
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opResume         = 6
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

// Gateway intents: guild metadata, guild messages, DMs, and message content.
const (
	intentGuilds         = 1 << 0
	intentGuildMessages  = 1 << 9
	intentDirectMessages = 1 << 12
	intentMessageContent = 1 << 15
)

// botIntents is the intent bitfield sent in the identify payload.
const botIntents = intentGuilds | intentGuildMessages | intentDirectMessages | intentMessageContent

// gatewayEvent is a payload received from the gateway.
type gatewayEvent struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
	S  int64           `json:"s"`
	T  string          `json:"t"`
}

// gatewayCommand is a payload sent to the gateway.
type gatewayCommand struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

// helloData is the opHello payload.
type helloData struct {
	HeartbeatInterval int `json:"heartbeat_interval"`
}

// identifyData is the opIdentify payload.
type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

// resumeData is the opResume payload.
type resumeData struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
}

// readyData is the READY dispatch payload.
type readyData struct {
	SessionID        string `json:"session_id"`
	ResumeGatewayURL string `json:"resume_gateway_url"`
	User             User   `json:"user"`
}

// User is a Discord user object.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot,omitempty"`
}

// wireMessage is a Discord message object as received in MESSAGE_CREATE
// dispatches and REST responses.
type wireMessage struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
	Mentions  []User `json:"mentions,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Interaction callback types.
const (
	responseChannelMessage = 4
	responseDeferred       = 5
)

// interaction is the INTERACTION_CREATE dispatch payload, reduced to the
// fields slash-command handling needs.
type interaction struct {
	ID        string          `json:"id"`
	Token     string          `json:"token"`
	Type      int             `json:"type"`
	GuildID   string          `json:"guild_id,omitempty"`
	ChannelID string          `json:"channel_id,omitempty"`
	Data      interactionData `json:"data"`
	Member    *guildMember    `json:"member,omitempty"`
	User      *User           `json:"user,omitempty"`
}

// interactionTypeCommand is the application-command interaction type.
const interactionTypeCommand = 2

type interactionData struct {
	Name    string              `json:"name"`
	Options []interactionOption `json:"options,omitempty"`
}

type interactionOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type guildMember struct {
	User User `json:"user"`
}

// sender returns the user who invoked the interaction. Guild invocations
// carry a member object, DM invocations a bare user.
func (i *interaction) sender() User {
	if i.Member != nil {
		return i.Member.User
	}
	if i.User != nil {
		return *i.User
	}
	return User{}
}

// option returns the named string option value, or "".
func (i *interaction) option(name string) string {
	for _, opt := range i.Data.Options {
		if opt.Name == name {
			return opt.Value
		}
	}
	return ""
}

// interactionResponse is the body posted to the interaction callback endpoint.
type interactionResponse struct {
	Type int                      `json:"type"`
	Data *interactionResponseData `json:"data,omitempty"`
}

type interactionResponseData struct {
	Content string `json:"content"`
}

// applicationCommand defines a slash command for registration.
type applicationCommand struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []commandOption `json:"options,omitempty"`
}

// optionTypeString is the string application-command option type.
const optionTypeString = 3

type commandOption struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// APIError is a Discord REST API error response.
type APIError struct {
	Status  int     `json:"-"`
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Retry   float64 `json:"retry_after"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("discord: API error %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}
