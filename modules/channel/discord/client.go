package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	maxRetries       = 3
	maxResponseBytes = 8 << 20 // Prevent unbounded reads from API responses.
)

// Client is a thin HTTP wrapper around the Discord REST API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Discord REST API client.
func NewClient(token, baseURL string) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do sends a JSON request and decodes the response into out (when non-nil).
// It handles 429 rate limiting using the retry_after body field (max 3
// retries).
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("discord: marshal %s %s request: %w", method, path, err)
		}
	}

	for attempt := range maxRetries {
		var body io.Reader
		if data != nil {
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("discord: create %s %s request: %w", method, path, err)
		}
		req.Header.Set("Authorization", "Bot "+c.token)
		if data != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("discord: %s %s failed: %w", method, path, err)
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("discord: read %s %s response: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries-1 {
			wait := time.Second
			var apiErr APIError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Retry > 0 {
				wait = time.Duration(apiErr.Retry * float64(time.Second))
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{Status: resp.StatusCode}
			if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
				apiErr.Message = string(respBody)
			}
			return apiErr
		}

		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("discord: decode %s %s response: %w", method, path, err)
			}
		}
		return nil
	}

	return fmt.Errorf("discord: %s %s: max retries exceeded", method, path)
}

// GetCurrentUser fetches the bot's own user, validating the token.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/@me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetGatewayURL asks the API for the websocket URL to connect to.
func (c *Client) GetGatewayURL(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/gateway/bot", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// createMessageRequest is the body for message creation.
type createMessageRequest struct {
	Content          string            `json:"content"`
	MessageReference *messageReference `json:"message_reference,omitempty"`
}

type messageReference struct {
	MessageID string `json:"message_id"`
}

// CreateMessage posts a message to a channel, threaded to replyToID when set.
func (c *Client) CreateMessage(ctx context.Context, channelID, content, replyToID string) (*wireMessage, error) {
	req := createMessageRequest{Content: content}
	if replyToID != "" {
		req.MessageReference = &messageReference{MessageID: replyToID}
	}

	var msg wireMessage
	path := "/channels/" + channelID + "/messages"
	if err := c.do(ctx, http.MethodPost, path, req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TriggerTyping shows the typing indicator in a channel for a few seconds.
func (c *Client) TriggerTyping(ctx context.Context, channelID string) error {
	return c.do(ctx, http.MethodPost, "/channels/"+channelID+"/typing", nil, nil)
}

// CreateReaction attaches an emoji reaction to a message.
func (c *Client) CreateReaction(ctx context.Context, channelID, messageID, emoji string) error {
	path := "/channels/" + channelID + "/messages/" + messageID +
		"/reactions/" + url.PathEscape(emoji) + "/@me"
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// RegisterCommands bulk-overwrites the application's slash commands. When
// guildID is set the commands are guild-scoped, otherwise global.
func (c *Client) RegisterCommands(ctx context.Context, appID, guildID string, cmds []applicationCommand) error {
	path := "/applications/" + appID + "/commands"
	if guildID != "" {
		path = "/applications/" + appID + "/guilds/" + guildID + "/commands"
	}
	return c.do(ctx, http.MethodPut, path, cmds, nil)
}

// CreateInteractionResponse answers an interaction (initial reply or defer).
func (c *Client) CreateInteractionResponse(ctx context.Context, id, token string, resp interactionResponse) error {
	path := "/interactions/" + id + "/" + token + "/callback"
	return c.do(ctx, http.MethodPost, path, resp, nil)
}

// EditOriginalResponse replaces the content of a deferred interaction reply.
func (c *Client) EditOriginalResponse(ctx context.Context, appID, token, content string) error {
	path := "/webhooks/" + appID + "/" + token + "/messages/@original"
	return c.do(ctx, http.MethodPatch, path, interactionResponseData{Content: content}, nil)
}
