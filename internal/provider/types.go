package provider

// MessageRole identifies the sender of a message in a conversation.
type MessageRole string

// MessageRole constants for conversation messages.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// LLMMessage represents a single message in a conversation.
type LLMMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// CompletionRequest is the input to a Provider.Complete call.
type CompletionRequest struct {
	Messages    []LLMMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
}

// NewChatRequest builds the two-message request shape the monitor and the
// slash-command surface both use: a system prompt followed by the user prompt.
func NewChatRequest(systemPrompt, userPrompt string, maxTokens int, temperature float64) CompletionRequest {
	return CompletionRequest{
		Messages: []LLMMessage{
			{Role: MessageRoleSystem, Content: systemPrompt},
			{Role: MessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
}

// CompletionResponse is the output of a Provider.Complete call.
type CompletionResponse struct {
	Content string     `json:"content"`
	Usage   TokenUsage `json:"usage"`
}

// TokenUsage tracks token consumption for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
