package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"github.com/scout-cfb/scout/internal/provider"
)

func TestModuleInfo(t *testing.T) {
	p := &Provider{}
	info := p.ModuleInfo()

	if info.ID != "provider.openai" {
		t.Errorf("expected ID provider.openai, got %s", info.ID)
	}
	if info.New == nil {
		t.Fatal("New function must not be nil")
	}

	mod := info.New()
	if _, ok := mod.(*Provider); !ok {
		t.Errorf("New() returned %T, want *Provider", mod)
	}
}

func TestConfigure_Defaults(t *testing.T) {
	p := &Provider{}

	node := yamlNode(t, `
api_key: sk-test
model: gpt-4o-mini
`)
	if err := p.Configure(node); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}

	if p.config.APIKey != "sk-test" {
		t.Errorf("api_key = %q, want sk-test", p.config.APIKey)
	}
	if p.config.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", p.config.Model)
	}
	if p.config.Timeout != "30s" {
		t.Errorf("timeout = %q, want 30s", p.config.Timeout)
	}
	if p.config.isAzure() {
		t.Error("isAzure() = true without azure_endpoint")
	}
}

func TestConfigure_AzureDefaults(t *testing.T) {
	p := &Provider{}

	node := yamlNode(t, `
api_key: azure-key
model: gpt-4o
azure_endpoint: https://scout.openai.azure.com
`)
	if err := p.Configure(node); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}

	if !p.config.isAzure() {
		t.Fatal("isAzure() = false with azure_endpoint set")
	}
	if p.config.AzureAPIVersion == "" {
		t.Error("azure_api_version default not applied")
	}
	if p.config.AzureDeployment != "gpt-4o" {
		t.Errorf("azure_deployment = %q, want model fallback gpt-4o", p.config.AzureDeployment)
	}
}

func TestConfigure_InvalidYAML(t *testing.T) {
	p := &Provider{}
	node := yamlNode(t, `temperature: "not-a-number"`)
	if err := p.Configure(node); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{APIKey: "sk-test", Model: "gpt-4o", Timeout: "30s"}, false},
		{"missing api key", Config{Model: "gpt-4o", Timeout: "30s"}, true},
		{"missing model", Config{APIKey: "sk-test", Timeout: "30s"}, true},
		{"bad timeout", Config{APIKey: "sk-test", Model: "gpt-4o", Timeout: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Provider{config: tt.config}
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelName(t *testing.T) {
	p := &Provider{config: Config{Model: "gpt-4o-mini"}}
	if got := p.ModelName(); got != "gpt-4o-mini" {
		t.Errorf("ModelName() = %q, want gpt-4o-mini", got)
	}

	p = &Provider{config: Config{
		Model:           "gpt-4o",
		AzureEndpoint:   "https://scout.openai.azure.com",
		AzureDeployment: "scout-prod",
	}}
	if got := p.ModelName(); got != "scout-prod" {
		t.Errorf("ModelName() = %q, want deployment name", got)
	}
}

// newTestProvider builds a Provider pointed at a fake API server.
func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := &Provider{config: Config{
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL + "/v1",
	}}
	p.config.defaults()
	p.client = openai.NewClientWithConfig(p.clientConfig())
	return p
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-4o-mini",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
		},
		Usage: openai.Usage{PromptTokens: 42, CompletionTokens: 11, TotalTokens: 53},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("  Roll Tide. Big game Saturday.  "))
	})

	req := provider.NewChatRequest("system prompt", "user prompt", 150, 0.8)
	resp, err := p.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if resp.Content != "Roll Tide. Big game Saturday." {
		t.Errorf("Content = %q, want trimmed response", resp.Content)
	}
	if resp.Usage.TotalTokens != 53 {
		t.Errorf("TotalTokens = %d, want 53", resp.Usage.TotalTokens)
	}

	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q, want gpt-4o-mini", gotReq.Model)
	}
	if gotReq.MaxTokens != 150 {
		t.Errorf("request max_tokens = %d, want 150", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("request messages = %+v, want system then user", gotReq.Messages)
	}
}

func TestComplete_ConfigDefaultsApply(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	})
	temp := 0.5
	p.config.MaxTokens = 200
	p.config.Temperature = &temp

	_, err := p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if gotReq.MaxTokens != 200 {
		t.Errorf("max_tokens = %d, want config default 200", gotReq.MaxTokens)
	}
	if gotReq.Temperature != 0.5 {
		t.Errorf("temperature = %v, want config default 0.5", gotReq.Temperature)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-test"})
	})

	_, err := p.Complete(context.Background(), provider.NewChatRequest("s", "u", 0, 0))
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestComplete_BlankContent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("   "))
	})

	_, err := p.Complete(context.Background(), provider.NewChatRequest("s", "u", 0, 0))
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Errorf("error = %v, want ErrEmptyResponse", err)
	}
}

func apiErrorHandler(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": message, "type": "test_error"},
		})
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, provider.ErrRateLimit},
		{"unauthorized", http.StatusUnauthorized, errAuth},
		{"forbidden", http.StatusForbidden, errAuth},
		{"server error", http.StatusInternalServerError, provider.ErrProviderDown},
		{"bad gateway", http.StatusBadGateway, provider.ErrProviderDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, apiErrorHandler(tt.status, "boom"))

			_, err := p.Complete(context.Background(), provider.NewChatRequest("s", "u", 0, 0))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete_AzureRouting(t *testing.T) {
	var gotPath, gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("Api-Key")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer srv.Close()

	p := &Provider{config: Config{
		APIKey:          "azure-key",
		Model:           "gpt-4o",
		AzureEndpoint:   srv.URL,
		AzureDeployment: "scout-prod",
	}}
	p.config.defaults()
	p.client = openai.NewClientWithConfig(p.clientConfig())

	_, err := p.Complete(context.Background(), provider.NewChatRequest("s", "u", 0, 0))
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if !strings.Contains(gotPath, "/deployments/scout-prod/") {
		t.Errorf("request path = %q, want deployment-scoped route", gotPath)
	}
	if gotAPIKey != "azure-key" {
		t.Errorf("Api-Key header = %q, want azure-key", gotAPIKey)
	}
}

func TestHealthCheck(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": "gpt-4o-mini", "object": "model"}},
		})
	})

	if err := p.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
}

func TestHealthCheck_Down(t *testing.T) {
	p := newTestProvider(t, apiErrorHandler(http.StatusServiceUnavailable, "down"))

	err := p.HealthCheck(context.Background())
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Errorf("error = %v, want ErrProviderDown", err)
	}
}

func TestBuildRequest_ZeroTemperatureSurvives(t *testing.T) {
	temp := 0.0
	p := &Provider{config: Config{Model: "gpt-4o-mini"}}

	cr := p.buildRequest(provider.CompletionRequest{
		Messages:    []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
		Temperature: &temp,
	})

	if cr.Temperature == 0 {
		t.Error("explicit zero temperature was dropped")
	}
}

func yamlNode(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s), &node); err != nil {
		t.Fatalf("failed to parse test YAML: %v", err)
	}
	// yaml.Unmarshal wraps the document in a document node.
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return &node
}
