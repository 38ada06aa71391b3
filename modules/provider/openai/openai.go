// Package openai implements the provider.openai module, serving chat
// completions from the OpenAI API or an Azure OpenAI deployment through
// the sashabaranov/go-openai client.
package openai

import (
	"errors"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v3"

	"github.com/scout-cfb/scout/internal/core"
	"github.com/scout-cfb/scout/internal/provider"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.Provider      = (*Provider)(nil)
	_ provider.HealthChecker = (*Provider)(nil)
	_ core.Module            = (*Provider)(nil)
	_ core.Configurable      = (*Provider)(nil)
	_ core.Provisioner       = (*Provider)(nil)
	_ core.Validator         = (*Provider)(nil)
)

// Provider implements the completion capability on top of OpenAI or
// Azure OpenAI.
type Provider struct {
	config Config
	logger *slog.Logger
	client *openai.Client
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner. It builds the API client and
// registers the module under the "provider" service name the monitor
// and gateway resolve.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger.With("module", "provider.openai")
	p.client = openai.NewClientWithConfig(p.clientConfig())

	ctx.RegisterService("provider", p)

	return nil
}

// clientConfig builds the go-openai client configuration from module config.
func (p *Provider) clientConfig() openai.ClientConfig {
	var cfg openai.ClientConfig
	if p.config.isAzure() {
		cfg = openai.DefaultAzureConfig(p.config.APIKey, p.config.AzureEndpoint)
		cfg.APIVersion = p.config.AzureAPIVersion
		deployment := p.config.AzureDeployment
		cfg.AzureModelMapperFunc = func(string) string { return deployment }
	} else {
		cfg = openai.DefaultConfig(p.config.APIKey)
		if p.config.BaseURL != "" {
			cfg.BaseURL = p.config.BaseURL
		}
	}
	cfg.HTTPClient = &http.Client{Timeout: p.config.parsedTimeout()}
	return cfg
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return errors.New("provider.openai: api_key is required")
	}
	if p.config.Model == "" {
		return errors.New("provider.openai: model is required")
	}
	if err := p.config.validateTimeout(); err != nil {
		return err
	}
	return nil
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	if p.config.isAzure() {
		return p.config.AzureDeployment
	}
	return p.config.Model
}
