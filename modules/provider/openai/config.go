package openai

import (
	"fmt"
	"time"
)

// Config holds the configuration for the OpenAI provider module. Setting
// azure_endpoint switches the client to Azure OpenAI, which is how the bot
// is deployed in production.
type Config struct {
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	Timeout     string   `yaml:"timeout"`

	AzureEndpoint   string `yaml:"azure_endpoint"`
	AzureDeployment string `yaml:"azure_deployment"`
	AzureAPIVersion string `yaml:"azure_api_version"`
}

// defaults fills zero-valued fields with sensible defaults.
func (c *Config) defaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.isAzure() {
		if c.AzureAPIVersion == "" {
			c.AzureAPIVersion = "2024-06-01"
		}
		if c.AzureDeployment == "" {
			c.AzureDeployment = c.Model
		}
	}
}

// isAzure reports whether the module targets an Azure OpenAI deployment.
func (c *Config) isAzure() bool {
	return c.AzureEndpoint != ""
}

// parsedTimeout returns the timeout as a time.Duration.
// Assumes the value has been validated by validateTimeout.
func (c *Config) parsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// validateTimeout checks that the timeout string is a valid Go duration.
func (c *Config) validateTimeout() error {
	_, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("provider.openai: invalid timeout %q: %w", c.Timeout, err)
	}
	return nil
}
