// Package provider defines the completion capability Scout calls to
// generate replies. Concrete implementations live in separate packages
// (e.g. provider.openai) and typically also implement core.Module for
// lifecycle management.
package provider

import "context"

// Provider is the interface for communicating with an LLM.
// The monitor treats it as a black box: given a system prompt and a user
// prompt it returns text or fails. Retry and fallback behavior live in
// the monitor, not here.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// HealthChecker is an optional interface that providers may implement to
// support active health probing, surfaced through the gateway's status
// endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
