// Package core provides the module system foundation for scout.
// Channels, providers, preference stores, and infrastructure components
// register themselves as modules and participate in a shared lifecycle:
//
//	New() → Configure() → Provision() → Validate() → Start() → Stop()
package core

// ModuleID uniquely identifies a module, namespaced by kind
// (e.g. "channel.discord", "provider.openai", "prefs.sqlite").
type ModuleID string

// Module is the minimal interface every module implements.
type Module interface {
	ModuleInfo() ModuleInfo
}

// ModuleInfo describes a module and how to instantiate it.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a fresh, unconfigured instance of the module.
	New func() Module
}
