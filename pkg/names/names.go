// Package names is the public facade over the Name Registry (C1): callers
// outside agentwire's internal tree load a config and look up agent/resource
// keys through this package rather than reaching into internal/registry.
package names

import (
	"io"

	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/wire"
)

// AgentKey and ResourceKey are re-exported so callers never need to import
// internal/wire directly for these types.
type AgentKey = wire.AgentKey
type ResourceKey = wire.ResourceKey

// Sentinel re-exports, matching internal/wire's.
const (
	NotAnAgent    = wire.NotAnAgent
	NotAResource  = wire.NotAResource
	ResourceBang  = wire.ResourceBang
)

// Registry is the public handle on a loaded name registry.
type Registry struct {
	inner *registry.Registry
}

// New loads configPath (or DefaultConfigPath if empty), enabling
// representation globally if doRepresentation is set.
func New(configPath string, doRepresentation bool) (*Registry, error) {
	r := registry.New()
	if err := r.Initialize(configPath, doRepresentation); err != nil {
		return nil, err
	}
	return &Registry{inner: r}, nil
}

// Load builds a Registry from src instead of a config file path, for tests
// and tooling that hold configuration in memory. doRepresentation sets the
// registry's global representation flag directly, since LoadFrom (unlike
// Initialize) has no opportunity to do so itself.
func Load(src io.Reader, doRepresentation bool) (*Registry, error) {
	r := registry.New(registry.WithRepresentation(doRepresentation))
	if err := r.LoadFrom(src); err != nil {
		return nil, err
	}
	return &Registry{inner: r}, nil
}

// AgentKey looks up path's assigned key, or NotAnAgent.
func (r *Registry) AgentKey(path string) AgentKey { return r.inner.GetAgentKey(path) }

// AgentPath looks up key's assigned path, or "".
func (r *Registry) AgentPath(key AgentKey) string { return r.inner.GetAgentPath(key) }

// ResourceKey looks up name's assigned key, or NotAResource.
func (r *Registry) ResourceKey(name string) ResourceKey { return r.inner.GetResourceKey(name) }

// ResourceName looks up key's assigned name, or "".
func (r *Registry) ResourceName(key ResourceKey) string { return r.inner.GetResourceName(key) }

// ResourceType looks up key's declared type, or wire.UnknownType.
func (r *Registry) ResourceType(key ResourceKey) wire.ResourceType { return r.inner.GetResourceType(key) }

// AgentPaths lists every declared agent path.
func (r *Registry) AgentPaths() []string { return r.inner.AgentPaths() }

// ResourceNames lists every declared resource name.
func (r *Registry) ResourceNames() []string { return r.inner.ResourceNames() }

// String renders a short diagnostic summary.
func (r *Registry) String() string { return r.inner.String() }

// Internal returns the underlying *registry.Registry, which carries the
// full surface (DeclareAgent, ForgetAgent, DoRepresentation) that the
// lookup methods above do not re-export.
func (r *Registry) Internal() *registry.Registry { return r.inner }
