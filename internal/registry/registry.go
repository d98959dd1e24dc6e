// Package registry implements the name registry: loading the config file,
// assigning and looking up agent and resource keys by linear-probed hash
// placement, and tracking each resource's semantic type.
//
// Probe order is deterministic config-file order (names are declared and
// hashed in the order they are read), so re-running initialize against the
// same file always reproduces the same key assignment; reordering the
// config file can change the keys assigned to any name involved in a
// collision, exactly as spec's design notes call out.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/hashutil"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
	"golang.org/x/text/unicode/norm"
)

// DefaultConfigPath is used by Initialize when no path is given.
const DefaultConfigPath = "./names.conf"

// hardCodedResourceKeys bypasses hashing for the two names the spec calls
// out explicitly.
var hardCodedResourceKeys = map[string]wire.ResourceKey{
	"resourceName":    wire.MaxKey + 1,
	"noMoreResources": wire.MaxKey + 2,
}

// Registry holds the process-wide (or test-scoped) name/key/type maps.
// All maps are mutated only during Initialize and by agent/resource
// creation or destruction; concurrent reads are safe at any time.
type Registry struct {
	mu sync.RWMutex

	hash     hashutil.Hash32
	keySpace wire.ResourceKey // exclusive upper bound on assignable keys

	agentNames   map[wire.AgentKey]string
	agentKeys    map[string]wire.AgentKey
	resourceNames map[wire.ResourceKey]string
	resourceKeys  map[string]wire.ResourceKey
	resourceTypes map[wire.ResourceKey]wire.ResourceType

	doRepresentation bool
	initialized      bool
}

// Option configures a Registry constructed by New.
type Option func(*Registry)

// WithHash overrides the injected 32-bit digest function (see
// internal/hashutil); the default is hashutil.Default.
func WithHash(h hashutil.Hash32) Option {
	return func(r *Registry) { r.hash = h }
}

// WithKeySpace overrides the exclusive upper bound on assignable keys,
// mainly so tests can force hash collisions deterministically within a
// small space. The production default is wire.MaxKey.
func WithKeySpace(n wire.ResourceKey) Option {
	return func(r *Registry) { r.keySpace = n }
}

// WithRepresentation sets the registry's global representation flag at
// construction time, for callers (such as LoadFrom-based setup) that never
// go through Initialize.
func WithRepresentation(enabled bool) Option {
	return func(r *Registry) { r.doRepresentation = enabled }
}

// New constructs an empty, uninitialized Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		hash:          hashutil.Default,
		keySpace:      wire.MaxKey,
		agentNames:    make(map[wire.AgentKey]string),
		agentKeys:     make(map[string]wire.AgentKey),
		resourceNames: make(map[wire.ResourceKey]string),
		resourceKeys:  make(map[string]wire.ResourceKey),
		resourceTypes: make(map[wire.ResourceKey]wire.ResourceType),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize loads configPath (DefaultConfigPath if empty) and enables
// doRepresentation globally if requested. It is idempotent: a second call
// has no effect on an already-initialized Registry.
func (r *Registry) Initialize(configPath string, doRepresentation bool) error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	if configPath == "" {
		configPath = DefaultConfigPath
	}
	f, err := os.Open(configPath)
	if err != nil {
		xlog.Error("registry: config missing", "path", configPath, "err", err)
		r.mu.Lock()
		r.initialized = true
		r.doRepresentation = doRepresentation
		r.mu.Unlock()
		return apierr.Wrap(apierr.KindConfigMissing, "cannot open config file", err)
	}
	defer f.Close()

	if err := r.LoadFrom(f); err != nil {
		return err
	}

	r.mu.Lock()
	r.initialized = true
	r.doRepresentation = doRepresentation
	r.mu.Unlock()
	return nil
}

// LoadFrom parses declarations from r in config-file order. It is exposed
// separately from Initialize so tests and tooling can load from an
// in-memory reader without touching the filesystem.
func (r *Registry) LoadFrom(src io.Reader) error {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			path := strings.Fields(line)[0]
			r.declareAgent(path)
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		r.declareResource(fields[0], fields[1])
	}
	return scanner.Err()
}

// DoRepresentation reports whether C3's transforms are globally enabled.
func (r *Registry) DoRepresentation() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doRepresentation
}

func (r *Registry) declareAgent(path string) wire.AgentKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.agentKeys[path]; ok {
		return k
	}
	k := wire.AgentKey(r.probe(path, func(candidate wire.ResourceKey) bool {
		_, taken := r.agentNames[wire.AgentKey(candidate)]
		return taken
	}))
	r.agentKeys[path] = k
	r.agentNames[k] = path
	return k
}

func (r *Registry) declareResource(name, typeSpelling string) wire.ResourceKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.resourceKeys[name]; ok {
		return k
	}

	var k wire.ResourceKey
	if hard, ok := hardCodedResourceKeys[name]; ok {
		k = hard
	} else {
		k = r.probe(name, func(candidate wire.ResourceKey) bool {
			_, taken := r.resourceNames[candidate]
			return taken
		})
	}

	rt, ok := wire.ParseResourceType(typeSpelling)
	if !ok {
		xlog.Error("registry: unknown resource type, falling back to OPAQUE", "name", name, "type", typeSpelling)
		rt = wire.Opaque
	}

	r.resourceKeys[name] = k
	r.resourceNames[k] = name
	r.resourceTypes[k] = rt
	return k
}

// probe runs the hash32-then-linear-probe algorithm shared by agent and
// resource key assignment. occupied reports whether a candidate key is
// already assigned to some OTHER name; the caller has already confirmed
// name itself is not yet assigned.
func (r *Registry) probe(name string, occupied func(wire.ResourceKey) bool) wire.ResourceKey {
	h := r.hash(name, ' ', 'z')
	start := wire.ResourceKey(h) % r.keySpace
	k := start
	for {
		if !occupied(k) {
			return k
		}
		k = (k + 1) % r.keySpace
		if k == start {
			// Key space exhausted; this should not happen in practice
			// for any reasonably sized config, but returning the start
			// slot (accepting the collision) is preferable to an
			// infinite loop.
			xlog.Error("registry: key space exhausted during probe", "name", name)
			return start
		}
	}
}

// DeclareAgent declares and returns the key for path, creating the
// assignment if path has not been seen before. It is the path createAgent
// uses to obtain a key outside of Initialize's config-driven declarations
// (e.g. for agents created dynamically at runtime).
func (r *Registry) DeclareAgent(path string) wire.AgentKey {
	return r.declareAgent(path)
}

// DeclareResource declares and returns the key for name/typeSpelling.
func (r *Registry) DeclareResource(name, typeSpelling string) wire.ResourceKey {
	return r.declareResource(name, typeSpelling)
}

// ForgetAgent removes path's key assignment entirely, so a later
// DeclareAgent for the same path gets a freshly probed key. Used by
// destroyAgent; resource assignments are never forgotten, matching the
// config-driven, write-once lifetime of resource declarations.
func (r *Registry) ForgetAgent(key wire.AgentKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.agentNames[key]
	if !ok {
		return
	}
	delete(r.agentNames, key)
	delete(r.agentKeys, path)
}

// GetAgentKey returns the key previously assigned to path, or NotAnAgent.
func (r *Registry) GetAgentKey(path string) wire.AgentKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.agentKeys[path]; ok {
		return k
	}
	return wire.NotAnAgent
}

// GetAgentPath returns the path previously assigned to key, or "".
func (r *Registry) GetAgentPath(key wire.AgentKey) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agentNames[key]
}

// GetResourceKey returns the key previously assigned to name, or
// NotAResource.
func (r *Registry) GetResourceKey(name string) wire.ResourceKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.resourceKeys[name]; ok {
		return k
	}
	return wire.NotAResource
}

// GetResourceName returns the stored name for key, or "".
func (r *Registry) GetResourceName(key wire.ResourceKey) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resourceNames[key]
}

// GetResourceType returns the stored type for key, or UnknownType.
func (r *Registry) GetResourceType(key wire.ResourceKey) wire.ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.resourceTypes[key]; ok {
		return t
	}
	return wire.UnknownType
}

// AgentPaths returns every declared agent path, for inspection tooling
// such as `agentctl registry dump`.
func (r *Registry) AgentPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.agentKeys))
	for p := range r.agentKeys {
		out = append(out, p)
	}
	return out
}

// ResourceNames returns every declared resource name.
func (r *Registry) ResourceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.resourceKeys))
	for n := range r.resourceKeys {
		out = append(out, n)
	}
	return out
}

// String renders a short diagnostic summary.
func (r *Registry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("registry{agents=%d resources=%d representation=%v}",
		len(r.agentKeys), len(r.resourceKeys), r.doRepresentation)
}
