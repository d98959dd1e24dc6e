// Package agent implements the Agent Manager (C4): creating and destroying
// agents against the Name Registry and a Transport backend, and caching
// the attributes each created agent was opened with.
package agent

import (
	"sync"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/sysinfo"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
	"github.com/agentwire/agentwire/pkg/transport"
)

// FlagNonBlocking is the single settable attribute bit after creation,
// mirroring O_NONBLOCK without leaking any particular OS's numeric value
// into this package: the transport backend maps it onto whatever the
// underlying primitive actually uses.
const FlagNonBlocking uint32 = 1 << 0

// Attributes describes how an agent's queue was created and is currently
// configured. MaxLocalQueue is stored only: the Manager never sets it and
// does not pass it to the transport, so it does not cap any cache (the
// solipsism backend's cap is Solipsism.MaxLocalQueue).
type Attributes struct {
	MaxCount      int
	MaxSize       int
	Blocking      bool
	MaxLocalQueue int
	Special       uint32
}

// Manager creates and destroys agents, caching their attributes and
// routing queue lifecycle calls through a bound Transport.
type Manager struct {
	mu sync.RWMutex

	reg *registry.Registry
	tr  *transport.Transport

	attrs map[wire.AgentKey]Attributes
}

// New binds reg and tr into a Manager.
func New(reg *registry.Registry, tr *transport.Transport) *Manager {
	return &Manager{
		reg:   reg,
		tr:    tr,
		attrs: make(map[wire.AgentKey]Attributes),
	}
}

// CreateAgent is the convenience overload: it discovers the kernel's
// current mqueue limits and uses them directly as this agent's maxima,
// creating a blocking queue.
func (mgr *Manager) CreateAgent(path string) (wire.AgentKey, error) {
	limits := sysinfo.Discover()
	return mgr.CreateAgentWithLimits(path, limits.MaxCount, limits.MaxSize, true)
}

// CreateAgentWithLimits creates path's queue with explicit maxCount/maxSize
// and blocking mode, rejecting maxSize over wire.Cap and any request that
// exceeds the system's discovered maxima.
func (mgr *Manager) CreateAgentWithLimits(path string, maxCount, maxSize int, blocking bool) (wire.AgentKey, error) {
	if maxSize > wire.Cap {
		xlog.Error("agent: maxSize exceeds wire cap", "path", path, "maxSize", maxSize)
		return wire.NotAnAgent, apierr.New(apierr.KindAgentLimitExceeded, "maxSize exceeds the wire body cap")
	}

	limits := sysinfo.Discover()
	if maxCount > limits.MaxCount || maxSize > limits.MaxSize {
		xlog.Error("agent: requested limits exceed system maxima", "path", path,
			"maxCount", maxCount, "maxSize", maxSize, "sysMaxCount", limits.MaxCount, "sysMaxSize", limits.MaxSize)
		return wire.NotAnAgent, apierr.New(apierr.KindAgentLimitExceeded, "requested limits exceed system maxima")
	}

	key := mgr.reg.DeclareAgent(path)
	err := mgr.tr.Backend().Open(key, path, transport.Attrs{
		MaxCount: maxCount,
		MaxSize:  maxSize,
		Blocking: blocking,
	})
	if err != nil {
		mgr.reg.ForgetAgent(key)
		return wire.NotAnAgent, err
	}

	mgr.mu.Lock()
	mgr.attrs[key] = Attributes{MaxCount: maxCount, MaxSize: maxSize, Blocking: blocking}
	mgr.mu.Unlock()
	return key, nil
}

// DestroyAgent closes and unlinks path's queue and forgets its key
// assignment. Unlink always runs, even if Close fails: a leaked
// descriptor must never block removing the queue's name, per the
// lifecycle's intended cleanup-on-best-effort semantics.
func (mgr *Manager) DestroyAgent(path string) error {
	key := mgr.reg.GetAgentKey(path)
	if key == wire.NotAnAgent {
		return apierr.New(apierr.KindUnknownRecipient, "destroyAgent: no such agent")
	}

	closeErr := mgr.tr.Backend().Close(key)
	if closeErr != nil {
		xlog.Error("agent: close failed, unlinking anyway", "path", path, "err", closeErr)
	}
	unlinkErr := mgr.tr.Backend().Unlink(key)

	mgr.mu.Lock()
	delete(mgr.attrs, key)
	mgr.mu.Unlock()
	mgr.reg.ForgetAgent(key)

	if unlinkErr != nil {
		return unlinkErr
	}
	return closeErr
}

// SetAttributes ORs specialFlags into the agent's special-flags word and,
// if flags includes FlagNonBlocking, masks it bitwise into the backend's
// blocking mode (a plain `&`, not a truthy `&&`, so any nonzero subset of
// the bit toggles exactly that bit and nothing else).
func (mgr *Manager) SetAttributes(key wire.AgentKey, flags, specialFlags uint32) error {
	mgr.mu.Lock()
	a := mgr.attrs[key]
	a.Special |= specialFlags
	if flags&FlagNonBlocking != 0 {
		a.Blocking = false
	}
	mgr.attrs[key] = a
	mgr.mu.Unlock()

	if flags&FlagNonBlocking != 0 {
		return mgr.tr.Backend().SetNonBlocking(key, true)
	}
	return nil
}

// UnsetAttributes ANDs specialFlags out of the agent's special-flags word
// and, if flags includes FlagNonBlocking, switches the backend back to
// blocking mode.
func (mgr *Manager) UnsetAttributes(key wire.AgentKey, flags, specialFlags uint32) error {
	mgr.mu.Lock()
	a := mgr.attrs[key]
	a.Special &^= specialFlags
	if flags&FlagNonBlocking != 0 {
		a.Blocking = true
	}
	mgr.attrs[key] = a
	mgr.mu.Unlock()

	if flags&FlagNonBlocking != 0 {
		return mgr.tr.Backend().SetNonBlocking(key, false)
	}
	return nil
}

// GetMaxBodySize returns the MaxSize this agent was created with, or 0 if
// key is unknown.
func (mgr *Manager) GetMaxBodySize(key wire.AgentKey) int {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.attrs[key].MaxSize
}

// GetPath returns the path key was declared under, or "".
func (mgr *Manager) GetPath(key wire.AgentKey) string {
	return mgr.reg.GetAgentPath(key)
}

// GetAttributes returns a copy of key's cached attributes.
func (mgr *Manager) GetAttributes(key wire.AgentKey) Attributes {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.attrs[key]
}
