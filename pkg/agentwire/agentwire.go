// Package agentwire is the root convenience package: it wires the Name
// Registry, Transport, Agent Manager, and Message Codec into a single
// Context, and keeps a process-wide default Context so simple callers
// don't need to thread one through explicitly — mirroring the "process-wide
// registry... with a convenience global for ergonomic parity" design note.
package agentwire

import (
	"sync"

	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/pkg/agent"
	"github.com/agentwire/agentwire/pkg/message"
	"github.com/agentwire/agentwire/pkg/transport"
)

// Context bundles every component an application needs to send, receive,
// and manage agents.
type Context struct {
	Registry  *registry.Registry
	Transport *transport.Transport
	Agents    *agent.Manager
	Codec     *message.Codec
}

// New loads configPath (DefaultConfigPath if empty) and constructs a fully
// wired Context backed by the given transport mode.
func New(configPath string, doRepresentation bool, mode transport.Mode) (*Context, error) {
	reg := registry.New()
	if err := reg.Initialize(configPath, doRepresentation); err != nil {
		return nil, err
	}
	return newContext(reg, mode), nil
}

// NewSolipsism is the convenience constructor for the common test/CLI-demo
// case: it wires an already-loaded reg into a Context backed by the
// in-process solipsism transport, with no filesystem config involved.
func NewSolipsism(reg *registry.Registry) *Context {
	return newContext(reg, transport.ModeSolipsism)
}

func newContext(reg *registry.Registry, mode transport.Mode) *Context {
	tr := transport.NewWithMode(reg, mode)
	return &Context{
		Registry:  reg,
		Transport: tr,
		Agents:    agent.New(reg, tr),
		Codec:     message.NewCodec(reg),
	}
}

var (
	defaultMu  sync.RWMutex
	defaultCtx *Context
)

// SetDefault installs ctx as the process-wide default Context.
func SetDefault(ctx *Context) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCtx = ctx
}

// Default returns the process-wide default Context, or nil if none has
// been installed via SetDefault.
func Default() *Context {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultCtx
}

// CreateAgent creates path against the default Context's Agent Manager.
func CreateAgent(path string) (wire.AgentKey, error) { return Default().Agents.CreateAgent(path) }

// DestroyAgent destroys path against the default Context's Agent Manager.
func DestroyAgent(path string) error { return Default().Agents.DestroyAgent(path) }

// Send sends m through the default Context's Transport.
func Send(m *wire.Message) error { return Default().Transport.Send(m) }

// Receive performs one non-blocking receive for key through the default
// Context's Transport.
func Receive(key wire.AgentKey) (wire.Message, bool, error) { return Default().Transport.Receive(key) }

// BlockingReceive waits indefinitely for the next message addressed to key
// through the default Context's Transport.
func BlockingReceive(key wire.AgentKey) (wire.Message, error) {
	return Default().Transport.BlockingReceive(key)
}
