// Package transport implements the send/receive protocol (C5) against a
// pluggable Backend, and the solipsism in-process backend (C6) that
// satisfies the same interface. Exactly one small interface is swapped to
// change transport entirely, mirroring the teacher's own
// internal/writer.Writer FileWriter/MemWriter split.
package transport

import (
	"time"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
)

// PollTimeout is the built-in timeout for the non-blocking Receive, per
// the send/receive protocol design.
const PollTimeout = 50 * time.Nanosecond

// Attrs are the queue attributes a Backend must honor on Open/SetNonBlocking.
type Attrs struct {
	MaxCount int
	MaxSize  int
	Blocking bool
}

// Backend is the minimal capability a message-queue primitive (or its
// in-process simulation) must provide. It owns both the underlying queue
// (if any) and the per-agent received-message cache: the two modes differ
// in exactly how Send/Receive interact with that cache, so the cache can't
// be hoisted into a mode-independent layer above Backend.
type Backend interface {
	Open(key wire.AgentKey, path string, attrs Attrs) error
	Close(key wire.AgentKey) error
	Unlink(key wire.AgentKey) error

	Send(recipient wire.AgentKey, raw []byte) error
	// Receive performs a single timed (possibly zero-timeout) receive
	// attempt, returning ok=false (no error) if nothing was available
	// within timeout.
	Receive(key wire.AgentKey, timeout time.Duration) (wire.Message, bool, error)
	BlockingReceive(key wire.AgentKey) (wire.Message, error)

	// QueueCount reports messages sitting in the OS queue (or, for
	// solipsism, the simulated equivalent).
	QueueCount(key wire.AgentKey) int
	// LocalCount reports messages held in the local received-cache.
	LocalCount(key wire.AgentKey) int
	// Flush drains the OS queue (if any) non-blockingly and clears the
	// local cache, returning the total count drained.
	Flush(key wire.AgentKey) int

	SetNonBlocking(key wire.AgentKey, nonBlocking bool) error
}

// Transport is the send/receive protocol layered over a Backend, adding
// sender/recipient validation against the Name Registry.
type Transport struct {
	reg     *registry.Registry
	backend Backend
}

// Mode selects which Backend NewWithMode constructs, so callers can switch
// transports entirely by changing one value instead of branching.
type Mode int

const (
	// ModeOSQueue backs the transport with real POSIX message queues
	// (Linux only; ErrNotSupported elsewhere).
	ModeOSQueue Mode = iota
	// ModeSolipsism backs the transport with the in-process simulation.
	ModeSolipsism
)

// New binds reg and backend into a Transport.
func New(reg *registry.Registry, backend Backend) *Transport {
	return &Transport{reg: reg, backend: backend}
}

// NewWithMode constructs a Transport backed by the Backend mode selects,
// so picking OS queues vs. solipsism never requires the caller to branch
// anywhere else.
func NewWithMode(reg *registry.Registry, mode Mode) *Transport {
	var backend Backend
	switch mode {
	case ModeSolipsism:
		backend = NewSolipsism()
	default:
		backend = NewOSQueue()
	}
	return New(reg, backend)
}

// Backend exposes the bound backend, mainly so pkg/agent can route
// Open/Close/Unlink/SetNonBlocking calls through the same instance.
func (t *Transport) Backend() Backend { return t.backend }

// Send pushes header+body to the recipient's queue, failing if either the
// sender or recipient key is unknown to the registry.
func (t *Transport) Send(m *wire.Message) error {
	if t.reg.GetAgentPath(m.Sender()) == "" {
		xlog.Error("transport: unknown sender", "sender", m.Sender())
		return apierr.New(apierr.KindUnknownSender, "send: sender key is not registered")
	}
	if t.reg.GetAgentPath(m.Recipient()) == "" {
		xlog.Error("transport: unknown recipient", "recipient", m.Recipient())
		return apierr.New(apierr.KindUnknownRecipient, "send: recipient key is not registered")
	}
	if err := t.backend.Send(m.Recipient(), m.WireBytes()); err != nil {
		xlog.Error("transport: send failed", "recipient", m.Recipient(), "err", err)
		return apierr.Wrap(apierr.KindTransportFatal, "send failed", err)
	}
	return nil
}

// Receive performs one non-blocking, timed receive attempt for key.
// Returns ok=false with a nil error if nothing was available — the
// TransportEmpty disposition is not logged and is not an error.
func (t *Transport) Receive(key wire.AgentKey) (wire.Message, bool, error) {
	m, ok, err := t.backend.Receive(key, PollTimeout)
	if err != nil {
		xlog.Error("transport: receive error", "key", key, "err", err)
		return wire.Message{}, false, apierr.Wrap(apierr.KindTransportFatal, "receive failed", err)
	}
	return m, ok, nil
}

// BlockingReceive waits indefinitely for the next message addressed to key.
func (t *Transport) BlockingReceive(key wire.AgentKey) (wire.Message, error) {
	m, err := t.backend.BlockingReceive(key)
	if err != nil {
		xlog.Error("transport: blocking receive error", "key", key, "err", err)
		return wire.Message{}, apierr.Wrap(apierr.KindTransportFatal, "blocking receive failed", err)
	}
	return m, nil
}

// GetReceivedCount refreshes and returns the number of messages currently
// sitting in key's OS queue, or 0 if key is unknown.
func (t *Transport) GetReceivedCount(key wire.AgentKey) int {
	if t.reg.GetAgentPath(key) == "" {
		return 0
	}
	return t.backend.QueueCount(key)
}

// GetLocalQueueSize reports the number of messages held in key's local
// received-cache.
func (t *Transport) GetLocalQueueSize(key wire.AgentKey) int {
	return t.backend.LocalCount(key)
}

// Flush drains key's OS queue non-blockingly and clears its local cache,
// returning the total count drained.
func (t *Transport) Flush(key wire.AgentKey) int {
	return t.backend.Flush(key)
}
