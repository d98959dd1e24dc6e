//go:build !linux

package transport

import (
	"time"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/wire"
)

// OSQueue is unavailable outside Linux: POSIX message queues are a
// Linux-specific mqueue filesystem feature with no portable equivalent.
// Every method that returns an error returns ErrNotSupported so callers
// fail fast instead of silently degrading; QueueCount, LocalCount and Flush
// return 0. Use Solipsism on these platforms.
type OSQueue struct{}

// NewOSQueue returns a stub backend whose methods all fail.
func NewOSQueue() *OSQueue { return &OSQueue{} }

// ErrNotSupported is returned by every error-returning OSQueue method on
// non-Linux platforms.
var ErrNotSupported = apierr.New(apierr.KindTransportFatal, "POSIX message queues are only supported on linux")

func (q *OSQueue) Open(key wire.AgentKey, path string, attrs Attrs) error { return ErrNotSupported }
func (q *OSQueue) Close(key wire.AgentKey) error                         { return ErrNotSupported }
func (q *OSQueue) Unlink(key wire.AgentKey) error                        { return ErrNotSupported }
func (q *OSQueue) Send(recipient wire.AgentKey, raw []byte) error        { return ErrNotSupported }

func (q *OSQueue) Receive(key wire.AgentKey, timeout time.Duration) (wire.Message, bool, error) {
	return wire.Message{}, false, ErrNotSupported
}

func (q *OSQueue) BlockingReceive(key wire.AgentKey) (wire.Message, error) {
	return wire.Message{}, ErrNotSupported
}

func (q *OSQueue) QueueCount(key wire.AgentKey) int { return 0 }
func (q *OSQueue) LocalCount(key wire.AgentKey) int { return 0 }
func (q *OSQueue) Flush(key wire.AgentKey) int      { return 0 }

func (q *OSQueue) SetNonBlocking(key wire.AgentKey, nonBlocking bool) error { return ErrNotSupported }
