package transport

import (
	"sync"
	"time"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
)

// Solipsism is the in-process Backend (C6): send appends the message
// directly into the recipient's received_cache, bypassing any notion of an
// OS queue entirely, and receive pops from the front of that same list. It
// is the backend a process uses to talk to itself without any kernel
// involvement, and it is what the test suite exercises by default.
type Solipsism struct {
	mu sync.Mutex

	queues  map[wire.AgentKey][]wire.Message
	attrs   map[wire.AgentKey]Attrs
	waiters map[wire.AgentKey][]chan struct{}

	// MaxLocalQueue caps the number of messages retained per agent; 0
	// means unbounded. Exceeding it silently drops the oldest message,
	// mirroring the capped received_cache design note.
	MaxLocalQueue int
}

// NewSolipsism constructs an empty Solipsism backend.
func NewSolipsism() *Solipsism {
	return &Solipsism{
		queues:  make(map[wire.AgentKey][]wire.Message),
		attrs:   make(map[wire.AgentKey]Attrs),
		waiters: make(map[wire.AgentKey][]chan struct{}),
	}
}

func (s *Solipsism) Open(key wire.AgentKey, path string, attrs Attrs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attrs[key]; exists {
		return nil
	}
	s.attrs[key] = attrs
	s.queues[key] = nil
	return nil
}

func (s *Solipsism) Close(key wire.AgentKey) error {
	return nil
}

func (s *Solipsism) Unlink(key wire.AgentKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, key)
	delete(s.attrs, key)
	delete(s.waiters, key)
	return nil
}

func (s *Solipsism) Send(recipient wire.AgentKey, raw []byte) error {
	m, ok := wire.FromWireBytes(raw)
	if !ok {
		xlog.Error("solipsism: refusing malformed wire bytes on send")
		return apierr.New(apierr.KindTransportFatal, "malformed message")
	}

	s.mu.Lock()
	q := append(s.queues[recipient], m)
	if s.MaxLocalQueue > 0 && len(q) > s.MaxLocalQueue {
		q = q[len(q)-s.MaxLocalQueue:]
	}
	s.queues[recipient] = q
	waiters := s.waiters[recipient]
	s.waiters[recipient] = nil
	s.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
	return nil
}

func (s *Solipsism) pop(key wire.AgentKey) (wire.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[key]
	if len(q) == 0 {
		return wire.Message{}, false
	}
	m := q[0]
	s.queues[key] = q[1:]
	return m, true
}

func (s *Solipsism) Receive(key wire.AgentKey, timeout time.Duration) (wire.Message, bool, error) {
	if m, ok := s.pop(key); ok {
		return m, true, nil
	}
	if timeout <= 0 {
		return wire.Message{}, false, nil
	}

	ch := make(chan struct{})
	s.mu.Lock()
	s.waiters[key] = append(s.waiters[key], ch)
	s.mu.Unlock()

	select {
	case <-ch:
		m, ok := s.pop(key)
		return m, ok, nil
	case <-time.After(timeout):
		return wire.Message{}, false, nil
	}
}

func (s *Solipsism) BlockingReceive(key wire.AgentKey) (wire.Message, error) {
	for {
		if m, ok := s.pop(key); ok {
			return m, nil
		}
		ch := make(chan struct{})
		s.mu.Lock()
		s.waiters[key] = append(s.waiters[key], ch)
		s.mu.Unlock()
		<-ch
	}
}

func (s *Solipsism) QueueCount(key wire.AgentKey) int {
	return s.LocalCount(key)
}

func (s *Solipsism) LocalCount(key wire.AgentKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[key])
}

func (s *Solipsism) Flush(key wire.AgentKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.queues[key])
	s.queues[key] = nil
	return n
}

func (s *Solipsism) SetNonBlocking(key wire.AgentKey, nonBlocking bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.attrs[key]
	a.Blocking = !nonBlocking
	s.attrs[key] = a
	return nil
}
