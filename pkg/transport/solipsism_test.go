package transport

import (
	"testing"
	"time"

	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T) (*Transport, *registry.Registry, wire.AgentKey, wire.AgentKey) {
	t.Helper()
	reg := registry.New()
	a := reg.DeclareAgent("/a")
	b := reg.DeclareAgent("/b")

	backend := NewSolipsism()
	require.NoError(t, backend.Open(a, "/a", Attrs{MaxCount: 5, MaxSize: wire.Cap, Blocking: false}))
	require.NoError(t, backend.Open(b, "/b", Attrs{MaxCount: 5, MaxSize: wire.Cap, Blocking: false}))

	return New(reg, backend), reg, a, b
}

func TestSendThenReceiveRoundTrip(t *testing.T) {
	tr, _, a, b := newTestTransport(t)

	m := wire.NewVerb(wire.Set)
	m.SetSender(a)
	m.SetRecipient(b)
	require.NoError(t, tr.Send(&m))

	got, ok, err := tr.Receive(b)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wire.Set, got.Verb())
	require.Equal(t, a, got.Sender())
}

func TestReceiveEmptyIsNotAnError(t *testing.T) {
	tr, _, _, b := newTestTransport(t)

	_, ok, err := tr.Receive(b)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSendUnknownRecipientFails(t *testing.T) {
	tr, _, a, _ := newTestTransport(t)

	m := wire.NewVerb(wire.Get)
	m.SetSender(a)
	m.SetRecipient(wire.AgentKey(999999))
	require.Error(t, tr.Send(&m))
}

func TestFlushClearsLocalQueue(t *testing.T) {
	tr, _, a, b := newTestTransport(t)

	for i := 0; i < 3; i++ {
		m := wire.NewVerb(wire.Set)
		m.SetSender(a)
		m.SetRecipient(b)
		require.NoError(t, tr.Send(&m))
	}
	require.Equal(t, 3, tr.GetLocalQueueSize(b))
	require.Equal(t, 3, tr.Flush(b))
	require.Equal(t, 0, tr.GetLocalQueueSize(b))
}

func TestBlockingReceiveWaitsForSend(t *testing.T) {
	tr, _, a, b := newTestTransport(t)

	done := make(chan wire.Message, 1)
	go func() {
		m, err := tr.BlockingReceive(b)
		require.NoError(t, err)
		done <- m
	}()

	time.Sleep(10 * time.Millisecond)
	m := wire.NewVerb(wire.Create)
	m.SetSender(a)
	m.SetRecipient(b)
	require.NoError(t, tr.Send(&m))

	select {
	case got := <-done:
		require.Equal(t, wire.Create, got.Verb())
	case <-time.After(2 * time.Second):
		t.Fatal("blocking receive never returned")
	}
}

func TestMaxLocalQueueCapsRetainedMessages(t *testing.T) {
	reg := registry.New()
	a := reg.DeclareAgent("/a")
	b := reg.DeclareAgent("/b")
	backend := NewSolipsism()
	backend.MaxLocalQueue = 2
	require.NoError(t, backend.Open(a, "/a", Attrs{MaxCount: 5, MaxSize: wire.Cap}))
	require.NoError(t, backend.Open(b, "/b", Attrs{MaxCount: 5, MaxSize: wire.Cap}))
	tr := New(reg, backend)

	for i := 0; i < 5; i++ {
		m := wire.NewVerb(wire.Set)
		m.SetSender(a)
		m.SetRecipient(b)
		require.NoError(t, tr.Send(&m))
	}
	require.Equal(t, 2, tr.GetLocalQueueSize(b))
}
