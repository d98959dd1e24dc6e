package agent

import (
	"testing"

	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/pkg/transport"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	reg := registry.New()
	tr := transport.New(reg, transport.NewSolipsism())
	return New(reg, tr)
}

func TestCreateAgentAssignsKey(t *testing.T) {
	mgr := newManager(t)
	key, err := mgr.CreateAgentWithLimits("/worker", 5, 4096, true)
	require.NoError(t, err)
	require.NotEqual(t, wire.NotAnAgent, key)
	require.Equal(t, "/worker", mgr.GetPath(key))
	require.Equal(t, 4096, mgr.GetMaxBodySize(key))
}

func TestCreateAgentRejectsOversizedMax(t *testing.T) {
	mgr := newManager(t)
	_, err := mgr.CreateAgentWithLimits("/worker", 5, wire.Cap+1, true)
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.KindAgentLimitExceeded))
}

func TestCreateAgentRejectsExceedingSystemMaxima(t *testing.T) {
	mgr := newManager(t)
	_, err := mgr.CreateAgentWithLimits("/worker", 1_000_000, 4096, true)
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.KindAgentLimitExceeded))
}

func TestDestroyAgentForgetsKey(t *testing.T) {
	mgr := newManager(t)
	key, err := mgr.CreateAgentWithLimits("/worker", 5, 4096, true)
	require.NoError(t, err)

	require.NoError(t, mgr.DestroyAgent("/worker"))
	require.Equal(t, "", mgr.GetPath(key))
	require.Equal(t, 0, mgr.GetMaxBodySize(key))
}

func TestDestroyUnknownAgentFails(t *testing.T) {
	mgr := newManager(t)
	err := mgr.DestroyAgent("/nope")
	require.Error(t, err)
}

func TestSetAttributesTogglesNonBlockingBit(t *testing.T) {
	mgr := newManager(t)
	key, err := mgr.CreateAgentWithLimits("/worker", 5, 4096, true)
	require.NoError(t, err)

	require.NoError(t, mgr.SetAttributes(key, FlagNonBlocking, 0))
	require.False(t, mgr.GetAttributes(key).Blocking)

	require.NoError(t, mgr.UnsetAttributes(key, FlagNonBlocking, 0))
	require.True(t, mgr.GetAttributes(key).Blocking)
}

func TestSetAttributesSpecialFlagsAreIndependentOfBlocking(t *testing.T) {
	mgr := newManager(t)
	key, err := mgr.CreateAgentWithLimits("/worker", 5, 4096, true)
	require.NoError(t, err)

	require.NoError(t, mgr.SetAttributes(key, 0, 0x4))
	require.Equal(t, uint32(0x4), mgr.GetAttributes(key).Special)
	require.True(t, mgr.GetAttributes(key).Blocking, "special flags must not touch blocking mode")

	require.NoError(t, mgr.UnsetAttributes(key, 0, 0x4))
	require.Equal(t, uint32(0), mgr.GetAttributes(key).Special)
}
