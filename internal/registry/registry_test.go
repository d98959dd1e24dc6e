package registry

import (
	"os"
	"strings"
	"testing"

	"github.com/agentwire/agentwire/internal/wire"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
/alpha
/beta
color OCTET_STR
count INTEGER
weird BOGUS_TYPE
`

func TestNameKeyBijection(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadFrom(strings.NewReader(sampleConfig)))

	for _, path := range []string{"/alpha", "/beta"} {
		k := r.GetAgentKey(path)
		require.NotEqual(t, wire.NotAnAgent, k)
		require.Equal(t, path, r.GetAgentPath(k))
	}
	for _, name := range []string{"color", "count"} {
		k := r.GetResourceKey(name)
		require.NotEqual(t, wire.NotAResource, k)
		require.Equal(t, name, r.GetResourceName(k))
	}
}

func TestUnknownTypeFallsBackToOpaque(t *testing.T) {
	r := New()
	require.NoError(t, r.LoadFrom(strings.NewReader(sampleConfig)))
	k := r.GetResourceKey("weird")
	require.Equal(t, wire.Opaque, r.GetResourceType(k))
}

func TestUnknownLookupsReturnSentinels(t *testing.T) {
	r := New()
	require.Equal(t, wire.NotAnAgent, r.GetAgentKey("/nope"))
	require.Equal(t, wire.NotAResource, r.GetResourceKey("nope"))
	require.Equal(t, wire.UnknownType, r.GetResourceType(999))
}

// A constant hash forces every declared name into the same starting slot,
// exercising the linear-probing collision path deterministically.
func constantHash(name string, lo, hi byte) uint32 { return 7 }

func TestHashCollisionResilience(t *testing.T) {
	r := New(WithHash(constantHash), WithKeySpace(16))
	kA := r.DeclareAgent("/a")
	kB := r.DeclareAgent("/b")
	require.NotEqual(t, kA, kB)
	require.Equal(t, "/a", r.GetAgentPath(kA))
	require.Equal(t, "/b", r.GetAgentPath(kB))

	k1 := r.DeclareResource("one", "INTEGER")
	k2 := r.DeclareResource("two", "INTEGER")
	require.NotEqual(t, k1, k2)
	require.Equal(t, "one", r.GetResourceName(k1))
	require.Equal(t, "two", r.GetResourceName(k2))
}

func TestHardCodedResourceKeys(t *testing.T) {
	r := New()
	k := r.DeclareResource("resourceName", "OCTET_STR")
	require.Equal(t, wire.MaxKey+1, k)
	k2 := r.DeclareResource("noMoreResources", "OCTET_STR")
	require.Equal(t, wire.MaxKey+2, k2)
}

func TestIdempotentInitialize(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/names.conf"
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	r := New()
	require.NoError(t, r.Initialize(path, false))
	before := snapshot(r)

	require.NoError(t, r.Initialize(path, true))
	after := snapshot(r)

	require.Equal(t, before, after)
	require.False(t, r.DoRepresentation(), "second Initialize must not change state")
}

func TestReDeclarationIsIdempotent(t *testing.T) {
	r := New()
	k1 := r.DeclareAgent("/same")
	k2 := r.DeclareAgent("/same")
	require.Equal(t, k1, k2)
}

func snapshot(r *Registry) map[string]wire.AgentKey {
	out := make(map[string]wire.AgentKey)
	for _, p := range r.AgentPaths() {
		out[p] = r.GetAgentKey(p)
	}
	return out
}
