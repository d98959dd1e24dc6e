package agentwire

import (
	"strings"
	"testing"

	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/tabledb"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/pkg/transport"
	"github.com/stretchr/testify/require"
)

const e2eConfig = `
/a
/b
color OCTET_STR
`

func newTestContext(t *testing.T) *Context {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.LoadFrom(strings.NewReader(e2eConfig)))
	return NewSolipsism(reg)
}

// S1: /a sends a SET with field color="blue" to /b; /b receives, reports
// verb=SET and extracts "blue" at offset 0.
func TestE2ESendReceive(t *testing.T) {
	ctx := newTestContext(t)
	a := ctx.Registry.GetAgentKey("/a")
	b := ctx.Registry.GetAgentKey("/b")
	require.NoError(t, ctx.Transport.Backend().Open(a, "/a", transport.Attrs{MaxCount: 1, MaxSize: wire.Cap}))
	require.NoError(t, ctx.Transport.Backend().Open(b, "/b", transport.Attrs{MaxCount: 1, MaxSize: wire.Cap}))

	color := ctx.Registry.GetResourceKey("color")
	m := wire.NewVerb(wire.Set)
	m.SetSender(a)
	m.SetRecipient(b)
	require.NoError(t, ctx.Codec.AppendString(&m, color, 4, []byte("blue"), wire.Cap))
	require.NoError(t, ctx.Transport.Send(&m))

	got, ok, err := ctx.Transport.Receive(b)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wire.Set, got.Verb())

	var dst [8]byte
	n := ctx.Codec.ExtractString(&got, dst[:], 0)
	require.Equal(t, "blue", string(dst[:n]))
}

// S2: with maxSize=32, appending a 64-byte value must leave bodySize=0 and
// isValid()=false.
func TestE2EOverflowInvalidatesMessage(t *testing.T) {
	ctx := newTestContext(t)
	color := ctx.Registry.GetResourceKey("color")

	m := wire.New()
	big := strings.Repeat("x", 64)
	err := ctx.Codec.AppendString(&m, color, len(big), []byte(big), 32)
	require.Error(t, err)
	require.Equal(t, 0, m.BodySize())
	require.False(t, m.IsValid())
}

// S3: a body [int idx=1, bang, int idx=2, bang] yields two rows in
// extractInto with row indices 1 and 2.
func TestE2EBangDelimitedRows(t *testing.T) {
	ctx := newTestContext(t)
	color := ctx.Registry.GetResourceKey("color")

	m := wire.New()
	require.NoError(t, ctx.Codec.AppendInteger(&m, color, 4, 1, wire.Cap))
	require.NoError(t, m.AppendBang(wire.Cap))
	require.NoError(t, ctx.Codec.AppendInteger(&m, color, 4, 2, wire.Cap))
	require.NoError(t, m.AppendBang(wire.Cap))

	db := tabledb.NewMemory()
	ctx.Codec.ExtractInto(&m, db, "rows", color)
	begin, end, _ := db.Rows("rows")
	require.Equal(t, 1, begin)
	require.Equal(t, 2, end)
}

// S5: populate the local queue with 5 messages; flush reports 5 and leaves
// it empty. Solipsism folds the OS-queue/local-cache split into a single
// list (see pkg/transport.Solipsism), so this is exercised as one combined
// count rather than 3+2 separately.
func TestE2EFlushDrainsEverything(t *testing.T) {
	ctx := newTestContext(t)
	a := ctx.Registry.GetAgentKey("/a")
	b := ctx.Registry.GetAgentKey("/b")
	require.NoError(t, ctx.Transport.Backend().Open(a, "/a", transport.Attrs{MaxCount: 5, MaxSize: wire.Cap}))
	require.NoError(t, ctx.Transport.Backend().Open(b, "/b", transport.Attrs{MaxCount: 5, MaxSize: wire.Cap}))

	for i := 0; i < 5; i++ {
		m := wire.NewVerb(wire.Set)
		m.SetSender(a)
		m.SetRecipient(b)
		require.NoError(t, ctx.Transport.Send(&m))
	}

	require.Equal(t, 5, ctx.Transport.Flush(b))
	require.Equal(t, 0, ctx.Transport.GetLocalQueueSize(b))
}
