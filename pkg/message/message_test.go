package message

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/tabledb"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/stretchr/testify/require"
)

const cfg = `
/snmp
/local
color OCTET_STR
flag BOOLEAN
oid OBJECT_ID
`

func newCodec(t *testing.T, doRepresentation bool) (*Codec, *registry.Registry) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.conf")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	reg := registry.New()
	require.NoError(t, reg.Initialize(path, doRepresentation))
	return NewCodec(reg), reg
}

func TestAppendExtractStringRoundTrip(t *testing.T) {
	c, reg := newCodec(t, false)
	m := NewVerb(wire.Set)
	m.SetSender(reg.GetAgentKey("/local"))
	m.SetRecipient(reg.GetAgentKey("/local"))

	key := reg.GetResourceKey("color")
	require.NoError(t, c.AppendString(&m, key, 4, []byte("blue"), wire.Cap))

	var dst [8]byte
	n := c.ExtractString(&m, dst[:], 0)
	require.Equal(t, "blue", string(dst[:n]))
}

func TestRepresentationAppliedOnSnmpPeer(t *testing.T) {
	c, reg := newCodec(t, true)
	m := NewVerb(wire.Set)
	m.SetSender(reg.GetAgentKey("/local"))
	m.SetRecipient(reg.GetAgentKey("/snmp"))

	oid := reg.GetResourceKey("oid")
	require.NoError(t, c.AppendInteger(&m, oid, 4, 5, wire.Cap))

	raw := m.ExtractInteger(0)
	require.EqualValues(t, 6, raw, "outgoing OBJECT_ID to /snmp should be +1 on the wire")
}

func TestExtractIntoBangDelimitedRows(t *testing.T) {
	c, reg := newCodec(t, false)
	m := NewVerb(wire.Set)
	idx := reg.GetResourceKey("flag")

	require.NoError(t, c.AppendInteger(&m, idx, 4, 1, wire.Cap))
	require.NoError(t, m.AppendBang(wire.Cap))
	require.NoError(t, c.AppendInteger(&m, idx, 4, 2, wire.Cap))
	require.NoError(t, m.AppendBang(wire.Cap))

	db := tabledb.NewMemory()
	c.ExtractInto(&m, db, "t", idx)

	begin, end, _ := db.Rows("t")
	require.Equal(t, 1, begin)
	require.Equal(t, 2, end)
}

func TestAppendFromRoundTrip(t *testing.T) {
	c, reg := newCodec(t, false)
	db := tabledb.NewMemory()
	db.SetString("t", "color", 0, []byte("red"))
	db.SetInteger("t", "verb", 0, int32(wire.Create))

	m := New()
	colorKey := reg.GetResourceKey("color")
	_ = colorKey
	c.AppendFrom(&m, db, "t", []string{"color"}, wire.Cap)
	require.Equal(t, wire.Create, m.Verb())

	var dst [8]byte
	n := c.ExtractString(&m, dst[:], 0)
	require.Equal(t, "red", string(dst[:n]))
}
