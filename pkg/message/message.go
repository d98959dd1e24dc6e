// Package message is the representation-aware facade over internal/wire's
// mechanical TLV container: it is where Message Buffer (C2) operations
// that need the Name Registry (C1, for resource types and peer paths) and
// Representation (C3, for per-peer transforms) come together, plus
// extractInto/appendFrom's projection onto the external tabular store.
package message

import (
	"github.com/agentwire/agentwire/internal/registry"
	"github.com/agentwire/agentwire/internal/represent"
	"github.com/agentwire/agentwire/internal/tabledb"
	"github.com/agentwire/agentwire/internal/wire"
	"github.com/agentwire/agentwire/internal/xlog"
)

// Message is the wire-level TLV envelope. It is re-exported here so
// callers of this package never need to reach into internal/wire
// directly.
type Message = wire.Message

// New and NewVerb are re-exported constructors.
func New() Message             { return wire.New() }
func NewVerb(v wire.Verb) Message { return wire.NewVerb(v) }

// Codec binds a Registry so append/extract operations can consult resource
// types and peer paths without every call threading them through
// explicitly. A Codec has no per-message state and is safe for concurrent
// use by multiple goroutines handling distinct messages.
type Codec struct {
	reg *registry.Registry
}

// NewCodec binds reg to a new Codec.
func NewCodec(reg *registry.Registry) *Codec { return &Codec{reg: reg} }

// AppendInteger appends a 32-bit integer field, applying C3's outgoing
// transform (keyed off the message's Recipient path) first if
// representation is globally enabled.
func (c *Codec) AppendInteger(m *Message, key wire.ResourceKey, length int, v int32, maxBodySize int) error {
	if c.reg.DoRepresentation() {
		peer := c.reg.GetAgentPath(m.Recipient())
		t := c.reg.GetResourceType(key)
		v = represent.For(peer).Integer(v, t)
	}
	return m.AppendInteger(key, length, v, maxBodySize)
}

// AppendString appends a string/opaque/ipaddress field, applying C3's
// outgoing value transform first if representation is globally enabled.
func (c *Codec) AppendString(m *Message, key wire.ResourceKey, length int, value []byte, maxBodySize int) error {
	if !c.reg.DoRepresentation() {
		return m.Append(key, length, value, maxBodySize)
	}
	peer := c.reg.GetAgentPath(m.Recipient())
	t := c.reg.GetResourceType(key)
	var tmp [wire.LFieldMax]byte
	n := represent.For(peer).Value(tmp[:], wire.LFieldMax, value, t)
	return m.Append(key, n, tmp[:n], maxBodySize)
}

// ExtractInteger reads a 32-bit integer field, reapplying C3's transform
// (the same forward direction used by AppendInteger, keyed off the
// message's Recipient path) first if representation is globally enabled.
// A peer's representation canonicalizes rather than inverts: applying it
// twice with the same peer must settle into the canonical form, not round
// trip back to the original value.
func (c *Codec) ExtractInteger(m *Message, fieldStart int) int32 {
	v := m.ExtractInteger(fieldStart)
	if !c.reg.DoRepresentation() {
		return v
	}
	peer := c.reg.GetAgentPath(m.Recipient())
	t := c.reg.GetResourceType(m.GetResourceKey(fieldStart))
	return represent.For(peer).Integer(v, t)
}

// ExtractString reads a string-family field into dst, reapplying C3's
// value transform (keyed off the message's Recipient path) first if
// representation is globally enabled. Returns the number of bytes written.
func (c *Codec) ExtractString(m *Message, dst []byte, fieldStart int) int {
	if !c.reg.DoRepresentation() {
		return m.ExtractString(dst, fieldStart)
	}
	region, ok := m.GetFieldPointer(fieldStart)
	if !ok {
		return 0
	}
	peer := c.reg.GetAgentPath(m.Recipient())
	t := c.reg.GetResourceType(m.GetResourceKey(fieldStart))
	return represent.For(peer).Value(dst, len(dst), region, t)
}

// ExtractInto walks every field of m, grouping fields between RESOURCE_BANG
// sentinels (or start/end of body) into rows, and projects each field into
// db under tableName. The field whose key equals indexKey selects the
// current row index from its integer payload. The message's verb is
// recorded in the "verb" column for every row it touches. Returns the
// final walk offset.
func (c *Codec) ExtractInto(m *Message, db tabledb.Store, tableName string, indexKey wire.ResourceKey) int {
	row := 0
	off := 0
	for off < m.BodySize() {
		key := m.GetResourceKey(off)
		if key == wire.ResourceBang {
			off = m.GetNextFieldOffset(off)
			db.SetInteger(tableName, "verb", row, int32(m.Verb()))
			continue
		}
		if key == wire.NoMoreResources || key == wire.NotAResource {
			off = m.GetNextFieldOffset(off)
			continue
		}

		if key == indexKey {
			row = int(c.ExtractInteger(m, off))
			off = m.GetNextFieldOffset(off)
			continue
		}

		name := c.reg.GetResourceName(key)
		t := c.reg.GetResourceType(key)
		switch t {
		case wire.OctetStr, wire.Opaque, wire.IPAddress:
			region, ok := m.GetFieldPointer(off)
			if ok {
				var tmp [wire.LFieldMax]byte
				n := c.ExtractString(m, tmp[:], off)
				if n == 0 && len(region) > 0 {
					n = copy(tmp[:], region)
				}
				db.SetString(tableName, name, row, tmp[:n])
			}
		case wire.UnknownType:
			xlog.Debug("message: extractInto skipping unknown-type field", "key", key, "row", row)
		default:
			db.SetInteger(tableName, name, row, c.ExtractInteger(m, off))
		}
		db.SetInteger(tableName, "verb", row, int32(m.Verb()))
		off = m.GetNextFieldOffset(off)
	}
	return off
}

// AppendFrom iterates db[tableName]'s rows and, for each, sets m's verb
// from the "verb" column and appends the named columns as string or
// integer fields depending on which accessor reports the column present.
// Returns the final BodySize.
func (c *Codec) AppendFrom(m *Message, db tabledb.Store, tableName string, colNames []string, maxBodySize int) int {
	begin, end, step := db.Rows(tableName)
	if step <= 0 {
		step = 1
	}
	for row := begin; row <= end; row += step {
		if v, ok := db.GetInteger(tableName, "verb", row); ok {
			m.SetVerb(wire.Verb(v))
		}
		for _, col := range colNames {
			key := c.reg.GetResourceKey(col)
			if key == wire.NotAResource {
				continue
			}
			if s, ok := db.GetString(tableName, col, row); ok {
				_ = c.AppendString(m, key, len(s), s, maxBodySize)
				continue
			}
			if iv, ok := db.GetInteger(tableName, col, row); ok {
				_ = c.AppendInteger(m, key, 4, iv, maxBodySize)
			}
		}
	}
	return m.BodySize()
}
