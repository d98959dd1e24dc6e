package wire

import (
	"github.com/agentwire/agentwire/internal/apierr"
	"github.com/agentwire/agentwire/internal/buf"
	"github.com/agentwire/agentwire/internal/xlog"
)

// HeaderSize is the fixed size of the transmitted header, preceding the
// first BodySize() bytes of Body().
const HeaderSize = 4 + 4 + 4 + 8 + 1 // verb + sender + recipient + bodySize + valid

// Message is the fixed-size REST-inspired envelope: a verb, sender and
// recipient identity, and a TLV body. It is a plain value type (no heap
// indirection in its body), so it is trivially copyable and can be
// transmitted by value, matching the wire format's byte-for-byte layout.
type Message struct {
	verb      Verb
	sender    AgentKey
	recipient AgentKey
	bodySize  int
	valid     byte
	body      [Cap]byte
}

// New returns a fresh, valid, empty message with no sender/recipient set.
func New() Message {
	return Message{sender: NotAnAgent, recipient: NotAnAgent, valid: validMagic}
}

// NewVerb returns a fresh message with the given verb.
func NewVerb(v Verb) Message {
	m := New()
	m.verb = v
	return m
}

func (m *Message) Verb() Verb           { return m.verb }
func (m *Message) SetVerb(v Verb)       { m.verb = v }
func (m *Message) Sender() AgentKey      { return m.sender }
func (m *Message) SetSender(a AgentKey)  { m.sender = a }
func (m *Message) Recipient() AgentKey   { return m.recipient }
func (m *Message) SetRecipient(a AgentKey) { m.recipient = a }
func (m *Message) BodySize() int        { return m.bodySize }

// IsValid reports whether the message's valid byte still carries the
// canonical magic value.
func (m *Message) IsValid() bool { return m.valid == validMagic }

// Invalidate sets the valid byte to a value other than the magic; once
// invalidated, a message cannot be re-validated (only Erase resets it, and
// Erase does not touch valid).
func (m *Message) Invalidate() {
	if m.valid == validMagic {
		m.valid = validMagic + 1
	}
}

// Erase resets BodySize to 0, preserving Verb/Sender/Recipient/valid.
func (m *Message) Erase() {
	m.bodySize = 0
}

// Body returns the used prefix of the body buffer.
func (m *Message) Body() []byte { return m.body[:m.bodySize] }

// WireBytes returns the header followed by the used body prefix, i.e.
// exactly the bytes a transport should send.
func (m *Message) WireBytes() []byte {
	out := make([]byte, HeaderSize+m.bodySize)
	binPutHeader(out, m)
	copy(out[HeaderSize:], m.body[:m.bodySize])
	return out
}

// FromWireBytes decodes a Message previously produced by WireBytes.
func FromWireBytes(raw []byte) (Message, bool) {
	var m Message
	if len(raw) < HeaderSize {
		return m, false
	}
	if !binGetHeader(raw, &m) {
		return m, false
	}
	body := raw[HeaderSize:]
	if m.bodySize < 0 || m.bodySize > len(body) || m.bodySize > Cap {
		return m, false
	}
	copy(m.body[:m.bodySize], body[:m.bodySize])
	return m, true
}

func binPutHeader(dst []byte, m *Message) {
	buf.CheckedWriteU32(dst, 0, uint32(m.verb))
	buf.CheckedWriteU32(dst, 4, uint32(m.sender))
	buf.CheckedWriteU32(dst, 8, uint32(m.recipient))
	buf.CheckedWriteU64(dst, 12, uint64(m.bodySize))
	dst[20] = m.valid
}

func binGetHeader(src []byte, m *Message) bool {
	v, ok := buf.CheckedReadU32(src, 0)
	if !ok {
		return false
	}
	s, ok := buf.CheckedReadU32(src, 4)
	if !ok {
		return false
	}
	r, ok := buf.CheckedReadU32(src, 8)
	if !ok {
		return false
	}
	bs, ok := buf.CheckedReadU64(src, 12)
	if !ok {
		return false
	}
	m.verb = Verb(v)
	m.sender = AgentKey(s)
	m.recipient = AgentKey(r)
	m.bodySize = int(bs)
	m.valid = src[20]
	return true
}

// Append writes a (key, length, value) field at the current end of the
// body, provided length does not exceed LFieldMax and the resulting
// BodySize does not exceed maxBodySize (the recipient's cap, supplied by
// the caller since Message itself has no notion of agents).
func (m *Message) Append(key ResourceKey, length int, value []byte, maxBodySize int) error {
	if length > LFieldMax {
		xlog.Error("wire: field too large", "key", key, "length", length, "max", LFieldMax)
		return apierr.New(apierr.KindFieldTooLarge, "field length exceeds L_FIELD_MAX")
	}
	need := fieldHeaderWidth + length
	pre := m.bodySize
	dst, ok := buf.Slice(m.body[:], pre, need)
	if !ok {
		return m.overflow(pre, maxBodySize)
	}
	buf.CheckedWriteU32(dst, 0, uint32(key))
	buf.CheckedWriteU64(dst, keyWidth, uint64(length))
	copy(dst[fieldHeaderWidth:], value[:min(length, len(value))])
	m.bodySize = pre + need

	if m.bodySize > maxBodySize || m.bodySize > Cap {
		return m.overflow(pre, maxBodySize)
	}
	return nil
}

func (m *Message) overflow(preBodySize, maxBodySize int) error {
	m.bodySize = preBodySize
	m.Invalidate()
	xlog.Error("wire: body overflow", "maxBodySize", maxBodySize)
	return apierr.New(apierr.KindBodyOverflow, "append would exceed recipient body cap")
}

// AppendBang appends a zero-length RESOURCE_BANG field, used as a
// row/record terminator by extractInto.
func (m *Message) AppendBang(maxBodySize int) error {
	return m.Append(ResourceBang, 0, nil, maxBodySize)
}

// Reserve writes a field header declaring length bytes of value and
// advances BodySize, returning a slice over the (as yet unfilled) value
// region for the caller to populate in place. Returns ok=false, leaving
// the message unchanged, if the new BodySize would reach or exceed
// maxBodySize; unlike Append, Reserve refuses to fill the body's last byte.
func (m *Message) Reserve(key ResourceKey, length int, maxBodySize int) (region []byte, ok bool) {
	need := fieldHeaderWidth + length
	pre := m.bodySize
	dst, sliceOK := buf.Slice(m.body[:], pre, need)
	if !sliceOK {
		return nil, false
	}
	newSize := pre + need
	if newSize >= maxBodySize || newSize >= Cap {
		return nil, false
	}
	buf.CheckedWriteU32(dst, 0, uint32(key))
	buf.CheckedWriteU64(dst, keyWidth, uint64(length))
	m.bodySize = newSize
	return dst[fieldHeaderWidth:], true
}

// Constrict rewrites the declared length of the last field in the message
// from oldLength to newLength. It verifies the field's current declared
// length equals oldLength; otherwise it logs and is a no-op. Constrict
// changes only the declared length, not BodySize: callers must only use it
// to shrink a field immediately after Reserve, before any further Append,
// or subsequent appends will be computed against stale bytes.
func (m *Message) Constrict(oldLength, newLength int) error {
	lastStart := m.bodySize - oldLength - fieldHeaderWidth
	if lastStart < 0 {
		xlog.Error("wire: constrict mismatch", "oldLength", oldLength)
		return apierr.New(apierr.KindConstrictMismatch, "no field of declared oldLength at message end")
	}
	declared, ok := buf.CheckedReadU64(m.body[:], lastStart+keyWidth)
	if !ok || int(declared) != oldLength {
		xlog.Error("wire: constrict mismatch", "declared", declared, "oldLength", oldLength)
		return apierr.New(apierr.KindConstrictMismatch, "declared length does not match oldLength")
	}
	buf.CheckedWriteU64(m.body[:], lastStart+keyWidth, uint64(newLength))
	return nil
}

