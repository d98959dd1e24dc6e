package wire

import "github.com/agentwire/agentwire/internal/buf"

// GetResourceKey reads the key at fieldStart. Returns NoMoreResources if
// fieldStart leaves less than a key's width before BodySize. Any stored key
// strictly greater than NoMoreResources is normalized to NotAResource.
func (m *Message) GetResourceKey(fieldStart int) ResourceKey {
	if fieldStart+keyWidth > m.bodySize {
		return NoMoreResources
	}
	raw, ok := buf.CheckedReadU32(m.body[:m.bodySize], fieldStart)
	if !ok {
		return NoMoreResources
	}
	key := ResourceKey(raw)
	if key > NoMoreResources {
		return NotAResource
	}
	return key
}

// GetFieldSize reads the declared length at fieldStart. Returns 0 if out
// of range.
func (m *Message) GetFieldSize(fieldStart int) int {
	v, ok := buf.CheckedReadU64(m.body[:m.bodySize], fieldStart+keyWidth)
	if !ok {
		return 0
	}
	return int(v)
}

// GetFieldPointer returns the value region for the field at fieldStart, or
// ok=false if out of range.
func (m *Message) GetFieldPointer(fieldStart int) (region []byte, ok bool) {
	length := m.GetFieldSize(fieldStart)
	return buf.Slice(m.body[:m.bodySize], fieldStart+fieldHeaderWidth, length)
}

// GetNextFieldOffset returns fieldStart advanced past the field's header
// and value, clamped to BodySize if that would land at or past the end.
func (m *Message) GetNextFieldOffset(fieldStart int) int {
	length := m.GetFieldSize(fieldStart)
	next, ok := buf.AddOverflowSafe(fieldStart+fieldHeaderWidth, length)
	if !ok || next >= m.bodySize {
		return m.bodySize
	}
	return next
}

// IsBang reports whether the field at fieldStart carries the RESOURCE_BANG
// sentinel key.
func (m *Message) IsBang(fieldStart int) bool {
	return m.GetResourceKey(fieldStart) == ResourceBang
}

// Extract copies the field's value bytes into dst and returns the number
// of bytes the walk should advance by (header + value width).
func (m *Message) Extract(dst []byte, fieldStart int) int {
	length := m.GetFieldSize(fieldStart)
	region, ok := m.GetFieldPointer(fieldStart)
	if ok {
		copy(dst, region[:min(length, len(dst))])
	}
	return fieldHeaderWidth + length
}

// AppendInteger appends a raw (non-representation-transformed) 32-bit
// integer field. Callers needing peer representation apply it before
// calling this (see pkg/message).
func (m *Message) AppendInteger(key ResourceKey, length int, v int32, maxBodySize int) error {
	var tmp [4]byte
	buf.PutI32LE(tmp[:], v)
	return m.Append(key, length, tmp[:min(length, 4)], maxBodySize)
}

// ExtractInteger reads a raw 32-bit integer field at fieldStart.
func (m *Message) ExtractInteger(fieldStart int) int32 {
	region, ok := m.GetFieldPointer(fieldStart)
	if !ok {
		return 0
	}
	return buf.I32LE(region)
}

// ExtractString copies or truncates the field's value into dst, returning
// the number of bytes written.
func (m *Message) ExtractString(dst []byte, fieldStart int) int {
	region, ok := m.GetFieldPointer(fieldStart)
	if !ok {
		return 0
	}
	n := min(len(region), len(dst))
	copy(dst, region[:n])
	return n
}
