// Package buf contains bounds-checked, allocation-free helpers for reading
// and writing the fixed-width little-endian fields that make up a wire
// message: resource keys, field lengths, and embedded 32-bit integers.
package buf

import (
	"encoding/binary"
	"math"
)

// AddOverflowSafe adds a and b, reporting ok=false if the result would
// overflow int. Used before any offset arithmetic derived from an
// attacker- or peer-controlled length.
func AddOverflowSafe(a, b int) (sum int, ok bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Slice returns b[off:off+n] if it fits within b, else ok=false.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is in bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// CheckedReadU32 reads a little-endian uint32 at off, bounds-checked.
func CheckedReadU32(b []byte, off int) (uint32, bool) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(s), true
}

// CheckedReadU64 reads a little-endian uint64 at off, bounds-checked.
func CheckedReadU64(b []byte, off int) (uint64, bool) {
	s, ok := Slice(b, off, 8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(s), true
}

// CheckedWriteU32 writes a little-endian uint32 at off, bounds-checked.
func CheckedWriteU32(b []byte, off int, v uint32) bool {
	s, ok := Slice(b, off, 4)
	if !ok {
		return false
	}
	binary.LittleEndian.PutUint32(s, v)
	return true
}

// CheckedWriteU64 writes a little-endian uint64 at off, bounds-checked.
func CheckedWriteU64(b []byte, off int, v uint64) bool {
	s, ok := Slice(b, off, 8)
	if !ok {
		return false
	}
	binary.LittleEndian.PutUint64(s, v)
	return true
}

// I32LE reads a little-endian int32 from the start of b. Returns 0 if b is
// too short, matching the teacher's zero-on-short-read convention for
// best-effort decodes where the caller has already bounds-checked length.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// PutI32LE writes v as a little-endian int32 into the start of dst.
// Returns false if dst is too short.
func PutI32LE(dst []byte, v int32) bool {
	if len(dst) < 4 {
		return false
	}
	binary.LittleEndian.PutUint32(dst, uint32(v))
	return true
}
