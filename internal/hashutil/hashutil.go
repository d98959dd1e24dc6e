// Package hashutil provides the 32-bit name-hashing collaborator the name
// registry's key assignment depends on. The spec treats this digest
// function as an external collaborator touched only through a stated
// interface, so it is exposed here as an injectable function type rather
// than hard-wired into the registry: the registry's own collision
// resolution (linear probing) is the real engineering and is independent
// of which digest is plugged in.
package hashutil

import "hash/fnv"

// Hash32 computes a 32-bit digest of name. Bytes in the inclusive range
// [lo, hi] are remapped before being folded in; bytes outside the range are
// folded in as-is.
// This mirrors the reference registry's own hash32(name, lo, hi) contract.
type Hash32 func(name string, lo, hi byte) uint32

// Default is the stock Hash32 implementation. No example repo in the
// retrieved pack vendors a bounded 32-bit string-hash library, so this
// falls back to the standard library's hash/fnv (FNV-1a), which is a
// reasonable, well-understood default for a pluggable seam like this one.
func Default(name string, lo, hi byte) uint32 {
	h := fnv.New32a()
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= lo && c <= hi {
			c = c - lo + 1
		}
		_, _ = h.Write([]byte{c})
	}
	return h.Sum32()
}
