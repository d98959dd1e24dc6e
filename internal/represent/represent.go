// Package represent implements the per-peer representation transform
// applied to integer and IPv4-address payloads during append/extract. The
// two hard-coded peers from the spec ("/snmp", "/mux_manager") are kept as
// the default Transforms, but registration is pluggable per the design
// note that a robust reimplementation should not switch on path strings
// throughout the codebase.
package represent

import (
	"sync"

	"github.com/agentwire/agentwire/internal/wire"
)

// Transform converts values to and from a peer's expected wire
// representation. The same forward direction is used for both append and
// extract: a peer's representation is a property of the peer, not of which
// way the byte is currently travelling, so applying Integer/Value twice
// with the same peer must canonicalize rather than round-trip.
type Transform interface {
	// Integer transforms i (of the given resource type) for traffic to or
	// from this peer.
	Integer(i int32, t wire.ResourceType) int32
	// Value transforms src (of the given resource type) for traffic to or
	// from this peer, writing into dst (capacity dstLen) and returning the
	// number of bytes written.
	Value(dst []byte, dstLen int, src []byte, t wire.ResourceType) int
}

var (
	mu         sync.RWMutex
	byPeerPath = map[string]Transform{
		"/snmp":        snmpTransform{},
		"/mux_manager": muxManagerTransform{},
	}
	passthrough Transform = identityTransform{}
)

// Register installs t as the Transform used for peer. Existing
// registrations for the same path are replaced.
func Register(peerPath string, t Transform) {
	mu.Lock()
	defer mu.Unlock()
	byPeerPath[peerPath] = t
}

// For returns the Transform registered for peerPath, or a no-op
// passthrough Transform if none was registered.
func For(peerPath string) Transform {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := byPeerPath[peerPath]; ok {
		return t
	}
	return passthrough
}

type identityTransform struct{}

func (identityTransform) Integer(i int32, _ wire.ResourceType) int32 { return i }
func (identityTransform) Value(dst []byte, dstLen int, src []byte, _ wire.ResourceType) int {
	return copyClamped(dst, dstLen, src)
}

func copyClamped(dst []byte, dstLen int, src []byte) int {
	n := len(src)
	if n > dstLen {
		n = dstLen
	}
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst, src[:n])
	return n
}

const (
	snmpTrue  = 1
	snmpFalse = 2
)

type snmpTransform struct{ identityTransform }

func (snmpTransform) Integer(i int32, t wire.ResourceType) int32 {
	switch t {
	case wire.Boolean:
		if i != 0 {
			return snmpTrue
		}
		return snmpFalse
	case wire.ObjectID:
		return i + 1
	default:
		return i
	}
}

func (snmpTransform) Value(dst []byte, dstLen int, src []byte, t wire.ResourceType) int {
	if t == wire.IPAddress {
		return RepresentAsSnmpIPv4(dst, dstLen, src)
	}
	return copyClamped(dst, dstLen, src)
}

type muxManagerTransform struct{ identityTransform }

func (muxManagerTransform) Integer(i int32, t wire.ResourceType) int32 {
	switch t {
	case wire.Boolean:
		if i == 1 {
			return 1
		}
		return 0
	case wire.ObjectID:
		return i - 1
	default:
		return i
	}
}

func (muxManagerTransform) Value(dst []byte, dstLen int, src []byte, t wire.ResourceType) int {
	if t == wire.IPAddress {
		return RepresentAsInternalIPv4(dst, dstLen, src)
	}
	return copyClamped(dst, dstLen, src)
}
