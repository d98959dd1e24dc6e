package represent

import (
	"fmt"
	"net"
)

// RepresentAsSnmpIPv4 parses a dotted-quad ASCII address from src into a
// packed 4-byte big-endian address at the start of dst, followed by a
// trailing NUL, and returns the number of bytes written (4 octets + 1).
// Returns 0 if src does not parse as an IPv4 address or dst is too small.
func RepresentAsSnmpIPv4(dst []byte, dstLen int, src []byte) int {
	addr := net.ParseIP(string(trimNUL(src))).To4()
	if addr == nil || dstLen < 5 || len(dst) < 5 {
		return 0
	}
	copy(dst[:4], addr)
	dst[4] = 0
	return 5
}

// RepresentAsInternalIPv4 expands a packed 4-byte big-endian address in src
// into dotted-quad ASCII (with a trailing NUL) in dst, returning the
// length written including the NUL.
func RepresentAsInternalIPv4(dst []byte, dstLen int, src []byte) int {
	if len(src) < 4 {
		return 0
	}
	s := fmt.Sprintf("%d.%d.%d.%d\x00", src[0], src[1], src[2], src[3])
	if len(s) > dstLen || len(s) > len(dst) {
		return 0
	}
	copy(dst, s)
	return len(s)
}

func trimNUL(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
