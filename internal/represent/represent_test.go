package represent

import (
	"testing"

	"github.com/agentwire/agentwire/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestSnmpBooleanIsCanonicalized(t *testing.T) {
	snmp := For("/snmp")
	for _, i := range []int32{-5, 0, 1, 2, 7} {
		out := snmp.Integer(i, wire.Boolean)
		require.Contains(t, []int32{1, 2}, out)
		// A second forward pass stays within the canonical {TRUE,FALSE} set.
		out2 := snmp.Integer(out, wire.Boolean)
		require.Contains(t, []int32{1, 2}, out2)
	}
}

func TestSnmpObjectIDOffsets(t *testing.T) {
	snmp := For("/snmp")
	mux := For("/mux_manager")
	require.EqualValues(t, 6, snmp.Integer(5, wire.ObjectID))
	require.EqualValues(t, 4, mux.Integer(5, wire.ObjectID))
}

func TestSnmpOtherTypesPassThrough(t *testing.T) {
	snmp := For("/snmp")
	require.EqualValues(t, 42, snmp.Integer(42, wire.Counter))
}

func TestUnknownPeerPassesThrough(t *testing.T) {
	other := For("/unregistered-peer")
	require.EqualValues(t, 9, other.Integer(9, wire.Boolean))
}

func TestIPv4RoundTrip(t *testing.T) {
	var dst [8]byte
	n := RepresentAsSnmpIPv4(dst[:], 7, []byte("1.2.3.4"))
	require.Equal(t, 5, n)
	require.Equal(t, []byte{1, 2, 3, 4, 0}, dst[:5])

	var dst3 [16]byte
	n3 := RepresentAsInternalIPv4(dst3[:], 16, []byte{1, 2, 3, 4})
	require.Equal(t, "1.2.3.4\x00", string(dst3[:n3]))
}

func TestRegisterCustomPeer(t *testing.T) {
	Register("/custom", identityTransform{})
	require.EqualValues(t, 3, For("/custom").Integer(3, wire.ObjectID))
}
