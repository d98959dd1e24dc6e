package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendExtractRoundTrip(t *testing.T) {
	m := New()
	require.NoError(t, m.Append(42, 5, []byte("hello"), Cap))
	var got [5]byte
	adv := m.Extract(got[:], 0)
	require.Equal(t, "hello", string(got[:]))
	require.Equal(t, fieldHeaderWidth+5, adv)
	require.Equal(t, adv, m.BodySize())
}

func TestWalkTerminates(t *testing.T) {
	m := New()
	require.NoError(t, m.Append(1, 3, []byte("abc"), Cap))
	require.NoError(t, m.Append(2, 2, []byte("xy"), Cap))
	require.NoError(t, m.AppendBang(Cap))

	total := 0
	steps := 0
	off := 0
	for off < m.BodySize() {
		next := m.GetNextFieldOffset(off)
		require.Greater(t, next, off)
		total += next - off
		off = next
		steps++
		require.Less(t, steps, 1000, "walk did not terminate")
	}
	require.Equal(t, m.BodySize(), total)
	require.Equal(t, NoMoreResources, m.GetResourceKey(m.BodySize()))
}

func TestOverflowInvariant(t *testing.T) {
	m := New()
	pre := m.BodySize()
	err := m.Append(1, 64, make([]byte, 64), 32)
	require.Error(t, err)
	require.Equal(t, pre, m.BodySize())
	require.False(t, m.IsValid())
}

func TestFieldTooLarge(t *testing.T) {
	m := New()
	err := m.Append(1, LFieldMax+1, make([]byte, LFieldMax+1), Cap)
	require.Error(t, err)
	require.Equal(t, 0, m.BodySize())
	require.True(t, m.IsValid())
}

func TestReserveAndConstrict(t *testing.T) {
	m := New()
	region, ok := m.Reserve(7, LFieldMax, Cap)
	require.True(t, ok)
	copy(region, []byte("short"))
	require.NoError(t, m.Constrict(LFieldMax, 5))
	require.Equal(t, 5, m.GetFieldSize(0))
}

func TestConstrictMismatch(t *testing.T) {
	m := New()
	_, ok := m.Reserve(7, 10, Cap)
	require.True(t, ok)
	err := m.Constrict(9, 5)
	require.Error(t, err)
	require.Equal(t, 10, m.GetFieldSize(0))
}

func TestEraseKeepsVerbAndValidity(t *testing.T) {
	m := NewVerb(Set)
	m.SetSender(3)
	m.SetRecipient(4)
	require.NoError(t, m.Append(1, 2, []byte("ab"), Cap))
	m.Erase()
	require.Equal(t, 0, m.BodySize())
	require.Equal(t, Set, m.Verb())
	require.EqualValues(t, 3, m.Sender())
	require.EqualValues(t, 4, m.Recipient())
	require.True(t, m.IsValid())
}

func TestWireBytesRoundTrip(t *testing.T) {
	m := NewVerb(Create)
	m.SetSender(1)
	m.SetRecipient(2)
	require.NoError(t, m.Append(5, 3, []byte("abc"), Cap))

	raw := m.WireBytes()
	decoded, ok := FromWireBytes(raw)
	require.True(t, ok)
	require.Equal(t, Create, decoded.Verb())
	require.EqualValues(t, 1, decoded.Sender())
	require.EqualValues(t, 2, decoded.Recipient())
	require.Equal(t, m.BodySize(), decoded.BodySize())
	require.Equal(t, m.Body(), decoded.Body())
}

func TestParseResourceTypeFallback(t *testing.T) {
	_, ok := ParseResourceType("not-a-type")
	require.False(t, ok)
	tt, ok := ParseResourceType("octet_str")
	require.True(t, ok)
	require.Equal(t, OctetStr, tt)
}
