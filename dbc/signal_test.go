package dbc

import (
	"testing"

	"github.com/candbc/canbus"
	"github.com/stretchr/testify/require"
)

// S6 - DBC big-endian cross-byte encode/decode.
func TestSignal_Motorola_CrossByte(t *testing.T) {
	sig := &Signal{Name: "A", StartBit: 12, Length: 12, BigEndian: true, Signed: false, Factor: 1, Offset: 0}

	data := make([]byte, 3)
	require.NoError(t, sig.Pack(data, 0xABC, 3))
	require.Equal(t, []byte{0xD5, 0x03, 0x00}, data)

	got, err := sig.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, float64(0xABC), got)
}

// S7 - signed negative encode.
func TestSignal_Signed_Negative(t *testing.T) {
	sig := &Signal{Name: "Val", StartBit: 0, Length: 8, BigEndian: false, Signed: true, Factor: 1, Offset: 0}

	data := make([]byte, 1)
	require.NoError(t, sig.Pack(data, -1, 1))
	require.Equal(t, byte(0xFF), data[0])

	got, err := sig.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, float64(-1), got)
}

// Invariant 7 - signed range rejection.
func TestSignal_SignedRangeRejection(t *testing.T) {
	sig := &Signal{Name: "Val", StartBit: 0, Length: 8, Signed: true, Factor: 1, Offset: 0}
	data := make([]byte, 1)

	require.NoError(t, sig.Pack(data, 127, 1))
	require.NoError(t, sig.Pack(data, -128, 1))

	err := sig.Pack(data, 128, 1)
	require.Error(t, err)
	kind, ok := canbus.KindOf(err)
	require.True(t, ok)
	require.Equal(t, canbus.KindSignalOutOfRange, kind)

	err = sig.Pack(data, -129, 1)
	require.Error(t, err)
}

func TestSignal_UnsignedRangeRejection(t *testing.T) {
	sig := &Signal{Name: "Val", StartBit: 0, Length: 8, Signed: false, Factor: 1, Offset: 0}
	data := make([]byte, 1)

	require.NoError(t, sig.Pack(data, 255, 1))

	err := sig.Pack(data, -1, 1)
	require.Error(t, err)
	kind, ok := canbus.KindOf(err)
	require.True(t, ok)
	require.Equal(t, canbus.KindSignalOutOfRange, kind)
}

func TestSignal_ExceedsMessage(t *testing.T) {
	sig := &Signal{Name: "Val", StartBit: 60, Length: 8, Factor: 1}
	data := make([]byte, 8)
	err := sig.Pack(data, 1, 8)
	require.Error(t, err)
	kind, ok := canbus.KindOf(err)
	require.True(t, ok)
	require.Equal(t, canbus.KindSignalExceedsMessage, kind)
}

// Decode with insufficient data propagates BitPositionOutOfBounds, per the
// tighter policy the design notes settle on.
func TestSignal_Unpack_InsufficientData(t *testing.T) {
	sig := &Signal{Name: "Val", StartBit: 0, Length: 16, Factor: 1}
	_, err := sig.Unpack(make([]byte, 1))
	require.Error(t, err)
	kind, ok := canbus.KindOf(err)
	require.True(t, ok)
	require.Equal(t, canbus.KindBitPositionOutOfBounds, kind)
}

// Intel (little-endian) round trip with scaling.
func TestSignal_Intel_RoundTrip_WithScaling(t *testing.T) {
	sig := &Signal{Name: "Temp", StartBit: 8, Length: 8, BigEndian: false, Signed: false, Factor: 0.5, Offset: 0}
	data := make([]byte, 2)
	require.NoError(t, sig.Pack(data, 20, 2))
	require.Equal(t, byte(40), data[1])

	got, err := sig.Unpack(data)
	require.NoError(t, err)
	require.Equal(t, float64(20), got)
}
