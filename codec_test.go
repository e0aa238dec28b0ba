package pwngo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	require.Equal(t, uint8(0xAB), UnpackU8(PackU8(0xAB)))
	require.Equal(t, uint16(0xBEEF), UnpackU16(PackU16(0xBEEF)))
	require.Equal(t, uint32(0xCAFEBABE), UnpackU32(PackU32(0xCAFEBABE)))
	require.Equal(t, uint64(0xDEADBEEFCAFEBEEF), UnpackU64(PackU64(0xDEADBEEFCAFEBEEF)))
}

func TestUnpackCheckedRejectsWrongLength(t *testing.T) {
	cases := []struct {
		name string
		fn   func([]byte) error
	}{
		{"u8", func(b []byte) error { _, err := UnpackU8Checked(b); return err }},
		{"u16", func(b []byte) error { _, err := UnpackU16Checked(b); return err }},
		{"u32", func(b []byte) error { _, err := UnpackU32Checked(b); return err }},
		{"u64", func(b []byte) error { _, err := UnpackU64Checked(b); return err }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Error(t, c.fn([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}))
			require.Error(t, c.fn(nil))
		})
	}

	u8, err := UnpackU8Checked([]byte{0x42})
	require.NoError(t, err)
	require.Equal(t, uint8(0x42), u8)

	u64, err := UnpackU64Checked(PackU64(0x1122334455667788))
	require.NoError(t, err)
	require.Equal(t, uint64(0x1122334455667788), u64)
}
