package pwngo

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// PackU8 returns the single-byte little-endian encoding of v.
func PackU8(v uint8) []byte { return []byte{v} }

// PackU16 returns the 2-byte little-endian encoding of v.
func PackU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// PackU32 returns the 4-byte little-endian encoding of v.
func PackU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// PackU64 returns the 8-byte little-endian encoding of v.
func PackU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// UnpackU8 reinterprets the leading byte of b. Callers must ensure b is
// non-empty; use UnpackU8Checked when the length is untrusted.
func UnpackU8(b []byte) uint8 { return b[0] }

// UnpackU16 reinterprets the leading 2 bytes of b as little-endian.
func UnpackU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// UnpackU32 reinterprets the leading 4 bytes of b as little-endian.
func UnpackU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// UnpackU64 reinterprets the leading 8 bytes of b as little-endian.
func UnpackU64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// UnpackU8Checked is the checked counterpart of UnpackU8: it fails unless
// len(b) == 1.
func UnpackU8Checked(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, errors.Wrap(ErrUnpackSize, "expected slice of len 1")
	}
	return UnpackU8(b), nil
}

// UnpackU16Checked is the checked counterpart of UnpackU16: it fails unless
// len(b) == 2.
func UnpackU16Checked(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, errors.Wrap(ErrUnpackSize, "expected slice of len 2")
	}
	return UnpackU16(b), nil
}

// UnpackU32Checked is the checked counterpart of UnpackU32: it fails unless
// len(b) == 4.
func UnpackU32Checked(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, errors.Wrap(ErrUnpackSize, "expected slice of len 4")
	}
	return UnpackU32(b), nil
}

// UnpackU64Checked is the checked counterpart of UnpackU64: it fails unless
// len(b) == 8.
func UnpackU64Checked(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrap(ErrUnpackSize, "expected slice of len 8")
	}
	return UnpackU64(b), nil
}
