// Package elfinfo is the external object-file collaborator the core tube
// and payload packages never import directly: a thin adapter that resolves
// symbol addresses and target architecture out of an ELF binary.
package elfinfo

import (
	"bytes"
	"debug/elf"

	"github.com/pkg/errors"
)

// Arch is the machine architecture tag surfaced to callers, independent of
// debug/elf's own (wider) elf.Machine enumeration.
type Arch int

const (
	AMD64 Arch = iota
	I386
	AARCH64
	ARM
	RISCV
)

func (a Arch) String() string {
	switch a {
	case AMD64:
		return "amd64"
	case I386:
		return "i386"
	case AARCH64:
		return "aarch64"
	case ARM:
		return "arm"
	case RISCV:
		return "riscv"
	default:
		return "unknown"
	}
}

// ErrUnsupportedArch is wrapped with the offending e_machine value.
var ErrUnsupportedArch = errors.New("elfinfo: unsupported architecture")

// ErrUnsupportedBitness is wrapped with the offending EI_CLASS value.
var ErrUnsupportedBitness = errors.New("elfinfo: unsupported bitness")

// Info is the {symbol table, architecture, bitness} triple Parse returns,
// for callers that need to resolve an address by name.
type Info struct {
	Symbols map[string]uint64
	Arch    Arch
	Bits    int
}

// Parse reads an ELF image from data and extracts the symbol table and
// architecture tag. Only value-carrying symbols (st_value != 0) are kept,
// matching the distilled spec's "symbol name to address" mapping.
func Parse(data []byte) (*Info, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "elfinfo: parse")
	}
	defer f.Close()

	arch, err := archOf(f.Machine)
	if err != nil {
		return nil, err
	}

	bits, err := bitsOf(f.Class)
	if err != nil {
		return nil, err
	}

	symbols := map[string]uint64{}
	collect := func(syms []elf.Symbol, err error) error {
		if err != nil {
			if errors.Is(err, elf.ErrNoSymbols) {
				return nil
			}
			return err
		}
		for _, s := range syms {
			if s.Value != 0 {
				symbols[s.Name] = s.Value
			}
		}
		return nil
	}

	if err := collect(f.Symbols()); err != nil {
		return nil, errors.Wrap(err, "elfinfo: symbols")
	}
	if err := collect(f.DynamicSymbols()); err != nil {
		return nil, errors.Wrap(err, "elfinfo: dynamic symbols")
	}

	return &Info{Symbols: symbols, Arch: arch, Bits: bits}, nil
}

func archOf(m elf.Machine) (Arch, error) {
	switch m {
	case elf.EM_386:
		return I386, nil
	case elf.EM_ARM:
		return ARM, nil
	case elf.EM_X86_64:
		return AMD64, nil
	case elf.EM_AARCH64:
		return AARCH64, nil
	case elf.EM_RISCV:
		return RISCV, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedArch, "e_machine=%d", m)
	}
}

func bitsOf(c elf.Class) (int, error) {
	switch c {
	case elf.ELFCLASS32:
		return 32, nil
	case elf.ELFCLASS64:
		return 64, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedBitness, "EI_CLASS=%d", c)
	}
}
