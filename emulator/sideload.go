package emulator

import (
	"encoding/binary"
	"fmt"
)

const (
	exeMagic        = "PS-X EXE"
	exeHeaderSize   = 0x800
	shellEntryPoint = 0x80030000

	defaultStackBase = 0x801fff00
)

// Executable is a parsed PS-EXE: the BIOS jumps every disc title through
// 0x80030000 after licensing, so a side-loaded homebrew binary is staged
// here and spliced in at that exact address rather than booted directly,
// matching how a real devkit-less flash cart would sideload.
type Executable struct {
	EntryPoint      uint32
	InitialGP       uint32
	RamDestination  uint32
	FileSize        uint32
	MemfillStart    uint32
	MemfillSize     uint32
	InitialSPBase   uint32
	InitialSPOffset uint32

	Body []byte
}

// LoadExecutable parses a raw PS-EXE file: an 8-byte magic, a fixed header
// of little-endian uint32 fields, then the loadable body padded to a
// 0x800-byte boundary.
func LoadExecutable(data []byte) (*Executable, error) {
	if len(data) < exeHeaderSize {
		return nil, fmt.Errorf("sideload: file too short for a PS-EXE header (%d bytes)", len(data))
	}
	if string(data[:len(exeMagic)]) != exeMagic {
		return nil, fmt.Errorf("sideload: missing %q magic", exeMagic)
	}

	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off : off+4]) }

	exe := &Executable{
		EntryPoint:      u32(0x10),
		InitialGP:       u32(0x14),
		RamDestination:  u32(0x18),
		FileSize:        u32(0x1c),
		MemfillStart:    u32(0x28),
		MemfillSize:     u32(0x2c),
		InitialSPBase:   u32(0x30),
		InitialSPOffset: u32(0x34),
	}

	end := exeHeaderSize + int(exe.FileSize)
	if end > len(data) {
		end = len(data)
	}
	exe.Body = data[exeHeaderSize:end]

	return exe, nil
}

// ApplyTo patches the executable's body into RAM and redirects the CPU to
// its entry point, initializing GP/SP/FP the way the real BIOS's EXE loader
// does for a disc title: GP from the header, SP/FP from the header's stack
// fields if given, or the BIOS default otherwise.
func (exe *Executable) ApplyTo(bus *Bus, cpu *CPU) {
	dest := maskRegion(exe.RamDestination)
	for i := 0; i+3 < len(exe.Body); i += 4 {
		bus.Ram.Store(RAM_RANGE.Offset(dest+uint32(i)), AccessWord, binary.LittleEndian.Uint32(exe.Body[i:i+4]))
	}

	if exe.MemfillSize != 0 {
		fillDest := maskRegion(exe.MemfillStart)
		for i := uint32(0); i < exe.MemfillSize; i += 4 {
			bus.Ram.Store(RAM_RANGE.Offset(fillDest+i), AccessWord, uint32(0))
		}
	}

	sp := exe.InitialSPBase
	if sp == 0 {
		sp = defaultStackBase
	}
	sp += exe.InitialSPOffset

	cpu.PC = exe.EntryPoint
	cpu.NextPC = exe.EntryPoint + 4

	// Written directly to both register copies rather than through SetReg:
	// this is a cold reset of the register file between instructions, not a
	// write performed by a guest instruction, so it must be visible to the
	// very first instruction executed at EntryPoint.
	cpu.Regs[28], cpu.outRegs[28] = exe.InitialGP, exe.InitialGP // $gp
	cpu.Regs[29], cpu.outRegs[29] = sp, sp                       // $sp
	cpu.Regs[30], cpu.outRegs[30] = sp, sp                       // $fp
}

// ArmSideload installs exe so it replaces the shell entry point the next
// time the CPU reaches it, instead of booting straight into it; this keeps
// the BIOS's own boot sequence (memory card check, licensing splash)
// observable up to the hand-off point, matching a real sideload cart.
func (sys *System) ArmSideload(exe *Executable) {
	sys.sideload = exe
}

// checkSideload is called once per quantum, before running any
// instructions: it fires exactly once, at the instant the BIOS's own boot
// sequence is about to jump into the shell.
func (sys *System) checkSideload() {
	if sys.sideload == nil {
		return
	}
	if sys.CPU.PC != shellEntryPoint {
		return
	}
	sys.sideload.ApplyTo(sys.Bus, sys.CPU)
	sys.sideload = nil
}
