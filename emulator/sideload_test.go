package emulator

import (
	"encoding/binary"
	"testing"
)

// makeExeBytes assembles a minimal valid PS-EXE image: the 0x800-byte
// header with the fields LoadExecutable reads, followed by a body of raw
// instruction words.
func makeExeBytes(entry, gp, dest, spBase, spOffset uint32, body []uint32) []byte {
	data := make([]byte, exeHeaderSize+len(body)*4)
	copy(data, exeMagic)

	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:off+4], v) }
	put(0x10, entry)
	put(0x14, gp)
	put(0x18, dest)
	put(0x1c, uint32(len(body)*4))
	put(0x30, spBase)
	put(0x34, spOffset)

	for i, w := range body {
		binary.LittleEndian.PutUint32(data[exeHeaderSize+i*4:], w)
	}
	return data
}

func TestLoadExecutableParsesHeader(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	data := makeExeBytes(0x80010000, 0x12345678, 0x80010000, 0x801ffff0, 0x10, []uint32{0xdeadbeef, 0x11223344})

	exe, err := LoadExecutable(data)
	if err != nil {
		t.Fatalf("LoadExecutable: %v", err)
	}

	assert(exe.EntryPoint == 0x80010000)
	assert(exe.InitialGP == 0x12345678)
	assert(exe.RamDestination == 0x80010000)
	assert(exe.FileSize == 8)
	assert(exe.InitialSPBase == 0x801ffff0)
	assert(exe.InitialSPOffset == 0x10)
	assert(len(exe.Body) == 8)
	assert(binary.LittleEndian.Uint32(exe.Body[0:4]) == 0xdeadbeef)
}

func TestLoadExecutableRejectsBadMagic(t *testing.T) {
	data := make([]byte, exeHeaderSize)
	copy(data, "NOT-AN-EXE")
	if _, err := LoadExecutable(data); err == nil {
		t.Error("expected an error for a missing PS-EXE magic")
	}
}

// TestApplyToPatchesRamAndRegisters confirms ApplyTo writes the body into
// RAM at the destination address, redirects the CPU, and makes GP/SP/FP
// visible to the very first instruction fetched at the entry point.
func TestApplyToPatchesRamAndRegisters(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	body := []uint32{0xdeadbeef, 0x11223344}
	data := makeExeBytes(0x80010000, 0x12345678, 0x80010000, 0x801ffff0, 0x10, body)

	exe, err := LoadExecutable(data)
	if err != nil {
		t.Fatalf("LoadExecutable: %v", err)
	}

	bus := NewBus(testBIOS())
	cpu := NewCPU(bus)

	exe.ApplyTo(bus, cpu)

	assert(bus.Ram.Load32(0x00010000) == 0xdeadbeef)
	assert(bus.Ram.Load32(0x00010004) == 0x11223344)
	assert(cpu.PC == 0x80010000)
	assert(cpu.NextPC == 0x80010004)

	assert(cpu.Regs[28] == 0x12345678)
	assert(cpu.outRegs[28] == 0x12345678)
	assert(cpu.Regs[29] == 0x80200000) // InitialSPBase + InitialSPOffset
	assert(cpu.Regs[30] == 0x80200000)
}

// TestApplyToFallsBackToDefaultStack confirms a zero InitialSPBase selects
// the BIOS default stack rather than leaving SP at zero.
func TestApplyToFallsBackToDefaultStack(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	data := makeExeBytes(0x80010000, 0, 0x80010000, 0, 0, []uint32{0})
	exe, err := LoadExecutable(data)
	if err != nil {
		t.Fatalf("LoadExecutable: %v", err)
	}

	bus := NewBus(testBIOS())
	cpu := NewCPU(bus)
	exe.ApplyTo(bus, cpu)

	assert(cpu.Regs[29] == defaultStackBase)
}

// TestSystemCheckSideloadFiresOnlyAtShellEntry confirms the armed sideload
// is inert until the CPU reaches the shell entry point, then applies exactly
// once.
func TestSystemCheckSideloadFiresOnlyAtShellEntry(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	sys := NewSystem(testBIOS())
	data := makeExeBytes(0x80010000, 0, 0x80010000, 0, 0, []uint32{0xcafef00d})
	exe, err := LoadExecutable(data)
	if err != nil {
		t.Fatalf("LoadExecutable: %v", err)
	}
	sys.ArmSideload(exe)

	sys.CPU.PC = 0xbfc00000
	sys.checkSideload()
	assert(sys.sideload != nil) // not yet at the shell entry point

	sys.CPU.PC = shellEntryPoint
	sys.checkSideload()
	assert(sys.sideload == nil)
	assert(sys.CPU.PC == 0x80010000)
	assert(sys.Bus.Ram.Load32(0x00010000) == 0xcafef00d)

	// a second pass at the same PC must not re-arm or re-apply.
	sys.CPU.PC = shellEntryPoint
	sys.checkSideload()
	assert(sys.sideload == nil)
}
