package emulator

import "bytes"

// testBIOS returns a zero-filled but correctly-sized BIOS image; CPU/bus
// tests that never fetch through the BIOS window only need LoadBIOS to
// succeed, not meaningful contents.
func testBIOS() *BIOS {
	bios, err := LoadBIOS(bytes.NewReader(make([]byte, BIOS_SIZE)))
	if err != nil {
		panic(err)
	}
	return bios
}

// newTestCPU wires a CPU to a fresh Bus/RAM, ready to execute instructions
// written into RAM starting at address 0 with PC parked there.
func newTestCPU() *CPU {
	bus := NewBus(testBIOS())
	cpu := NewCPU(bus)
	cpu.Irq = bus.Irq
	cpu.PC = 0
	cpu.NextPC = 4
	return cpu
}

// encodeR assembles a SPECIAL-opcode (function 0) R-type instruction word.
func encodeR(funct, s, t, d, shift uint32) uint32 {
	return (s&0x1f)<<21 | (t&0x1f)<<16 | (d&0x1f)<<11 | (shift&0x1f)<<6 | (funct & 0x3f)
}

// encodeI assembles an I-type instruction word (loads, stores, ALU-immediate,
// branches).
func encodeI(op, s, t, imm uint32) uint32 {
	return (op&0x3f)<<26 | (s&0x1f)<<21 | (t&0x1f)<<16 | (imm & 0xffff)
}

// loadInstructions writes a sequence of assembled words into RAM starting at
// byte address 0, one per 4-byte slot, for the CPU to fetch and execute.
func loadInstructions(cpu *CPU, words ...uint32) {
	for i, w := range words {
		cpu.Bus.Ram.Store32(uint32(i*4), w)
	}
}
