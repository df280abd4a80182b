package emulator

import "testing"

const (
	opLWFunc  = 0b100011
	opORIFunc = 0b001101
	opLWLFunc = 0b100010
	opLWRFunc = 0b100110
	opSWLFunc = 0b101010
	opSWRFunc = 0b101110

	sfADD  = 0b100000
	sfDIV  = 0b011010
	sfMULT = 0b011000
)

func TestRegisterZeroStaysZero(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	// ori $0, $0, 0xffff -- any write through SetReg targeting r0 must not stick.
	loadInstructions(cpu, encodeI(opORIFunc, 0, 0, 0xffff))
	cpu.RunNextInstruction()

	assert(cpu.Regs[0] == 0)
}

func TestMisalignedLoadRaisesAddressError(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	// lw $1, 1($0) -- address 1 is not word-aligned.
	loadInstructions(cpu, encodeI(opLWFunc, 0, 1, 1))
	cpu.RunNextInstruction()

	assert(cpu.Cop0.BadVAddr == 1)
	assert((cpu.Cop0.Cause>>2)&0x1f == uint32(EXCEPTION_LOAD_ADDRESS_ERROR))
	assert(cpu.Cop0.Cause&(1<<31) == 0) // not in a branch delay slot
	assert(cpu.PC == 0x80000080)
}

func TestDivideByZeroBoundary(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	loadInstructions(cpu, encodeR(sfDIV, 1, 2, 0, 0))
	cpu.Regs[1] = 5
	cpu.Regs[2] = 0
	cpu.RunNextInstruction()
	assert(cpu.HI == 5)
	assert(cpu.LO == 0xffffffff)

	cpu2 := newTestCPU()
	loadInstructions(cpu2, encodeR(sfDIV, 1, 2, 0, 0))
	cpu2.Regs[1] = 0xfffffffb // -5
	cpu2.Regs[2] = 0
	cpu2.RunNextInstruction()
	assert(cpu2.HI == 0xfffffffb)
	assert(cpu2.LO == 1)
}

func TestDivideOverflowBoundary(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	loadInstructions(cpu, encodeR(sfDIV, 1, 2, 0, 0))
	cpu.Regs[1] = 0x80000000
	cpu.Regs[2] = 0xffffffff
	cpu.RunNextInstruction()
	assert(cpu.HI == 0)
	assert(cpu.LO == 0x80000000)
}

func TestSignedMultiply(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	loadInstructions(cpu, encodeR(sfMULT, 1, 2, 0, 0))
	cpu.Regs[1] = 0xfffffffb // -5
	cpu.Regs[2] = uint32(int32(3))
	cpu.RunNextInstruction()

	assert(cpu.HI == 0xffffffff)
	assert(cpu.LO == 0xfffffff1) // -15 as a 64-bit two's complement value
}

func TestAddOverflowRaisesExceptionWithoutWriteback(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	cpu := newTestCPU()
	loadInstructions(cpu, encodeR(sfADD, 1, 2, 3, 0))
	cpu.Regs[1] = 0x7fffffff
	cpu.Regs[2] = 1
	cpu.RunNextInstruction()

	assert((cpu.Cop0.Cause>>2)&0x1f == uint32(EXCEPTION_OVERFLOW))
	assert(cpu.Regs[3] == 0) // destination never written
}

// TestUnalignedWordRoundTrip exercises the canonical SWL/SWR and LWL/LWR
// idiom a compiler emits for a misaligned 32-bit access: SWR+SWL at byte
// offsets 0 and 3 of the misaligned word write the full word, and LWR+LWL
// (separated by the instruction that publishes LWR's load-delayed result)
// read it back intact.
func TestUnalignedWordRoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	const v = 0x12345678

	cpu := newTestCPU()
	cpu.Regs[2], cpu.outRegs[2] = v, v // both, so the value survives past the first instruction

	loadInstructions(cpu,
		encodeI(opSWRFunc, 1, 2, 0x105), // swr $2, 0x105($1)  ($1 == 0, past the program)
		encodeI(opSWLFunc, 1, 2, 0x108), // swl $2, 0x108($1)
		encodeI(opLWRFunc, 1, 3, 0x105), // lwr $3, 0x105($1)
		0,                               // nop: publishes lwr's pending load
		encodeI(opLWLFunc, 1, 3, 0x108), // lwl $3, 0x108($1)
		0,                           // nop: publishes lwl's pending load
	)

	for i := 0; i < 6; i++ {
		cpu.RunNextInstruction()
	}

	assert(cpu.Regs[3] == v)
}
