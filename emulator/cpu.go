package emulator

// CPU models the R3000A: a 32-bit MIPS-I core with no floating point unit,
// branch-delay slots on every jump/branch, and a one-instruction load delay
// slot (a register loaded from memory doesn't see its new value until the
// instruction after the load). Both delay slots are modeled explicitly
// rather than special-cased, since guest code occasionally relies on their
// exact timing.
type CPU struct {
	PC     uint32     // Program counter for the instruction currently being executed
	NextPC uint32     // Program counter for the instruction that follows it
	Regs   [32]uint32 // General purpose registers, R0 always reads as 0

	// outRegs mirrors Regs for the instruction currently executing: writes
	// land here and are published to Regs only after the instruction
	// finishes, so that an instruction reading a register sees the value
	// from before this instruction ran, matching the real pipeline.
	outRegs [32]uint32

	HI, LO uint32 // Multiply/divide result registers

	CurrentPC   uint32 // Address of the instruction being executed (for exceptions)
	IsDelaySlot bool   // True if CurrentPC is in a branch delay slot
	Branch      bool   // True if the instruction just executed branched

	pendingLoad struct {
		Reg uint32
		Val uint32
	}

	Cop0        *Cop0
	cop0Scratch [32]uint32 // backing store for COP0 registers with no hardware meaning
	Gte         *GTE

	Bus *Bus
	Irq *IrqState

	Debugger *Debugger

	// TTY receives characters forwarded through the BIOS B0(0x3D) putchar
	// trampoline; defaults to a sink that discards them.
	TTY TTYSink
}

func NewCPU(bus *Bus) *CPU {
	cpu := &CPU{
		PC:     0xbfc00000,
		NextPC: 0xbfc00004,
		Cop0:   NewCop0(),
		Gte:    NewGTE(),
		Bus:    bus,
		TTY:    nullTTYSink{},
	}
	cpu.Cop0.SR = 0x10900000
	return cpu
}

// BIOS register indices the syscall trampolines read: T1 carries the
// function number, A0 the putchar() argument.
const (
	biosRegT1 = 9
	biosRegA0 = 4
)

// checkBiosTrampoline hooks the three vectors the BIOS funnels its library
// calls through (A0, B0, C0), keyed by the function number in T1. Only the
// two functions spec'd here are modeled: A0(0x40), SystemErrorUnresolvedException,
// is an unrecoverable firmware abort; B0(0x3D) is putchar(), forwarded to
// CPU.TTY one character at a time.
func (cpu *CPU) checkBiosTrampoline(pc uint32) {
	if pc != 0xa0 && pc != 0xb0 && pc != 0xc0 {
		return
	}
	funct := cpu.Reg(biosRegT1)
	switch {
	case pc == 0xa0 && funct == 0x40:
		unimplemented("bios", "SystemErrorUnresolvedException (A0(0x40))")
	case pc == 0xb0 && funct == 0x3d:
		cpu.TTY.WriteByte(byte(cpu.Reg(biosRegA0)))
	}
}

func (cpu *CPU) Reg(index uint32) uint32 {
	return cpu.Regs[index]
}

// SetReg writes to the register file directly, bypassing the load-delay
// staging; used for anything that isn't a memory load (ALU results, branch
// link registers, exception handling).
func (cpu *CPU) SetReg(index, val uint32) {
	cpu.outRegs[index] = val
	cpu.outRegs[0] = 0
}

// RunNextInstruction fetches, decodes and executes the instruction at PC,
// advancing PC and NextPC by one slot and publishing the pending load and
// register writes from the previous instruction.
func (cpu *CPU) RunNextInstruction() {
	pc := cpu.PC
	if pc%4 != 0 {
		cpu.EnterException(EXCEPTION_LOAD_ADDRESS_ERROR, pc)
		return
	}

	cpu.CurrentPC = pc
	cpu.IsDelaySlot = cpu.Branch
	cpu.Branch = false

	cpu.checkBiosTrampoline(pc)

	if cpu.Debugger != nil {
		cpu.Debugger.OnBeforeExecute(cpu, pc)
	}

	instruction := Instruction(cpu.Load32(pc))

	cpu.PC = cpu.NextPC
	cpu.NextPC = cpu.PC + 4

	reg, val := cpu.pendingLoad.Reg, cpu.pendingLoad.Val
	cpu.outRegs[reg] = val
	cpu.pendingLoad.Reg, cpu.pendingLoad.Val = 0, 0

	func() {
		defer func() {
			if r := recover(); r != nil {
				if exc, ok := r.(cpuException); ok {
					cpu.handleException(exc.code, exc.badVAddr)
					return
				}
				panic(r)
			}
		}()
		cpu.decodeAndExecute(instruction)
	}()

	cpu.Regs = cpu.outRegs
}

// cpuException is how ops signal a recoverable guest exception up to
// RunNextInstruction without threading an error return through every
// opcode handler; it is always recovered within this file.
type cpuException struct {
	code     Exception
	badVAddr uint32
}

func raiseException(code Exception, badVAddr uint32) {
	panic(cpuException{code: code, badVAddr: badVAddr})
}

func (cpu *CPU) handleException(code Exception, badVAddr uint32) {
	if code == EXCEPTION_LOAD_ADDRESS_ERROR || code == EXCEPTION_STORE_ADDRESS_ERROR {
		cpu.Cop0.BadVAddr = badVAddr
	}
	handler := cpu.Cop0.EnterException(code, cpu.CurrentPC, cpu.IsDelaySlot)
	cpu.PC = handler
	cpu.NextPC = handler + 4
}

func (cpu *CPU) EnterException(code Exception, badVAddr uint32) {
	cpu.handleException(code, badVAddr)
}

// CheckIrq is called by the outer loop once per quantum: a pending unmasked
// interrupt takes effect as if it were raised by the instruction that just
// retired, since the R3000A samples interrupts between instructions.
func (cpu *CPU) CheckIrq() {
	if cpu.Cop0.IrqActive(cpu.Irq) {
		cpu.handleException(EXCEPTION_INTERRUPT, 0)
	}
}

func (cpu *CPU) Load32(addr uint32) uint32 {
	if addr%4 != 0 {
		raiseException(EXCEPTION_LOAD_ADDRESS_ERROR, addr)
	}
	return cpu.Bus.Load32(addr)
}

func (cpu *CPU) Load16(addr uint32) uint16 {
	if addr%2 != 0 {
		raiseException(EXCEPTION_LOAD_ADDRESS_ERROR, addr)
	}
	return cpu.Bus.Load16(addr)
}

func (cpu *CPU) Load8(addr uint32) uint8 {
	return cpu.Bus.Load8(addr)
}

func (cpu *CPU) Store32(addr, val uint32) {
	if addr%4 != 0 {
		raiseException(EXCEPTION_STORE_ADDRESS_ERROR, addr)
	}
	if cpu.Cop0.CacheIsolated() {
		return
	}
	cpu.Bus.Store32(addr, val)
}

func (cpu *CPU) Store16(addr uint32, val uint16) {
	if addr%2 != 0 {
		raiseException(EXCEPTION_STORE_ADDRESS_ERROR, addr)
	}
	if cpu.Cop0.CacheIsolated() {
		return
	}
	cpu.Bus.Store16(addr, val)
}

func (cpu *CPU) Store8(addr uint32, val uint8) {
	if cpu.Cop0.CacheIsolated() {
		return
	}
	cpu.Bus.Store8(addr, val)
}

func (cpu *CPU) branch(offset uint32) {
	pc := cpu.PC + (offset << 2)
	cpu.NextPC = pc
	cpu.Branch = true
}

func (cpu *CPU) decodeAndExecute(i Instruction) {
	switch i.Function() {
	case 0b000000:
		cpu.decodeAndExecuteSpecial(i)
	case 0b000001:
		cpu.opBcondZ(i)
	case 0b000010:
		cpu.opJ(i)
	case 0b000011:
		cpu.opJAL(i)
	case 0b000100:
		cpu.opBEQ(i)
	case 0b000101:
		cpu.opBNE(i)
	case 0b000110:
		cpu.opBLEZ(i)
	case 0b000111:
		cpu.opBGTZ(i)
	case 0b001000:
		cpu.opADDI(i)
	case 0b001001:
		cpu.opADDIU(i)
	case 0b001010:
		cpu.opSLTI(i)
	case 0b001011:
		cpu.opSLTIU(i)
	case 0b001100:
		cpu.opANDI(i)
	case 0b001101:
		cpu.opORI(i)
	case 0b001110:
		cpu.opXORI(i)
	case 0b001111:
		cpu.opLUI(i)
	case 0b010000:
		cpu.opCOP0(i)
	case 0b010010:
		cpu.opCOP2(i)
	case 0b100000:
		cpu.opLB(i)
	case 0b100001:
		cpu.opLH(i)
	case 0b100010:
		cpu.opLWL(i)
	case 0b100011:
		cpu.opLW(i)
	case 0b100100:
		cpu.opLBU(i)
	case 0b100101:
		cpu.opLHU(i)
	case 0b100110:
		cpu.opLWR(i)
	case 0b101000:
		cpu.opSB(i)
	case 0b101001:
		cpu.opSH(i)
	case 0b101010:
		cpu.opSWL(i)
	case 0b101011:
		cpu.opSW(i)
	case 0b101110:
		cpu.opSWR(i)
	case 0b110010:
		cpu.opLWC2(i)
	case 0b111010:
		cpu.opSWC2(i)
	default:
		raiseException(EXCEPTION_ILLEGAL_INSTRUCTION, 0)
	}
}

func (cpu *CPU) decodeAndExecuteSpecial(i Instruction) {
	switch i.Subfunction() {
	case 0b000000:
		cpu.opSLL(i)
	case 0b000010:
		cpu.opSRL(i)
	case 0b000011:
		cpu.opSRA(i)
	case 0b000100:
		cpu.opSLLV(i)
	case 0b000110:
		cpu.opSRLV(i)
	case 0b000111:
		cpu.opSRAV(i)
	case 0b001000:
		cpu.opJR(i)
	case 0b001001:
		cpu.opJALR(i)
	case 0b001100:
		cpu.opSYSCALL(i)
	case 0b001101:
		cpu.opBREAK(i)
	case 0b010000:
		cpu.opMFHI(i)
	case 0b010001:
		cpu.opMTHI(i)
	case 0b010010:
		cpu.opMFLO(i)
	case 0b010011:
		cpu.opMTLO(i)
	case 0b011000:
		cpu.opMULT(i)
	case 0b011001:
		cpu.opMULTU(i)
	case 0b011010:
		cpu.opDIV(i)
	case 0b011011:
		cpu.opDIVU(i)
	case 0b100000:
		cpu.opADD(i)
	case 0b100001:
		cpu.opADDU(i)
	case 0b100010:
		cpu.opSUB(i)
	case 0b100011:
		cpu.opSUBU(i)
	case 0b100100:
		cpu.opAND(i)
	case 0b100101:
		cpu.opOR(i)
	case 0b100110:
		cpu.opXOR(i)
	case 0b100111:
		cpu.opNOR(i)
	case 0b101010:
		cpu.opSLT(i)
	case 0b101011:
		cpu.opSLTU(i)
	default:
		raiseException(EXCEPTION_ILLEGAL_INSTRUCTION, 0)
	}
}

// --- load/store ---

func (cpu *CPU) load(reg uint32, val uint32) {
	cpu.pendingLoad.Reg = reg
	cpu.pendingLoad.Val = val
}

func (cpu *CPU) opLB(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	v := int8(cpu.Load8(addr))
	cpu.load(i.T(), uint32(int32(v)))
}

func (cpu *CPU) opLBU(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.load(i.T(), uint32(cpu.Load8(addr)))
}

func (cpu *CPU) opLH(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	v := int16(cpu.Load16(addr))
	cpu.load(i.T(), uint32(int32(v)))
}

func (cpu *CPU) opLHU(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.load(i.T(), uint32(cpu.Load16(addr)))
}

func (cpu *CPU) opLW(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.load(i.T(), cpu.Load32(addr))
}

// opLWL/opLWR implement the unaligned-word-load pair: together they let the
// guest assemble a misaligned 32-bit load out of two aligned bus accesses.
// They merge into the target register's value in Regs: RunNextInstruction
// publishes and clears pendingLoad before executing them, so a value loaded
// by the immediately preceding instruction is not yet visible to them and
// the pair needs one instruction between them.
func (cpu *CPU) opLWL(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	alignedAddr := addr &^ 3
	alignedWord := cpu.Load32(alignedAddr)

	var curVal uint32
	if cpu.pendingLoad.Reg == i.T() {
		curVal = cpu.pendingLoad.Val
	} else {
		curVal = cpu.Reg(i.T())
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = (curVal & 0x00ffffff) | (alignedWord << 24)
	case 1:
		v = (curVal & 0x0000ffff) | (alignedWord << 16)
	case 2:
		v = (curVal & 0x000000ff) | (alignedWord << 8)
	case 3:
		v = alignedWord
	}
	cpu.load(i.T(), v)
}

func (cpu *CPU) opLWR(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	alignedAddr := addr &^ 3
	alignedWord := cpu.Load32(alignedAddr)

	var curVal uint32
	if cpu.pendingLoad.Reg == i.T() {
		curVal = cpu.pendingLoad.Val
	} else {
		curVal = cpu.Reg(i.T())
	}

	var v uint32
	switch addr & 3 {
	case 0:
		v = alignedWord
	case 1:
		v = (curVal & 0xff000000) | (alignedWord >> 8)
	case 2:
		v = (curVal & 0xffff0000) | (alignedWord >> 16)
	case 3:
		v = (curVal & 0xffffff00) | (alignedWord >> 24)
	}
	cpu.load(i.T(), v)
}

func (cpu *CPU) opSB(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.Store8(addr, uint8(cpu.Reg(i.T())))
}

func (cpu *CPU) opSH(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.Store16(addr, uint16(cpu.Reg(i.T())))
}

func (cpu *CPU) opSW(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.Store32(addr, cpu.Reg(i.T()))
}

func (cpu *CPU) opSWL(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	alignedAddr := addr &^ 3
	curMem := cpu.Bus.Load32(alignedAddr)
	v := cpu.Reg(i.T())

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = (curMem & 0xffffff00) | (v >> 24)
	case 1:
		mem = (curMem & 0xffff0000) | (v >> 16)
	case 2:
		mem = (curMem & 0xff000000) | (v >> 8)
	case 3:
		mem = v
	}
	cpu.Store32(alignedAddr, mem)
}

func (cpu *CPU) opSWR(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	alignedAddr := addr &^ 3
	curMem := cpu.Bus.Load32(alignedAddr)
	v := cpu.Reg(i.T())

	var mem uint32
	switch addr & 3 {
	case 0:
		mem = v
	case 1:
		mem = (curMem & 0x000000ff) | (v << 8)
	case 2:
		mem = (curMem & 0x0000ffff) | (v << 16)
	case 3:
		mem = (curMem & 0x00ffffff) | (v << 24)
	}
	cpu.Store32(alignedAddr, mem)
}

// --- ALU ---

func (cpu *CPU) opADDI(i Instruction) {
	s := int32(cpu.Reg(i.S()))
	v := int32(i.ImmSE())
	sum := s + v
	if (s >= 0) == (v >= 0) && (sum >= 0) != (s >= 0) {
		raiseException(EXCEPTION_OVERFLOW, 0)
		return
	}
	cpu.SetReg(i.T(), uint32(sum))
}

func (cpu *CPU) opADDIU(i Instruction) {
	cpu.SetReg(i.T(), cpu.Reg(i.S())+i.ImmSE())
}

func (cpu *CPU) opSLTI(i Instruction) {
	v := oneIfTrue(int32(cpu.Reg(i.S())) < int32(i.ImmSE()))
	cpu.SetReg(i.T(), v)
}

func (cpu *CPU) opSLTIU(i Instruction) {
	v := oneIfTrue(cpu.Reg(i.S()) < i.ImmSE())
	cpu.SetReg(i.T(), v)
}

func (cpu *CPU) opANDI(i Instruction) {
	cpu.SetReg(i.T(), cpu.Reg(i.S())&i.Imm())
}

func (cpu *CPU) opORI(i Instruction) {
	cpu.SetReg(i.T(), cpu.Reg(i.S())|i.Imm())
}

func (cpu *CPU) opXORI(i Instruction) {
	cpu.SetReg(i.T(), cpu.Reg(i.S())^i.Imm())
}

func (cpu *CPU) opLUI(i Instruction) {
	cpu.SetReg(i.T(), i.Imm()<<16)
}

func (cpu *CPU) opSLL(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.T())<<i.Shift())
}

func (cpu *CPU) opSRL(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.T())>>i.Shift())
}

func (cpu *CPU) opSRA(i Instruction) {
	v := int32(cpu.Reg(i.T())) >> i.Shift()
	cpu.SetReg(i.D(), uint32(v))
}

func (cpu *CPU) opSLLV(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.T())<<(cpu.Reg(i.S())&0x1f))
}

func (cpu *CPU) opSRLV(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.T())>>(cpu.Reg(i.S())&0x1f))
}

func (cpu *CPU) opSRAV(i Instruction) {
	v := int32(cpu.Reg(i.T())) >> (cpu.Reg(i.S()) & 0x1f)
	cpu.SetReg(i.D(), uint32(v))
}

func (cpu *CPU) opADD(i Instruction) {
	s := int32(cpu.Reg(i.S()))
	t := int32(cpu.Reg(i.T()))
	sum := s + t
	if (s >= 0) == (t >= 0) && (sum >= 0) != (s >= 0) {
		raiseException(EXCEPTION_OVERFLOW, 0)
		return
	}
	cpu.SetReg(i.D(), uint32(sum))
}

func (cpu *CPU) opADDU(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.S())+cpu.Reg(i.T()))
}

func (cpu *CPU) opSUB(i Instruction) {
	s := int32(cpu.Reg(i.S()))
	t := int32(cpu.Reg(i.T()))
	diff := s - t
	if (s >= 0) != (t >= 0) && (diff >= 0) != (s >= 0) {
		raiseException(EXCEPTION_OVERFLOW, 0)
		return
	}
	cpu.SetReg(i.D(), uint32(diff))
}

func (cpu *CPU) opSUBU(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.S())-cpu.Reg(i.T()))
}

func (cpu *CPU) opAND(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.S())&cpu.Reg(i.T()))
}

func (cpu *CPU) opOR(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.S())|cpu.Reg(i.T()))
}

func (cpu *CPU) opXOR(i Instruction) {
	cpu.SetReg(i.D(), cpu.Reg(i.S())^cpu.Reg(i.T()))
}

func (cpu *CPU) opNOR(i Instruction) {
	cpu.SetReg(i.D(), ^(cpu.Reg(i.S()) | cpu.Reg(i.T())))
}

func (cpu *CPU) opSLT(i Instruction) {
	v := oneIfTrue(int32(cpu.Reg(i.S())) < int32(cpu.Reg(i.T())))
	cpu.SetReg(i.D(), v)
}

func (cpu *CPU) opSLTU(i Instruction) {
	v := oneIfTrue(cpu.Reg(i.S()) < cpu.Reg(i.T()))
	cpu.SetReg(i.D(), v)
}

// --- multiply/divide ---

func (cpu *CPU) opMULT(i Instruction) {
	a := int64(int32(cpu.Reg(i.S())))
	b := int64(int32(cpu.Reg(i.T())))
	v := uint64(a * b)
	cpu.HI = uint32(v >> 32)
	cpu.LO = uint32(v)
}

func (cpu *CPU) opMULTU(i Instruction) {
	a := uint64(cpu.Reg(i.S()))
	b := uint64(cpu.Reg(i.T()))
	v := a * b
	cpu.HI = uint32(v >> 32)
	cpu.LO = uint32(v)
}

func (cpu *CPU) opDIV(i Instruction) {
	n := int32(cpu.Reg(i.S()))
	d := int32(cpu.Reg(i.T()))

	if d == 0 {
		cpu.HI = uint32(n)
		if n >= 0 {
			cpu.LO = 0xffffffff
		} else {
			cpu.LO = 1
		}
		return
	}
	if uint32(n) == 0x80000000 && uint32(d) == 0xffffffff {
		cpu.HI = 0
		cpu.LO = uint32(n)
		return
	}
	cpu.LO = uint32(n / d)
	cpu.HI = uint32(n % d)
}

func (cpu *CPU) opDIVU(i Instruction) {
	n := cpu.Reg(i.S())
	d := cpu.Reg(i.T())

	if d == 0 {
		cpu.HI = n
		cpu.LO = 0xffffffff
		return
	}
	cpu.LO = n / d
	cpu.HI = n % d
}

func (cpu *CPU) opMFHI(i Instruction) { cpu.SetReg(i.D(), cpu.HI) }
func (cpu *CPU) opMTHI(i Instruction) { cpu.HI = cpu.Reg(i.S()) }
func (cpu *CPU) opMFLO(i Instruction) { cpu.SetReg(i.D(), cpu.LO) }
func (cpu *CPU) opMTLO(i Instruction) { cpu.LO = cpu.Reg(i.S()) }

// --- branches/jumps ---

func (cpu *CPU) opJ(i Instruction) {
	cpu.NextPC = (cpu.PC & 0xf0000000) | (i.ImmJump() << 2)
	cpu.Branch = true
}

func (cpu *CPU) opJAL(i Instruction) {
	ra := cpu.NextPC
	cpu.opJ(i)
	cpu.SetReg(31, ra)
}

func (cpu *CPU) opJR(i Instruction) {
	cpu.NextPC = cpu.Reg(i.S())
	cpu.Branch = true
}

func (cpu *CPU) opJALR(i Instruction) {
	ra := cpu.NextPC
	cpu.NextPC = cpu.Reg(i.S())
	cpu.Branch = true
	cpu.SetReg(i.D(), ra)
}

func (cpu *CPU) opBEQ(i Instruction) {
	if cpu.Reg(i.S()) == cpu.Reg(i.T()) {
		cpu.branch(i.ImmSE())
	}
}

func (cpu *CPU) opBNE(i Instruction) {
	if cpu.Reg(i.S()) != cpu.Reg(i.T()) {
		cpu.branch(i.ImmSE())
	}
}

func (cpu *CPU) opBLEZ(i Instruction) {
	if int32(cpu.Reg(i.S())) <= 0 {
		cpu.branch(i.ImmSE())
	}
}

func (cpu *CPU) opBGTZ(i Instruction) {
	if int32(cpu.Reg(i.S())) > 0 {
		cpu.branch(i.ImmSE())
	}
}

// opBcondZ handles all BLTZ/BGEZ/BLTZAL/BGEZAL variants: function bits
// [20:16] select the condition and whether $ra is linked.
func (cpu *CPU) opBcondZ(i Instruction) {
	s := int32(cpu.Reg(i.S()))
	code := i.T()

	isBgez := code&1 != 0
	link := code&0x1e == 0x10

	test := s < 0
	if isBgez {
		test = s >= 0
	}

	if link {
		cpu.SetReg(31, cpu.NextPC)
	}
	if test {
		cpu.branch(i.ImmSE())
	}
}

func (cpu *CPU) opSYSCALL(Instruction) {
	raiseException(EXCEPTION_SYSCALL, 0)
}

func (cpu *CPU) opBREAK(Instruction) {
	raiseException(EXCEPTION_BREAK, 0)
}

// --- coprocessor 0 ---

func (cpu *CPU) opCOP0(i Instruction) {
	switch i.S() {
	case 0b00000: // MFC0
		v := cpu.Cop0.Reg(i.D(), &cpu.cop0Scratch)
		cpu.load(i.T(), v)
	case 0b00100: // MTC0
		cpu.Cop0.SetReg(i.D(), cpu.Reg(i.T()), &cpu.cop0Scratch)
	case 0b10000: // RFE
		if i.Subfunction() != 0b010000 {
			raiseException(EXCEPTION_ILLEGAL_INSTRUCTION, 0)
			return
		}
		cpu.Cop0.ReturnFromException()
	default:
		raiseException(EXCEPTION_COPROCESSOR_ERROR, 0)
	}
}

// --- coprocessor 2 (GTE) ---

func (cpu *CPU) opCOP2(i Instruction) {
	if uint32(i)&(1<<25) != 0 {
		// bit 25 set: a GTE command, encoded in the low 25 bits
		cpu.Gte.Command(uint32(i))
		return
	}
	switch i.S() {
	case 0b00000: // MFC2
		cpu.load(i.T(), cpu.Gte.Data(i.D()))
	case 0b00010: // CFC2
		cpu.load(i.T(), cpu.Gte.Control(i.D()))
	case 0b00100: // MTC2
		cpu.Gte.SetData(i.D(), cpu.Reg(i.T()))
	case 0b00110: // CTC2
		cpu.Gte.SetControl(i.D(), cpu.Reg(i.T()))
	default:
		raiseException(EXCEPTION_ILLEGAL_INSTRUCTION, 0)
	}
}

func (cpu *CPU) opLWC2(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.Gte.SetData(i.T(), cpu.Load32(addr))
}

func (cpu *CPU) opSWC2(i Instruction) {
	addr := cpu.Reg(i.S()) + i.ImmSE()
	cpu.Store32(addr, cpu.Gte.Data(i.T()))
}
