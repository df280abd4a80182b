package emulator

import "testing"

// captureTTY is a TTYSink test double that records every byte forwarded to
// it, in order.
type captureTTY struct {
	bytes []byte
}

func (c *captureTTY) WriteByte(b byte) error {
	c.bytes = append(c.bytes, b)
	return nil
}

// TestBiosPutcharTrampolineForwardsOneCharacter writes 'H' into A0 and jumps
// PC to the B0 vector with T1 set to 0x3D (putchar), matching the BIOS
// library-call convention the real firmware uses: one host-visible
// character should reach CPU.TTY per trampoline hit.
func TestBiosPutcharTrampolineForwardsOneCharacter(t *testing.T) {
	cpu := newTestCPU()

	tty := &captureTTY{}
	cpu.TTY = tty

	cpu.PC = 0xb0
	cpu.NextPC = 0xb4
	cpu.Regs[9] = 0x3d // T1: BIOS function number
	cpu.Regs[4] = 'H'  // A0: putchar() argument

	cpu.RunNextInstruction()

	if len(tty.bytes) != 1 {
		t.Fatalf("expected exactly 1 byte forwarded, got %d", len(tty.bytes))
	}
	if tty.bytes[0] != 'H' {
		t.Errorf("expected 'H', got %q", tty.bytes[0])
	}
}

// TestBiosTrampolineIgnoresUnmodeledFunctions confirms the hook only fires
// for the specific (vector, function) pairs it models; any other T1 value at
// a BIOS vector passes through without touching TTY.
func TestBiosTrampolineIgnoresUnmodeledFunctions(t *testing.T) {
	cpu := newTestCPU()

	tty := &captureTTY{}
	cpu.TTY = tty

	cpu.PC = 0xb0
	cpu.NextPC = 0xb4
	cpu.Regs[9] = 0x3e // not putchar
	cpu.Regs[4] = 'H'

	cpu.RunNextInstruction()

	if len(tty.bytes) != 0 {
		t.Errorf("expected no bytes forwarded, got %d", len(tty.bytes))
	}
}
