package emulator

import (
	"log"
	"os"
)

// Debugger holds breakpoint/watchpoint sets the outer loop consults before
// each instruction and memory access; hitting one halts the core instead of
// panicking, so a host can resume, step, or inspect state.
type Debugger struct {
	Breakpoints      []uint32 // All breakpoint addresses
	ReadWatchpoints  []uint32 // All read watchpoints
	WriteWatchpoints []uint32 // All write watchpoints

	Halted     bool
	HaltReason string

	log *log.Logger
}

func NewDebugger() *Debugger {
	return &Debugger{log: log.New(os.Stderr, "debugger: ", 0)}
}

// Adds a breakpoint when the instruction at `addr` is about to be executed
func (debugger *Debugger) AddBreakpoint(addr uint32) {
	// check if that breakpoint already exists
	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			return
		}
	}
	debugger.Breakpoints = append(debugger.Breakpoints, addr)
}

// Deletes a breakpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteBreakpoint(addr uint32) {
	for idx, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			// remove this breakpoint
			debugger.Breakpoints = append(debugger.Breakpoints[:idx], debugger.Breakpoints[idx+1:]...)
			return
		}
	}
}

// Adds a memory read watchpoint for `addr`
func (debugger *Debugger) AddReadWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.ReadWatchpoints = append(debugger.ReadWatchpoints, addr)
}

// Adds a memory write watchpoint for `addr`
func (debugger *Debugger) AddWriteWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.WriteWatchpoints = append(debugger.WriteWatchpoints, addr)
}

// Deletes a memory read watchpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteReadWatchpoint(addr uint32) {
	for idx, breakpoint := range debugger.ReadWatchpoints {
		if breakpoint == addr {
			// remove this breakpoint
			debugger.ReadWatchpoints = append(
				debugger.ReadWatchpoints[:idx],
				debugger.ReadWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// Deletes a memory write watchpoint at `addr`. Does nothing if it doesn't exist
func (debugger *Debugger) DeleteWriteWatchpoint(addr uint32) {
	for idx, breakpoint := range debugger.WriteWatchpoints {
		if breakpoint == addr {
			// remove this breakpoint
			debugger.WriteWatchpoints = append(
				debugger.WriteWatchpoints[:idx],
				debugger.WriteWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// OnBeforeExecute is called by the CPU just before fetching the
// instruction at pc.
func (debugger *Debugger) OnBeforeExecute(cpu *CPU, pc uint32) {
	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == pc {
			debugger.halt("breakpoint", pc)
			return
		}
	}
}

// OnMemoryRead is called by the bus when it's about to read addr.
func (debugger *Debugger) OnMemoryRead(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			debugger.halt("read watchpoint", addr)
			return
		}
	}
}

// OnMemoryWrite is called by the bus when it's about to write addr.
func (debugger *Debugger) OnMemoryWrite(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			debugger.halt("write watchpoint", addr)
			return
		}
	}
}

func (debugger *Debugger) halt(kind string, addr uint32) {
	debugger.Halted = true
	debugger.HaltReason = kind
	debugger.log.Printf("%s hit at 0x%08x", kind, addr)
}

// Resume clears a halt so the outer loop can continue stepping.
func (debugger *Debugger) Resume() {
	debugger.Halted = false
	debugger.HaltReason = ""
}
