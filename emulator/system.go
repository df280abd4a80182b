package emulator

import (
	"log"
	"os"
)

// defaultQuantum is the number of guest cycles the outer loop advances the
// CPU by before ticking the timers and the scheduler; at 2 cycles/instruction
// this runs 32 instructions per quantum, matching the BIOS's own interrupt
// polling granularity closely enough that guest code never observes a
// stale INTC.Active between polls.
const (
	defaultQuantum       uint64 = 64
	cyclesPerInstruction uint64 = 2
	scanlineCadence      uint64 = 3413
	vblankStartLine             = 240
	totalScanlines              = 262
)

// System is the top-level synchronous guest machine: the CPU interpreter,
// the address-decoded bus, and the scheduler that sequences the GPU's
// scanline/hblank cadence, the CD-ROM's response delays, and the SIO pad
// handshake. Everything else in the emulator package is reachable from
// here; nothing in the package reaches back out to a host presentation
// stack except through the FramebufferSink/InputSource/AudioSink
// callbacks a host installs before calling Run.
type System struct {
	CPU   *CPU
	Bus   *Bus
	Sched *Scheduler

	scanline uint16
	sideload *Executable

	Framebuffer FramebufferSink
	Input       InputSource
	Audio       AudioSink
	TTY         TTYSink

	bootLog *log.Logger
}

func NewSystem(bios *BIOS) *System {
	bus := NewBus(bios)
	cpu := NewCPU(bus)
	cpu.Irq = bus.Irq
	sched := NewScheduler()

	bus.CDROM.Sched = sched
	bus.SIO.Sched = sched
	bus.DMA.Sched = sched

	sys := &System{
		CPU:         cpu,
		Bus:         bus,
		Sched:       sched,
		Framebuffer: nullFramebufferSink{},
		Input:       nullInputSource{},
		Audio:       nullAudioSink{},
		TTY:         nullTTYSink{},
		bootLog:     log.New(os.Stderr, "boot: ", 0),
	}

	sched.Bind(HandlerCDROM, bus.CDROM.FireResponse)
	sched.Bind(HandlerSIO, bus.SIO.FireAck)
	sched.Bind(HandlerDMA, bus.DMA.FireCompletions)
	sched.Bind(HandlerGPUScanline, sys.onScanline)

	sched.Add(HandlerGPUScanline, 0, scanlineCadence)

	return sys
}

// AttachDebugger wires a shared *Debugger into both the CPU (breakpoints)
// and the bus (read/write watchpoints).
func (sys *System) AttachDebugger(d *Debugger) {
	sys.CPU.Debugger = d
	sys.Bus.Debugger = d
}

// SetAudioSink installs the host's audio sink on both System.Audio and the
// SPU, which holds it; the SPU produces no PCM, so the sink is never fed
// (see AudioSink).
func (sys *System) SetAudioSink(sink AudioSink) {
	sys.Audio = sink
	sys.Bus.SPU.Sink = sink
}

// SetTTYSink installs the host's sink for characters forwarded through the
// BIOS putchar() trampoline, on both System.TTY and the CPU, which is the
// component that actually observes the trampoline calls.
func (sys *System) SetTTYSink(sink TTYSink) {
	sys.TTY = sink
	sys.CPU.TTY = sink
}

// Step advances the machine by exactly one outer-loop quantum: run the CPU,
// tick the timers, tick the scheduler, then sample the interrupt line. It
// is the unit callers (Run, or a debugger's single-step command) drive the
// machine in.
func (sys *System) Step() {
	sys.checkSideload()

	quantum := defaultQuantum
	if r := sys.Sched.GetRunCycles(); r < quantum {
		quantum = r
	}
	if quantum == 0 {
		quantum = 1
	}

	instructions := quantum / cyclesPerInstruction
	for i := uint64(0); i < instructions; i++ {
		sys.CPU.RunNextInstruction()
		if sys.CPU.Debugger != nil && sys.CPU.Debugger.Halted {
			break
		}
	}

	sys.Bus.Timers.Tick(uint32(quantum), sys.Bus.Irq)
	sys.Sched.Tick(quantum)
	sys.CPU.CheckIrq()
}

// Run drives Step in a loop until the debugger (if any) halts, or forever
// otherwise; hosts embedding this in a windowed event loop should call
// Step directly instead and drive their own pacing off vsync.
func (sys *System) Run() {
	for {
		sys.Step()
		if sys.CPU.Debugger != nil && sys.CPU.Debugger.Halted {
			return
		}
	}
}

// RunFrame advances the machine until a VBLANK boundary has been crossed,
// matching the "suspension points only occur at VBLANK" contract: hosts
// call this once per host frame and then may safely block on vsync,
// input poll, and audio write.
func (sys *System) RunFrame() {
	startScanline := sys.scanline
	for {
		sys.Step()
		if sys.CPU.Debugger != nil && sys.CPU.Debugger.Halted {
			return
		}
		if sys.scanline < startScanline {
			return
		}
		startScanline = sys.scanline
	}
}

// onScanline is bound to the scheduler's GPU scanline handler: every
// ~3413 cycles it advances the scanline counter, ticks any hblank-clocked
// timer by one pulse, and crosses the VBLANK/display boundaries at lines
// 240 and 262.
func (sys *System) onScanline(_ int32, late uint64) {
	sys.scanline++

	timers := sys.Bus.Timers
	for i, t := range timers.Timers {
		if t.UsesHblank {
			t.Tick(1, sys.Bus.Irq, [3]InterruptSource{IrqTimer0, IrqTimer1, IrqTimer2}[i])
		}
	}

	switch sys.scanline {
	case vblankStartLine:
		sys.Bus.Irq.SendInterrupt(IrqVBlank)
		timers.Timers[1].SetGate(true)
		sys.Framebuffer.Present(sys.Bus.GPU.VRAM.Pixels[:], vramWidth, vramWidth, vramHeight)
		sys.pollInput()
	case totalScanlines:
		sys.scanline = 0
		timers.Timers[1].SetGate(false)
	}

	next := scanlineCadence
	if late < next {
		next -= late
	}
	sys.Sched.Add(HandlerGPUScanline, 0, next)
}

func (sys *System) pollInput() {
	mask := sys.Input.PollButtons()
	for b := Button(0); b < 16; b++ {
		pressed := mask&(1<<b) == 0
		sys.Bus.SIO.SetButton(b, pressed)
	}
}
