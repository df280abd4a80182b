package emulator

// Represents the 7 DMA ports
type Port uint32

const (
	PORT_MDEC_IN  Port = 0 // Macroblock decoder input
	PORT_MDEC_OUT Port = 1 // Macroblock decoder output
	PORT_GPU      Port = 2 // Graphics Processing Unit
	PORT_CDROM    Port = 3 // CD-ROM drive
	PORT_SPU      Port = 4 // Sound Processing Unit
	PORT_PIO      Port = 5 // Extension port
	PORT_OTC      Port = 6 // Used to clear the ordering table
)

func PortFromIndex(index uint32) Port {
	switch index {
	case 0:
		return PORT_MDEC_IN
	case 1:
		return PORT_MDEC_OUT
	case 2:
		return PORT_GPU
	case 3:
		return PORT_CDROM
	case 4:
		return PORT_SPU
	case 5:
		return PORT_PIO
	case 6:
		return PORT_OTC
	default:
		panicFmt("dma: invalid port %d", index)
		return 0
	}
}

// Direct Memory Access
type DMA struct {
	Control         uint32 // DMA control register
	IrqEn           bool   // Master IRQ enable
	ChannelIrqEn    uint8  // IRQ enable for individual channels
	ChannelIrqFlags uint8  // IRQ flags for individual channels
	// When set the interrupt is active unconditionally, even
	// if `IrqEn` is false
	ForceIrq bool
	// Bits [0:5] of the interrupt registers are RW but I don't
	// know what they're supposed to do so they're just sent back
	// untouched on reads
	IrqDummy uint8
	Channels [7]*Channel // The 7 channel instances

	Sched *Scheduler // bound by NewSystem; completion events route through HandlerDMA
	bus   *Bus        // bound by NewBus; the scheduled completion callback has no bus param

	busy [7]bool // channel has a transfer triggered but not yet completed
}

// Return a new reset DMA instance
func NewDMA() *DMA {
	dma := &DMA{
		Control: 0x07654321, // reset value from the Nocash PSX spec
	}

	// allocate channels
	for i := 0; i < len(dma.Channels); i++ {
		dma.Channels[i] = NewChannel()
	}

	return dma
}

// Set the control value
func (dma *DMA) SetControl(val uint32) {
	dma.Control = val
}

// Return the status of the DMA interrupt
func (dma *DMA) Irq() bool {
	channelIrq := dma.ChannelIrqFlags & dma.ChannelIrqEn
	return dma.ForceIrq || (dma.IrqEn && channelIrq != 0)
}

// Return the value of the interrupt register
func (dma *DMA) Interrupt() uint32 {
	var forceIrqVal uint32
	if dma.ForceIrq {
		forceIrqVal = 1
	}
	var irqEnVal uint32
	if dma.IrqEn {
		irqEnVal = 1
	}
	var irqVal uint32
	if dma.Irq() {
		irqVal = 1
	}

	var r uint32 = 0
	r |= uint32(dma.IrqDummy)
	r |= forceIrqVal << 15
	r |= uint32(dma.ChannelIrqEn) << 16
	r |= irqEnVal << 23
	r |= uint32(dma.ChannelIrqFlags) << 24
	r |= irqVal << 31
	return r
}

// Set the value of the interrupt register
func (dma *DMA) SetInterrupt(val uint32) {
	// unknown what bits [5:0] do
	dma.IrqDummy = uint8(val & 0x3f)
	dma.ForceIrq = (val>>15)&1 != 0
	dma.ChannelIrqEn = uint8((val >> 16) & 0x7f)
	dma.IrqEn = (val>>23)&1 != 0

	// writing 1 to a flag resets it
	ack := uint8((val >> 24) & 0x7f)
	dma.ChannelIrqFlags &= ^ack
}

// completionCost estimates the bus cycles port's whole transfer of words
// words occupies, approximating each target's real transfer rate: OTC and
// the GPU move roughly one word per cycle, the SPU's slower serial bus
// takes about four, and the CD-ROM's access latency dominates regardless
// of how many words the one sector-sized transfer carries.
func completionCost(port Port, words uint32) uint64 {
	switch port {
	case PORT_CDROM:
		return 24
	case PORT_SPU:
		return uint64(words) * 4
	default: // PORT_OTC, PORT_GPU, and the rest: ~1 cycle/word
		return uint64(words)
	}
}

// linkedListWordCount walks a GPU command-list chain the same way
// runLinkedList does, without writing anything, so RunIfActive can cost a
// linked-list transfer before any of it has actually run.
func linkedListWordCount(bus *Bus, base uint32) uint32 {
	addr := base & 0x1ffffc
	var words uint32
	for i := 0; i < 1<<20; i++ { // safety cap against a corrupt or circular list
		header := bus.Ram.Load32(addr)
		words += header >> 24
		if header&0x800000 != 0 {
			break
		}
		addr = header & 0x1ffffc
	}
	return words
}

// RunIfActive is the bus's DMA trigger point: if Active() reports the CPU
// (or linked-list/request sync) has started index's channel and it isn't
// already mid-transfer, it schedules that channel's completion the
// estimated bus time from now rather than running it in place — the
// transfer itself, the Enable clear, and INTC.DMA all happen when that
// event fires, not at the triggering store. Real hardware also chops long
// block transfers and yields cycles back to the CPU
// (Channel.Chop/ChopDmaSz/ChopCpuSz); that interleaving remains unmodeled,
// an Open Question resolved in favor of correctness-over-cycle-exactness
// for a peripheral that games only ever poll for completion, never race
// against — charging the completion-event cost itself is not optional.
func (dma *DMA) RunIfActive(bus *Bus, index int) {
	channel := dma.Channels[index]
	if !channel.Active() || dma.busy[index] {
		return
	}
	port := PortFromIndex(uint32(index))

	_, words := channel.TransferSize()
	if channel.Sync == SYNC_LINKED_LIST {
		words = linkedListWordCount(bus, channel.Base)
	}
	cost := completionCost(port, words)

	if dma.Sched != nil {
		dma.busy[index] = true
		dma.Sched.Add(HandlerDMA, int32(index), cost)
	} else {
		dma.complete(bus, index)
	}
}

// FireCompletions is bound to the scheduler's DMA handler: param carries the
// channel index this particular completion event belongs to, so each
// channel's transfer completes independently instead of all sharing one
// scheduler slot.
func (dma *DMA) FireCompletions(param int32, _ uint64) {
	index := int(param)
	dma.busy[index] = false
	dma.complete(dma.bus, index)
}

// complete actually moves a channel's transfer and raises its completion
// IRQ; this is deferred from the triggering store to the scheduled
// completion event (or run inline when no scheduler is attached, e.g. unit
// tests that drive DMA directly).
func (dma *DMA) complete(bus *Bus, index int) {
	channel := dma.Channels[index]
	port := PortFromIndex(uint32(index))

	switch {
	case port == PORT_OTC:
		dma.runOTC(bus, channel)
	case channel.Sync == SYNC_LINKED_LIST:
		dma.runLinkedList(bus, port, channel)
	default:
		dma.runBlock(bus, port, channel)
	}

	channel.Done()
	if dma.ChannelIrqEn&(1<<index) != 0 {
		dma.ChannelIrqFlags |= 1 << index
	}
	if dma.Irq() && bus.Irq != nil {
		bus.Irq.SendInterrupt(IrqDMA)
	}
}

// runOTC builds the GPU ordering-table linked list the BIOS/games expect in
// RAM before issuing GP0(0xA2) draws: each word points to the word before
// it, and the list terminates in the 0x00FFFFFF end marker.
func (dma *DMA) runOTC(bus *Bus, channel *Channel) {
	_, size := channel.TransferSize()
	addr := channel.Base & 0x1ffffc

	for remaining := size; remaining > 0; remaining-- {
		var word uint32
		if remaining == 1 {
			word = 0x00ffffff
		} else {
			word = (addr - 4) & 0x1ffffc
		}
		bus.Ram.Store32(addr, word)
		addr = (addr - 4) & 0x1ffffc
	}
}

// runLinkedList chases the GPU command-list chain: each node is a header
// word (bits [31:24] hold the node's payload word count, bits [23:0] point
// to the next node or carry the 0x800000 end marker) followed by that many
// GP0 command words.
func (dma *DMA) runLinkedList(bus *Bus, port Port, channel *Channel) {
	if port != PORT_GPU {
		invariant("dma", "linked-list sync used on non-GPU port %d", port)
	}
	addr := channel.Base & 0x1ffffc

	for {
		header := bus.Ram.Load32(addr)
		count := header >> 24

		for i := uint32(0); i < count; i++ {
			addr = (addr + 4) & 0x1ffffc
			bus.GPU.WriteGP0(bus.Ram.Load32(addr))
		}

		if header&0x800000 != 0 {
			break
		}
		addr = header & 0x1ffffc
	}
}

// runBlock moves a manual- or request-synced transfer's whole block between
// RAM and the target port, one word at a time in the direction and address
// step the channel's control register selected.
func (dma *DMA) runBlock(bus *Bus, port Port, channel *Channel) {
	_, size := channel.TransferSize()
	addr := channel.Base

	step := func() {
		if channel.Step == STEP_INCREMENT {
			addr = (addr + 4) & 0x1ffffc
		} else {
			addr = (addr - 4) & 0x1ffffc
		}
	}

	for remaining := size; remaining > 0; remaining-- {
		curAddr := addr & 0x1ffffc
		if channel.Direction == DIRECTION_FROM_RAM {
			word := bus.Ram.Load32(curAddr)
			dma.writePort(bus, port, word)
		} else {
			bus.Ram.Store32(curAddr, dma.readPort(bus, port))
		}
		step()
	}
}

// readPort pulls one word from the DMA source port when filling RAM.
func (dma *DMA) readPort(bus *Bus, port Port) uint32 {
	switch port {
	case PORT_GPU:
		return bus.GPU.Read()
	case PORT_CDROM:
		return bus.CDROM.ReadDataWord()
	case PORT_MDEC_OUT:
		return bus.MDEC.ReadWord()
	default:
		unimplemented("dma", "read from port %d", port)
		return 0
	}
}

// writePort pushes one word read from RAM to the DMA destination port.
func (dma *DMA) writePort(bus *Bus, port Port, word uint32) {
	switch port {
	case PORT_GPU:
		bus.GPU.WriteGP0(word)
	case PORT_SPU:
		bus.SPU.WriteFIFO(word)
	case PORT_MDEC_IN:
		bus.MDEC.WriteWord(word)
	default:
		unimplemented("dma", "write to port %d", port)
	}
}
