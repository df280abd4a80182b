package emulator

// Region ranges. Each peripheral is mapped once here; Bus.Load/Store pick
// the handler by linear range scan, which is fine at this peripheral count
// and keeps the table declarative instead of a hand-tuned radix switch.
var (
	BIOS_RANGE    = NewRange(0x1fc00000, BIOS_SIZE)
	MEM_CONTROL   = NewRange(0x1f801000, 36)
	RAM_SIZE      = NewRange(0x1f801060, 4)
	CACHE_CONTROL = NewRange(0xfffe0130, 4)
	RAM_RANGE     = NewRange(0x00000000, RAM_ALLOC_SIZE)
	SCRATCH_RANGE = NewRange(0x1f800000, SCRATCH_PAD_SIZE)
	SPU_RANGE     = NewRange(0x1f801c00, 640)
	EXPANSION1    = NewRange(0x1f000000, 512*1024)
	EXPANSION2    = NewRange(0x1f802000, 66)

	IRQ_RANGE    = NewRange(0x1f801070, 8)
	TIMER_RANGE  = NewRange(0x1f801100, 48)
	DMA_RANGE    = NewRange(0x1f801080, 128)
	GPU_RANGE    = NewRange(0x1f801810, 8)
	CDROM_RANGE  = NewRange(0x1f801800, 4)
	SIO_RANGE    = NewRange(0x1f801040, 16)
	MDEC_RANGE   = NewRange(0x1f801820, 8)
)

// regionMask strips the KUSEG/KSEG0/KSEG1 segment bits from a CPU-visible
// address, collapsing all three mirrors of the low 512MB onto the same
// physical range; KSEG2 (where the cache control register lives) passes
// through untouched.
var regionMask = [8]uint32{
	0x7fffffff, 0x7fffffff, 0x7fffffff, 0x7fffffff, // KUSEG
	0x7fffffff, // KSEG0 (cached)
	0x1fffffff, // KSEG1 (uncached)
	0xffffffff, 0xffffffff, // KSEG2
}

func maskRegion(addr uint32) uint32 {
	return addr & regionMask[addr>>29]
}

// Bus is the memory-mapped address-space decoder wiring every peripheral
// together, forwarding each access to whichever component's Range contains
// it; besides the peripherals it also holds the instruction cache and the
// cache-control and RAM-size registers.
type Bus struct {
	Bios        *BIOS
	Ram         *RAM
	Scratch     *ScratchPad
	DMA         *DMA
	GPU         *GPU
	CDROM       *CdRom
	Irq         *IrqState
	Timers      *Timers
	SIO         *SIO
	MDEC        *MDEC
	SPU         *SPU
	ICache      [256]ICacheLine
	CacheCtrl   CacheControl
	RamSizeReg  uint32

	Debugger *Debugger
}

func NewBus(bios *BIOS) *Bus {
	bus := &Bus{
		Bios:    bios,
		Ram:     NewRAM(),
		Scratch: NewScratchPad(),
		DMA:     NewDMA(),
		GPU:     NewGPU(),
		CDROM:   NewCdRom(),
		Irq:     NewIrqState(),
		Timers:  NewTimers(),
		SIO:     NewSIO(),
		MDEC:    NewMDEC(),
		SPU:     NewSPU(),
	}
	bus.GPU.Irq = bus.Irq
	bus.CDROM.IrqCtrl = bus.Irq
	bus.SIO.Irq = bus.Irq
	bus.DMA.bus = bus
	for i := range bus.ICache {
		bus.ICache[i] = *NewCacheLine()
	}
	return bus
}

func (bus *Bus) Load32(addr uint32) uint32 {
	return accessSizeToU32(AccessWord, bus.load(addr, AccessWord))
}
func (bus *Bus) Load16(addr uint32) uint16 {
	return accessSizeToU16(AccessHalfword, bus.load(addr, AccessHalfword))
}
func (bus *Bus) Load8(addr uint32) uint8 {
	return accessSizeToU8(AccessByte, bus.load(addr, AccessByte))
}

func (bus *Bus) Store32(addr, val uint32) { bus.store(addr, AccessWord, val) }
func (bus *Bus) Store16(addr uint32, val uint16) { bus.store(addr, AccessHalfword, uint32(val)) }
func (bus *Bus) Store8(addr uint32, val uint8)   { bus.store(addr, AccessByte, uint32(val)) }

func (bus *Bus) load(addr uint32, size AccessSize) interface{} {
	if bus.Debugger != nil {
		bus.Debugger.OnMemoryRead(addr)
	}
	pa := maskRegion(addr)

	switch {
	case RAM_RANGE.Contains(pa):
		return bus.Ram.Load(RAM_RANGE.Offset(pa), size)
	case BIOS_RANGE.Contains(pa):
		off := BIOS_RANGE.Offset(pa)
		switch size {
		case AccessWord:
			return bus.Bios.Load32(off)
		case AccessByte:
			return bus.Bios.Load8(off)
		default:
			lo := uint32(bus.Bios.Load8(off))
			hi := uint32(bus.Bios.Load8(off + 1))
			return uint16(lo | hi<<8)
		}
	case SCRATCH_RANGE.Contains(pa):
		return bus.Scratch.Load(SCRATCH_RANGE.Offset(pa), size)
	case IRQ_RANGE.Contains(pa):
		return bus.loadIrq(IRQ_RANGE.Offset(pa), size)
	case DMA_RANGE.Contains(pa):
		return accessSizeFromU32(size, bus.loadDMA(DMA_RANGE.Offset(pa)))
	case GPU_RANGE.Contains(pa):
		switch GPU_RANGE.Offset(pa) {
		case 0:
			return accessSizeFromU32(size, bus.GPU.Read())
		default:
			return accessSizeFromU32(size, bus.GPU.Status())
		}
	case CDROM_RANGE.Contains(pa):
		return bus.CDROM.Load(size, CDROM_RANGE.Offset(pa))
	case TIMER_RANGE.Contains(pa):
		return bus.Timers.Load(size, TIMER_RANGE.Offset(pa))
	case SIO_RANGE.Contains(pa):
		return accessSizeFromU32(size, bus.loadSIO(SIO_RANGE.Offset(pa)))
	case SPU_RANGE.Contains(pa):
		return bus.SPU.Load(size, SPU_RANGE.Offset(pa))
	case MDEC_RANGE.Contains(pa):
		switch MDEC_RANGE.Offset(pa) {
		case 0:
			return accessSizeFromU32(size, bus.MDEC.ReadWord())
		default:
			return accessSizeFromU32(size, bus.MDEC.StatusReg())
		}
	case MEM_CONTROL.Contains(pa), RAM_SIZE.Contains(pa):
		return accessSizeFromU32(size, bus.RamSizeReg)
	case CACHE_CONTROL.Contains(pa):
		return accessSizeFromU32(size, uint32(bus.CacheCtrl))
	case EXPANSION1.Contains(pa), EXPANSION2.Contains(pa):
		return accessSizeFromU32(size, 0xff)
	default:
		unimplemented("bus", "load at address 0x%08x", addr)
		return accessSizeFromU32(size, 0)
	}
}

func (bus *Bus) store(addr uint32, size AccessSize, raw uint32) {
	if bus.Debugger != nil {
		bus.Debugger.OnMemoryWrite(addr)
	}
	pa := maskRegion(addr)
	val := accessSizeFromU32(size, raw)

	switch {
	case RAM_RANGE.Contains(pa):
		bus.Ram.Store(RAM_RANGE.Offset(pa), size, val)
	case SCRATCH_RANGE.Contains(pa):
		bus.Scratch.Store(SCRATCH_RANGE.Offset(pa), size, val)
	case IRQ_RANGE.Contains(pa):
		bus.storeIrq(IRQ_RANGE.Offset(pa), raw)
	case DMA_RANGE.Contains(pa):
		bus.storeDMA(DMA_RANGE.Offset(pa), raw)
	case GPU_RANGE.Contains(pa):
		switch GPU_RANGE.Offset(pa) {
		case 0:
			bus.GPU.WriteGP0(raw)
		default:
			bus.GPU.GP1(raw)
		}
	case CDROM_RANGE.Contains(pa):
		bus.CDROM.Store(CDROM_RANGE.Offset(pa), size, uint8(raw))
	case TIMER_RANGE.Contains(pa):
		bus.Timers.Store(size, val, TIMER_RANGE.Offset(pa))
	case SIO_RANGE.Contains(pa):
		bus.storeSIO(SIO_RANGE.Offset(pa), raw)
	case SPU_RANGE.Contains(pa):
		bus.SPU.Store(size, val, SPU_RANGE.Offset(pa))
	case MDEC_RANGE.Contains(pa):
		switch MDEC_RANGE.Offset(pa) {
		case 0:
			bus.MDEC.WriteWord(raw)
		default:
			bus.MDEC.SetControl(raw)
		}
	case MEM_CONTROL.Contains(pa):
		// latency/expansion timing registers: accepted, not modeled
	case RAM_SIZE.Contains(pa):
		bus.RamSizeReg = raw
	case CACHE_CONTROL.Contains(pa):
		bus.CacheCtrl = CacheControl(raw)
	case EXPANSION1.Contains(pa), EXPANSION2.Contains(pa):
		// parallel/expansion port: accepted, not modeled
	case BIOS_RANGE.Contains(pa):
		invariant("bus", "write to read-only BIOS range at 0x%08x", addr)
	default:
		unimplemented("bus", "store at address 0x%08x (0x%x)", addr, raw)
	}
}

func (bus *Bus) loadIrq(offset uint32, size AccessSize) interface{} {
	switch offset {
	case 0:
		return accessSizeFromU32(size, uint32(bus.Irq.Status))
	default:
		return accessSizeFromU32(size, uint32(bus.Irq.Mask))
	}
}

func (bus *Bus) storeIrq(offset uint32, val uint32) {
	switch offset {
	case 0:
		bus.Irq.Acknowledge(uint16(val))
	default:
		bus.Irq.SetMask(uint16(val))
	}
}

func (bus *Bus) loadSIO(offset uint32) uint32 {
	switch offset {
	case 0:
		return uint32(bus.SIO.ReadData())
	case 4:
		return bus.SIO.Status()
	case 8:
		return uint32(bus.SIO.Mode())
	case 10:
		return uint32(bus.SIO.Control())
	case 14:
		return uint32(bus.SIO.Baud())
	default:
		unimplemented("sio", "load register %d", offset)
		return 0
	}
}

func (bus *Bus) storeSIO(offset uint32, val uint32) {
	switch offset {
	case 0:
		bus.SIO.WriteData(uint8(val))
	case 8:
		bus.SIO.SetMode(uint16(val))
	case 10:
		bus.SIO.SetControl(uint16(val))
	case 14:
		bus.SIO.SetBaud(uint16(val))
	default:
		unimplemented("sio", "store register %d <- 0x%x", offset, val)
	}
}

// loadDMA/storeDMA implement the per-channel register bank (7 channels *
// 4 registers, 0x10 bytes apart) plus the two shared control/interrupt
// registers at 0x1f8010f0/0x1f8010f4.
func (bus *Bus) loadDMA(offset uint32) uint32 {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	if major <= 6 {
		channel := bus.DMA.Channels[major]
		switch minor {
		case 0:
			return channel.Base
		case 4:
			return channel.BlockControl()
		case 8:
			return channel.Control()
		default:
			unimplemented("dma", "load channel %d register %d", major, minor)
		}
	}

	switch offset {
	case 0x70:
		return bus.DMA.Control
	case 0x74:
		return bus.DMA.Interrupt()
	default:
		unimplemented("dma", "load register 0x%x", offset)
	}
	return 0
}

func (bus *Bus) storeDMA(offset uint32, val uint32) {
	major := (offset & 0x70) >> 4
	minor := offset & 0xf

	if major <= 6 {
		channel := bus.DMA.Channels[major]
		switch minor {
		case 0:
			channel.SetBase(val)
		case 4:
			channel.SetBlockControl(val)
		case 8:
			channel.SetControl(val)
		default:
			unimplemented("dma", "store channel %d register %d <- 0x%x", major, minor, val)
		}
		bus.DMA.RunIfActive(bus, int(major))
		return
	}

	switch offset {
	case 0x70:
		bus.DMA.SetControl(val)
	case 0x74:
		bus.DMA.SetInterrupt(val)
	default:
		unimplemented("dma", "store register 0x%x <- 0x%x", offset, val)
	}
}
