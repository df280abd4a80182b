package emulator

// IrqCode is one of the CD-ROM controller's three interrupt classes.
type IrqCode uint8

const (
	IrqSectorReady IrqCode = 1 // INT1: data/audio sector has arrived in the read buffer
	IrqDone        IrqCode = 2 // INT2: second response of a two-part command
	IrqOK          IrqCode = 3 // INT3: first response, command accepted
	IrqDiskError   IrqCode = 5 // INT5: invalid command or seek/read error
)

type driveState int

const (
	driveIdle driveState = iota
	driveSeeking
	driveReading
	drivePlaying
)

// CdRom is the command/response state machine behind 0x1F801800-0x1F801803:
// an index register that remaps three of the four ports, parameter and
// response FIFOs, a 2352-byte sector read buffer, and the seek/read timing
// model. Interrupt delivery is asynchronous: a command's INT3 response (and
// any later INT1/INT2) arrives only once the scheduler fires the pending
// delay, exactly as the real drive's firmware would.
type CdRom struct {
	Index    uint8
	Params   *ByteFifo
	Response *ByteFifo

	IrqMask  uint8
	IrqFlags uint8

	StatusByte uint8 // motor/seek/read/shell-open/play flags
	ModeByte   uint8 // speed, full-sector, XA, auto-pause

	state      driveState
	seekTarget Msf
	position   Msf

	readBuffer   [2352]byte
	readBufIndex int
	readBufLen   int

	// responses tracks every in-flight command response (and the pending
	// leg of a two-phase one) by a ticket id handed to the scheduler as
	// that event's param, so an arbitrary number of them can coexist
	// instead of all contending for one pending slot.
	responses      map[int32]cdromResponse
	nextResponseID int32

	Disc  *Disc
	Rand  *CdRomRng
	IrqCtrl *IrqState
	Sched   *Scheduler

	DoubleSpeed bool
}

func NewCdRom() *CdRom {
	return &CdRom{
		Params:     NewByteFifo(),
		Response:   NewByteFifo(),
		Rand:       NewCdRomRng(),
		StatusByte: 0x10, // shell open until a disc is mounted
		responses:  make(map[int32]cdromResponse),
	}
}

// cdromResponse is one queued command response awaiting delivery: the
// interrupt class it raises, and the bytes it pushes into the response
// FIFO (nil for a response leg that only raises an interrupt, e.g. GetID's
// INT2 or ReadN's recurring INT1, neither of which touch the FIFO again).
type cdromResponse struct {
	irq     IrqCode
	payload []byte
}

// cdromSectorEventParam marks a HandlerCDROM event as a recurring
// sector-ready tick rather than a command-response ticket; response ids
// are always non-negative, so this sentinel can never collide with one.
const cdromSectorEventParam int32 = -1

func (cdrom *CdRom) Status() uint8 {
	r := cdrom.Index
	r |= oneIfTrue8(false) << 2 // XA-ADPCM FIFO not modeled, always "empty"
	r |= oneIfTrue8(cdrom.Params.IsEmpty()) << 3
	r |= oneIfTrue8(cdrom.Params.IsFull()) << 4
	r |= oneIfTrue8(!cdrom.Response.IsEmpty()) << 5
	r |= oneIfTrue8(cdrom.readBufIndex < cdrom.readBufLen) << 6
	r |= oneIfTrue8(cdrom.state != driveIdle) << 7
	return r
}

func (cdrom *CdRom) Irq() bool {
	return cdrom.IrqFlags&cdrom.IrqMask != 0
}

func (cdrom *CdRom) SetIndex(index uint8) {
	cdrom.Index = index & 3
}

func (cdrom *CdRom) AcknowledgeIrq(val uint8) {
	cdrom.IrqFlags &^= val
}

func (cdrom *CdRom) SetIrqMask(val uint8) {
	cdrom.IrqMask = val & 0x1f
}

// queueResponse reserves a ticket for a response awaiting delivery and
// returns it; the caller hands the ticket to the scheduler as the event's
// param so FireResponse can look the response back up when it fires.
func (cdrom *CdRom) queueResponse(irq IrqCode, payload []byte) int32 {
	id := cdrom.nextResponseID
	cdrom.nextResponseID++
	cdrom.responses[id] = cdromResponse{irq: irq, payload: payload}
	return id
}

// scheduleResponse queues the given response bytes and interrupt class to
// be delivered after delay cycles, via the scheduler's CD-ROM handler.
func (cdrom *CdRom) scheduleResponse(irq IrqCode, payload []byte, delay uint32) {
	id := cdrom.queueResponse(irq, payload)
	if cdrom.Sched != nil {
		cdrom.Sched.Add(HandlerCDROM, id, uint64(delay))
	} else {
		cdrom.deliverResponse(id)
	}
}

// scheduleTwoPhaseResponse is scheduleResponse for commands that raise a
// second interrupt delay1+delay2 cycles after issue (GetID's INT2
// following its INT3), without
// that second leg touching the response FIFO again. The two legs are
// queued as independent tickets up front, so a later command's own
// response can never collide with either of them.
func (cdrom *CdRom) scheduleTwoPhaseResponse(irq1 IrqCode, payload []byte, delay1 uint32, irq2 IrqCode, delay2 uint32) {
	id1 := cdrom.queueResponse(irq1, payload)
	id2 := cdrom.queueResponse(irq2, nil)
	if cdrom.Sched != nil {
		cdrom.Sched.Add(HandlerCDROM, id1, uint64(delay1))
		cdrom.Sched.Add(HandlerCDROM, id2, uint64(delay1)+uint64(delay2))
	} else {
		cdrom.deliverResponse(id1)
		cdrom.deliverResponse(id2)
	}
}

// FireResponse is bound to the scheduler's CD-ROM handler. param is either
// cdromSectorEventParam, meaning a recurring sector-ready tick is due, or a
// response ticket id queued by scheduleResponse/scheduleTwoPhaseResponse.
func (cdrom *CdRom) FireResponse(param int32, _ uint64) {
	if param == cdromSectorEventParam {
		cdrom.deliverSector()
		return
	}
	cdrom.deliverResponse(param)
}

// deliverResponse looks up id's queued response, pushes its payload (if
// any) into the response FIFO, and raises INTC.CDROM. Delivering an INT1
// this way is how ReadN's command response hands off into the recurring
// sector-streaming loop: the first sector read starts right after this
// response is seen, not as a second queued ticket.
func (cdrom *CdRom) deliverResponse(id int32) {
	resp, ok := cdrom.responses[id]
	if !ok {
		return
	}
	delete(cdrom.responses, id)

	if resp.payload != nil {
		cdrom.Response.Clear()
		cdrom.Response.PushSlice(resp.payload)
	}
	cdrom.IrqFlags = uint8(resp.irq)

	if cdrom.Irq() && cdrom.IrqCtrl != nil {
		cdrom.IrqCtrl.SendInterrupt(IrqCDROM)
	}

	// ReadN's first INT1 already raised its interrupt above, carrying the
	// status byte queued at command time; what starts here is just the
	// read and the recurring chain, not a second interrupt for the same
	// event.
	if resp.irq == IrqSectorReady {
		cdrom.readSectorIntoBuffer()
		cdrom.armSectorEvent(cdrom.sectorPeriod())
	}
}

// sectorPeriod is the cycle count between successive sectors at the
// drive's current speed: single-speed sectors arrive every 500000 cycles,
// double-speed every 250000.
func (cdrom *CdRom) sectorPeriod() uint32 {
	if cdrom.DoubleSpeed {
		return TIMING_SECTOR_PERIOD / 2
	}
	return TIMING_SECTOR_PERIOD
}

// armSectorEvent schedules the next recurring sector-ready tick.
func (cdrom *CdRom) armSectorEvent(delay uint32) {
	if cdrom.Sched != nil {
		cdrom.Sched.Add(HandlerCDROM, cdromSectorEventParam, uint64(delay))
	} else {
		cdrom.deliverSector()
	}
}

// readSectorIntoBuffer loads one sector from Disc at the current streaming
// position into readBuffer and advances the position to the next sector,
// the way the drive's firmware does on every INT1 while reading, whether
// or not that particular INT1 is the one that also raises the interrupt.
func (cdrom *CdRom) readSectorIntoBuffer() {
	if cdrom.Disc == nil {
		return
	}
	sector, err := cdrom.Disc.ReadSector(cdrom.position)
	if err != nil {
		return
	}

	copy(cdrom.readBuffer[:], sector.DataBytes())
	cdrom.readBufLen = len(cdrom.readBuffer)
	if cdrom.ModeByte&0x20 != 0 { // FullSector: skip the 12-byte sync pattern, deliver from the header onward
		cdrom.readBufIndex = 12
	} else { // default: skip sync+header+subheader; the buffer still ends at the sector's end, so reads past the 0x800 user-data bytes return the EDC/ECC bytes that follow
		cdrom.readBufIndex = 24
	}

	cdrom.position = cdrom.position.Next()
}

// deliverSector is the recurring sector-ready tick after the first one:
// it reads the next sector, raises INT1 itself (no response FIFO involved
// this time), and reschedules one sector period later. It stops the chain
// simply by declining to reschedule once the drive has left the reading
// state (Stop/Pause), without needing to cancel anything already in
// flight.
func (cdrom *CdRom) deliverSector() {
	if cdrom.state != driveReading {
		return
	}

	cdrom.readSectorIntoBuffer()

	cdrom.IrqFlags = uint8(IrqSectorReady)
	if cdrom.Irq() && cdrom.IrqCtrl != nil {
		cdrom.IrqCtrl.SendInterrupt(IrqCDROM)
	}

	cdrom.armSectorEvent(cdrom.sectorPeriod())
}

// ReadDataWord pulls one little-endian word from the sector read buffer,
// advancing past it; the PORT_CDROM DMA channel uses this instead of the
// single-byte PIO path at register 2 index 0.
func (cdrom *CdRom) ReadDataWord() uint32 {
	var w uint32
	for i := 0; i < 4; i++ {
		var b byte
		if cdrom.readBufIndex < cdrom.readBufLen {
			b = cdrom.readBuffer[cdrom.readBufIndex]
			cdrom.readBufIndex++
		}
		w |= uint32(b) << (8 * i)
	}
	return w
}

func (cdrom *CdRom) PushParam(param uint8) {
	cdrom.Params.Push(param)
}

func (cdrom *CdRom) Command(cmd uint8) {
	params := make([]byte, cdrom.Params.Len())
	for i := range params {
		params[i] = cdrom.Params.Pop()
	}

	switch cmd {
	case 0x01: // GetStat
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
	case 0x02: // Setloc
		if len(params) >= 3 {
			cdrom.seekTarget = MsfFromBcd(params[0], params[1], params[2])
		}
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
	case 0x06: // ReadN
		cdrom.state = driveReading
		cdrom.position = cdrom.seekTarget
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
		cdrom.StatusByte |= 0x20 // Read
		cdrom.scheduleResponse(IrqSectorReady, []byte{cdrom.StatusByte}, TIMING_EXECUTION+TIMING_READ_RX_PUSH)
	case 0x08: // Stop
		cdrom.state = driveIdle
		cdrom.StatusByte &^= 0x20
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
	case 0x09: // Pause
		cdrom.state = driveIdle
		cdrom.StatusByte &^= 0x20
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_PAUSE_RX_PUSH)
	case 0x0a: // Init
		cdrom.StatusByte &^= 0x10
		cdrom.ModeByte = 0
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_INIT_RX_PUSH)
	case 0x0b: // Mute
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
	case 0x0e: // Setmode
		if len(params) >= 1 {
			cdrom.ModeByte = params[0]
			cdrom.DoubleSpeed = params[0]&0x80 != 0
		}
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_EXECUTION)
	case 0x0f: // GetlocL
		cdrom.scheduleResponse(IrqOK, cdrom.readBuffer[12:20], TIMING_EXECUTION)
	case 0x10: // GetlocP
		cdrom.scheduleResponse(IrqOK, cdrom.position.Slice(), TIMING_EXECUTION)
	case 0x13: // GetTN: first/last track number, BCD. Every image here is a
		// single data track, so the answer is always track 1 through 1.
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte, 0x01, 0x01}, TIMING_EXECUTION)
	case 0x14: // GetTD: start MSF (minute, second) of the requested track,
		// BCD; track 0 asks for the lead-out position instead.
		var track byte
		if len(params) >= 1 {
			track = params[0]
		}
		mm, ss := cdrom.trackStart(track)
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte, mm, ss}, TIMING_EXECUTION)
	case 0x15: // SeekL
		delay := cdrom.CalcSeekTime(cdrom.position.SectorIndex(), cdrom.seekTarget.SectorIndex(), true, false)
		cdrom.position = cdrom.seekTarget
		cdrom.state = driveSeeking
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, delay)
	case 0x19: // Test
		cdrom.commandTest(params)
	case 0x1a: // GetID
		code := [4]byte{'S', 'C', 'E', 'I'}
		if cdrom.Disc != nil {
			code = cdrom.Disc.LicenseCode()
		}
		payload := []byte{cdrom.StatusByte, 0x02, 0x00, 0x20, 0x00, code[0], code[1], code[2], code[3]}
		cdrom.scheduleTwoPhaseResponse(IrqOK, payload, TIMING_GET_ID_ASYNC, IrqDone, TIMING_GET_ID_RX_PUSH)
	case 0x1e: // ReadTOC
		cdrom.scheduleResponse(IrqOK, []byte{cdrom.StatusByte}, TIMING_READTOC_RX_PUSH)
	default:
		unimplemented("cdrom", "unknown command 0x%02x", cmd)
	}

	cdrom.Params.Clear()
}

func (cdrom *CdRom) commandTest(params []byte) {
	if len(params) != 1 {
		cdrom.scheduleResponse(IrqDiskError, []byte{cdrom.StatusByte | 1}, TIMING_EXECUTION)
		return
	}
	switch params[0] {
	case 0x20:
		cdrom.scheduleResponse(IrqOK, []byte{0x97, 0x01, 0x10, 0xc2}, TIMING_EXECUTION)
	default:
		cdrom.scheduleResponse(IrqDiskError, []byte{cdrom.StatusByte | 1}, TIMING_EXECUTION)
	}
}

// trackStart returns the BCD minute/second GetTD reports for track, or for
// the disc's lead-out when track is 0 or past the last track; every image
// here is a single data track, so the sole real track starts at 00:02.
func (cdrom *CdRom) trackStart(track byte) (mm, ss byte) {
	if track == 1 {
		return 0x00, 0x02
	}
	if cdrom.Disc != nil {
		return cdrom.Disc.LeadOutMsf()
	}
	return 0x00, 0x02
}

// CalcSeekTime estimates the drive's seek latency in CPU cycles as a
// function of the distance (in sectors) between the current and target
// position, spinup state, and a small amount of jitter to avoid lockstep
// timing artifacts in guest code that polls status too eagerly.
func (cdrom *CdRom) CalcSeekTime(initial, target uint32, motorOn, paused bool) uint32 {
	var ret int64

	if !motorOn {
		initial = 0
		ret += 33868800
	}

	diff := absInt64(int64(initial) - int64(target))
	ret += maxInt64(diff*33868800*1000/(72*60*75)/1000, 20000)

	if diff >= 2250 {
		ret += 33868800 * 300 / 1000
	} else if paused {
		if cdrom.DoubleSpeed {
			ret += 1237952 * 2
		} else {
			ret += 1237952
		}
	} else if diff >= 3 && diff < 12 {
		if cdrom.DoubleSpeed {
			ret += 33868800 / (75 * 2) * 4
		} else {
			ret += 33868800 / 75 * 4
		}
	}

	ret += int64(cdrom.Rand.Next() % 25000)
	if ret > 0xffffffff {
		ret = 0xffffffff
	}
	return uint32(ret)
}

func (cdrom *CdRom) Load(size AccessSize, offset uint32) uint8 {
	if size != AccessByte {
		unimplemented("cdrom", "load size %d", size)
	}

	switch offset {
	case 0:
		return cdrom.Status()
	case 1:
		return cdrom.Response.Pop()
	case 2:
		if cdrom.readBufIndex < cdrom.readBufLen {
			b := cdrom.readBuffer[cdrom.readBufIndex]
			cdrom.readBufIndex++
			return b
		}
		return 0
	case 3:
		switch cdrom.Index {
		case 0, 2:
			return cdrom.IrqMask | 0xe0
		default:
			return cdrom.IrqFlags | 0xe0
		}
	}
	unimplemented("cdrom", "load register %d", offset)
	return 0
}

func (cdrom *CdRom) Store(offset uint32, size AccessSize, val uint8) {
	if size != AccessByte {
		unimplemented("cdrom", "store size %d", size)
	}

	switch offset {
	case 0:
		cdrom.SetIndex(val)
	case 1:
		switch cdrom.Index {
		case 0:
			cdrom.Command(val)
		default:
			unimplemented("cdrom", "write to register 1 at index %d", cdrom.Index)
		}
	case 2:
		switch cdrom.Index {
		case 0:
			cdrom.PushParam(val)
		case 1:
			cdrom.SetIrqMask(val)
		default:
			unimplemented("cdrom", "write to register 2 at index %d", cdrom.Index)
		}
	case 3:
		switch cdrom.Index {
		case 1:
			cdrom.AcknowledgeIrq(val & 0x1f)
			if val&0x40 != 0 {
				cdrom.Params.Clear()
			}
		default:
			unimplemented("cdrom", "write to register 3 at index %d", cdrom.Index)
		}
	default:
		unimplemented("cdrom", "store register %d", offset)
	}
}
