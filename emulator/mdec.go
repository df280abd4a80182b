package emulator

// MDEC is the macroblock decoder's register skeleton: command/status
// registers and a FIFO pair the DMA engine (PORT_MDEC_IN/PORT_MDEC_OUT) can
// exercise. Actual YCbCr/IDCT decoding is a Non-goal (spec excludes video
// playback); this models the register contract precisely enough that a
// guest probing for MDEC presence and wiring up its DMA channels behaves
// correctly, without producing decoded macroblocks.
type MDEC struct {
	Command    *WordFifo
	Output     *WordFifo
	Status     uint32
	halfWords  uint16 // remaining halfwords in the current block, from the command header
}

func NewMDEC() *MDEC {
	return &MDEC{
		Command: NewWordFifo(32),
		Output:  NewWordFifo(32),
	}
}

// WriteWord handles a PORT_MDEC_IN DMA word or a direct register store at
// 0x1F801820: command headers set the remaining block size, payload words
// are otherwise discarded since no decode pipeline is modeled.
func (m *MDEC) WriteWord(word uint32) {
	m.Command.Push(word)
	if m.halfWords == 0 {
		m.halfWords = uint16(word)
	} else {
		m.halfWords--
	}
}

// ReadWord handles a PORT_MDEC_OUT DMA word or a direct register load: with
// no decode pipeline, the output FIFO never has real macroblock data, so
// this returns zero if nothing was explicitly queued for test purposes.
func (m *MDEC) ReadWord() uint32 {
	if m.Output.IsEmpty() {
		return 0
	}
	return m.Output.Pop()
}

func (m *MDEC) StatusReg() uint32 {
	r := m.Status
	r |= oneIfTrue(m.Command.IsFull()) << 28
	r |= oneIfTrue(!m.Output.IsEmpty()) << 27
	r |= uint32(m.halfWords)
	return r
}

func (m *MDEC) SetControl(val uint32) {
	if val&(1<<31) != 0 {
		m.Command.Clear()
		m.Output.Clear()
		m.halfWords = 0
	}
}
