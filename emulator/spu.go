package emulator

// SPU is the sound processing unit's register skeleton: the voice register
// bank, main volume, control/status registers, the CD-audio Mixer feeding
// it from the CD-ROM drive, and the FIFO the DMA engine's PORT_SPU channel
// transfers ADPCM blocks through. Actual ADPCM decode and voice mixing into
// PCM is a Non-goal (spec excludes audio output fidelity); this carries
// enough of the contract that a guest's SPU initialization and DMA transfer
// sequencing behave correctly and produce silence rather than a crash.
type SPU struct {
	Voices [24]SPUVoice
	Mixer  Mixer

	MainVolumeLeft, MainVolumeRight   int16
	ReverbVolumeLeft, ReverbVolumeRight int16

	Control uint16
	Status  uint16
	TransferAddr uint16

	FIFO *WordFifo

	Sink AudioSink
}

type SPUVoice struct {
	VolumeLeft, VolumeRight int16
	SampleRate              uint16
	StartAddr               uint16
	ADSR                    uint32
	CurrentVolume           int16
	RepeatAddr              uint16
}

// Mixer is the CD-DA audio mixer: per-channel send levels routing the
// CD-ROM drive's stereo PCM into the SPU's left/right mix.
type Mixer struct {
	CdLeftToSpuLeft   uint8
	CdLeftToSpuRight  uint8
	CdRightToSpuLeft  uint8
	CdRightToSpuRight uint8
}

func NewSPU() *SPU {
	spu := &SPU{FIFO: NewWordFifo(32)}
	if spu.Sink == nil {
		spu.Sink = nullAudioSink{}
	}
	return spu
}

// WriteFIFO handles a PORT_SPU DMA word, queuing raw ADPCM bytes for the
// (unmodeled) voice decode pipeline.
func (spu *SPU) WriteFIFO(word uint32) {
	spu.FIFO.Push(word)
}

func (spu *SPU) Load(size AccessSize, offset uint32) interface{} {
	switch {
	case offset < 0x180: // per-voice registers, 16 bytes each
		return accessSizeFromU32(size, 0)
	case offset == 0x1aa:
		return accessSizeFromU32(size, uint32(spu.Control))
	case offset == 0x1ae:
		return accessSizeFromU32(size, uint32(spu.Status))
	default:
		return accessSizeFromU32(size, 0)
	}
}

func (spu *SPU) Store(size AccessSize, val interface{}, offset uint32) {
	v16 := accessSizeToU16(size, val)
	switch {
	case offset < 0x180:
		// per-voice register write: not modeled beyond accepting the value
	case offset == 0x1aa:
		spu.Control = v16
	case offset == 0x1a8:
		spu.TransferAddr = v16
	case offset == 0x1b0:
		spu.MainVolumeLeft = int16(v16)
	case offset == 0x1b2:
		spu.MainVolumeRight = int16(v16)
	case offset == 0x1b8:
		spu.Mixer.CdLeftToSpuLeft = uint8(v16)
	case offset == 0x1ba:
		spu.Mixer.CdRightToSpuRight = uint8(v16)
	default:
		// remaining registers (reverb, ADSR defaults, etc.) accepted but unmodeled
	}
}
