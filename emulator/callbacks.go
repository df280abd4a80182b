package emulator

// Collaborators injected from outside the core. The core never imports a
// graphics, audio, or filesystem library; a host binds these to whatever
// presentation stack it likes (see the sibling video/audio packages).

// FramebufferSink receives the VRAM contents once per displayed frame.
// pixels is 1024*512 BGR555+mask values (spec 1024x512x2 byte layout);
// pitch is the stride in pixels (always 1024 for this core).
type FramebufferSink interface {
	Present(pixels []uint16, pitch, width, height int)
}

// InputSource is polled once per frame for the 16-bit active-low digital
// pad state, in PSX bit order (SELECT=0 .. SQUARE=15).
type InputSource interface {
	PollButtons() uint16
}

// AudioSink receives signed 16-bit stereo PCM as separate left- and
// right-channel slices. The SPU holds the installed sink but does not decode
// or mix voices, so nothing in this package calls WriteSamples.
type AudioSink interface {
	WriteSamples(left, right []int16)
}

// TTYSink receives characters written through the BIOS B0(0x3D) putchar
// trampoline.
type TTYSink interface {
	WriteByte(b byte) error
}

type nullFramebufferSink struct{}

func (nullFramebufferSink) Present([]uint16, int, int, int) {}

type nullInputSource struct{}

func (nullInputSource) PollButtons() uint16 { return 0xffff }

type nullAudioSink struct{}

func (nullAudioSink) WriteSamples(left, right []int16) {}

type nullTTYSink struct{}

func (nullTTYSink) WriteByte(byte) error { return nil }
