// Package audio turns the emulator core's AudioSink callback into an
// ebiten audio stream: the SPU mixer's PCM frames are appended to a ring
// buffer that ebiten's audio.Player drains through io.Reader, exactly the
// streaming pattern ebiten's own audio examples use for a synthesized
// source with no fixed length.
package audio

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const SampleRate = 44100

// Sink implements emulator.AudioSink and io.Reader: WriteSamples appends to
// the buffer from the emulator's goroutine, Read drains it from ebiten's
// audio goroutine. Silence is emitted when the buffer underruns rather than
// blocking, since the core must never wait on the presentation layer.
type Sink struct {
	mu     sync.Mutex
	buf    []byte
	player *audio.Player
}

const maxBufferedBytes = 1 << 20 // ~6s of 16-bit stereo audio at 44.1kHz

func NewSink(ctx *audio.Context) (*Sink, error) {
	s := &Sink{}
	player, err := ctx.NewPlayer(s)
	if err != nil {
		return nil, err
	}
	player.Play()
	s.player = player
	return s, nil
}

// WriteSamples implements emulator.AudioSink.
func (s *Sink) WriteSamples(left, right []int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range left {
		l, r := uint16(left[i]), uint16(right[i])
		s.buf = append(s.buf, byte(l), byte(l>>8), byte(r), byte(r>>8))
	}
	if over := len(s.buf) - maxBufferedBytes; over > 0 {
		s.buf = s.buf[over:]
	}
}

// Read implements io.Reader for ebiten's streaming audio.Player.
func (s *Sink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
