package emulator

import "testing"

func TestBGR555RoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	// Expanding a 5-bit channel to 8 bits loses nothing, so packing the
	// expanded value again must be a fixed point.
	for _, c := range [][3]uint8{{0, 0, 0}, {0xff, 0xff, 0xff}, {0x08, 0x88, 0xf8}} {
		packed := rgb8ToBgr555(c[0], c[1], c[2], false)
		r, g, b := bgr555ToRGB8(packed)
		assert(rgb8ToBgr555(r, g, b, false) == packed)
	}

	masked := rgb8ToBgr555(0x10, 0x20, 0x30, true)
	assert(masked&0x8000 != 0)
}

func TestCopyCPUToVRAMRoundTrip(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	v := NewVRAM()
	words := []uint16{0x1111, 0x2222, 0x3333, 0x4444, 0x5555, 0x6666}
	v.CopyCPUToVRAM(10, 20, 3, 2, words, false, false)

	got := v.CopyVRAMToCPU(10, 20, 3, 2)
	assert(len(got) == len(words))
	for i := range words {
		assert(got[i] == words[i])
	}
}

func TestCopyCPUToVRAMPreservesMaskedPixels(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	v := NewVRAM()
	v.Set(0, 0, 0x8abc) // mask bit set

	v.CopyCPUToVRAM(0, 0, 1, 1, []uint16{0x0123}, false, true)

	assert(v.Get(0, 0) == 0x8abc) // untouched: destination was masked
}
