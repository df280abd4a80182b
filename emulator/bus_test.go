package emulator

import "testing"

func TestAddressMaskingCollapsesSegmentMirrors(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	// KUSEG, KSEG0 and KSEG1 mirrors of the same physical offset must mask
	// down to the identical address; KSEG2 (cache control) passes through.
	assert(maskRegion(0x00001000) == 0x00001000)
	assert(maskRegion(0x80001000) == 0x00001000)
	assert(maskRegion(0xa0001000) == 0x00001000)
	assert(maskRegion(0xfffe0130) == 0xfffe0130)
}

func TestBusRAMRoundTripThroughEverySegmentMirror(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	bus := NewBus(testBIOS())

	bus.Store32(0x80000010, 0xdeadbeef)
	assert(bus.Load32(0x00000010) == 0xdeadbeef)
	assert(bus.Load32(0xa0000010) == 0xdeadbeef)
	assert(bus.Load32(0x80000010) == 0xdeadbeef)
}
