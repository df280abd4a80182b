package emulator

import "testing"

// TestDMAOrderingTableInit drives the OTC port exactly the way the BIOS's
// ResetGraph call does: build a 4-entry backward-linked ordering table
// ending in the GPU's 0x00ffffff end-of-list marker, then confirm both the
// RAM contents and the completion IRQ side effects.
func TestDMAOrderingTableInit(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	bus := NewBus(testBIOS())
	bus.DMA.IrqEn = true
	bus.DMA.ChannelIrqEn = 1 << uint(PORT_OTC)

	channel := bus.DMA.Channels[PORT_OTC]
	channel.SetBase(0x1ffffc)
	channel.SetBlockControl(4) // block size 4, count unused in manual sync
	channel.SetControl(1<<24 | 1<<28) // Enable | Trigger, manual sync, to-RAM

	bus.DMA.RunIfActive(bus, int(PORT_OTC))

	assert(bus.Ram.Load32(0x1ffffc) == 0x1ffff8)
	assert(bus.Ram.Load32(0x1ffff8) == 0x1ffff4)
	assert(bus.Ram.Load32(0x1ffff4) == 0x1ffff0)
	assert(bus.Ram.Load32(0x1ffff0) == 0x00ffffff)

	assert(!channel.Enable)
	assert(!channel.Trigger)

	assert(bus.DMA.ChannelIrqFlags&(1<<uint(PORT_OTC)) != 0)
	assert(bus.Irq.Status&(1<<IrqDMA) != 0)
}

// TestDMAChannelIrqGatedByEnable confirms INTC.DMA is only raised for a
// completed channel whose own interrupt-enable bit is set, even though the
// transfer itself always runs to completion.
func TestDMAChannelIrqGatedByEnable(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	bus := NewBus(testBIOS())
	bus.DMA.IrqEn = true
	// ChannelIrqEn left at zero: this channel's completion must not latch INTC.DMA.

	channel := bus.DMA.Channels[PORT_OTC]
	channel.SetBase(0x1ffffc)
	channel.SetBlockControl(1)
	channel.SetControl(1<<24 | 1<<28)

	bus.DMA.RunIfActive(bus, int(PORT_OTC))

	assert(bus.DMA.ChannelIrqFlags == 0)
	assert(bus.Irq.Status&(1<<IrqDMA) == 0)
}
