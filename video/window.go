// Package video turns the emulator core's presentation callbacks into an
// ebiten window: it implements emulator.FramebufferSink by converting the
// GPU's native BGR555 VRAM into an RGBA ebiten.Image, and implements
// emulator.InputSource by polling ebiten's keyboard state into the core's
// 16-bit active-low pad format. The core package never imports ebiten
// directly; this is the only place that boundary is crossed.
package video

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-psx/psx/emulator"
)

// Window is an ebiten.Game driving one emulator.System: each Update call
// runs the core to its next VBLANK, and each Draw call blits whatever
// Present last handed it.
type Window struct {
	Core *emulator.System

	frame       *ebiten.Image
	frameWidth  int
	frameHeight int
	pixelBuf    []byte

	overlay *Overlay
	ShowFPS bool

	Scale float64
}

func NewWindow(core *emulator.System, scale float64) *Window {
	w := &Window{Core: core, Scale: scale, overlay: NewOverlay()}
	core.Framebuffer = w
	core.Input = w
	return w
}

// Present implements emulator.FramebufferSink: it is called from the core's
// VBLANK handler with the full VRAM contents, never more than once per
// displayed frame.
func (w *Window) Present(pixels []uint16, pitch, width, height int) {
	if w.frame == nil || w.frameWidth != width || w.frameHeight != height {
		w.frame = ebiten.NewImage(width, height)
		w.frameWidth, w.frameHeight = width, height
		w.pixelBuf = make([]byte, width*height*4)
	}

	for y := 0; y < height; y++ {
		row := y * pitch
		out := y * width * 4
		for x := 0; x < width; x++ {
			r, g, b := bgr555ToRGB8(pixels[row+x])
			o := out + x*4
			w.pixelBuf[o], w.pixelBuf[o+1], w.pixelBuf[o+2], w.pixelBuf[o+3] = r, g, b, 0xff
		}
	}
	w.frame.WritePixels(w.pixelBuf)
}

func bgr555ToRGB8(v uint16) (r, g, b byte) {
	r = byte((v&0x1f)<<3) | byte((v&0x1f)>>2)
	g = byte(((v>>5)&0x1f)<<3) | byte(((v>>5)&0x1f)>>2)
	b = byte(((v>>10)&0x1f)<<3) | byte(((v>>10)&0x1f)>>2)
	return
}

// keymap maps ebiten's keyboard keys onto the 16-bit active-low PSX pad
// layout emulator.Button indexes into.
var keymap = map[ebiten.Key]emulator.Button{
	ebiten.KeyEnter:     emulator.ButtonStart,
	ebiten.KeyBackspace: emulator.ButtonSelect,
	ebiten.KeyW:         emulator.ButtonUp,
	ebiten.KeyS:         emulator.ButtonDown,
	ebiten.KeyA:         emulator.ButtonLeft,
	ebiten.KeyD:         emulator.ButtonRight,
	ebiten.KeyI:         emulator.ButtonTriangle,
	ebiten.KeyK:         emulator.ButtonCross,
	ebiten.KeyJ:         emulator.ButtonSquare,
	ebiten.KeyL:         emulator.ButtonCircle,
	ebiten.KeyQ:         emulator.ButtonL1,
	ebiten.KeyE:         emulator.ButtonR1,
	ebiten.Key1:         emulator.ButtonL2,
	ebiten.Key3:         emulator.ButtonR2,
}

// PollButtons implements emulator.InputSource.
func (w *Window) PollButtons() uint16 {
	mask := uint16(0xffff)
	for key, button := range keymap {
		if ebiten.IsKeyPressed(key) {
			mask &^= 1 << button
		}
	}
	return mask
}

func (w *Window) Update() error {
	w.Core.RunFrame()
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.frame == nil {
		return
	}
	screen.DrawImage(w.frame, nil)
	if w.ShowFPS {
		w.overlay.Draw(screen, ebiten.ActualFPS())
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w.frameWidth == 0 {
		return 1024, 512
	}
	return w.frameWidth, w.frameHeight
}
