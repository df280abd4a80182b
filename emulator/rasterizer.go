package emulator

// vertex is a drawing-primitive corner: screen position and flat or
// per-vertex shading color. It carries no texture coordinate.
type vertex struct {
	X, Y int32
	R, G, B uint8
}

// clip bounds the rasterizer to the GPU's current drawing area, matching
// the hardware's hard clip rectangle rather than a scissor test.
type clip struct {
	left, top, right, bottom int32
}

func (gpu *GPU) clipRect() clip {
	return clip{
		left:   int32(gpu.DrawingAreaLeft),
		top:    int32(gpu.DrawingAreaTop),
		right:  int32(gpu.DrawingAreaRight),
		bottom: int32(gpu.DrawingAreaBottom),
	}
}

func (c clip) contains(x, y int32) bool {
	return x >= c.left && x <= c.right && y >= c.top && y <= c.bottom
}

// edgeFunc is twice the signed area of the triangle (a,b,c); its sign
// tells which side of edge a-b point c falls on.
func edgeFunc(ax, ay, bx, by, cx, cy int32) int32 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// fillTriangle scan-converts a flat or Gouraud-shaded triangle directly
// into VRAM, honoring the drawing area clip and the mask-bit policy bits.
func (gpu *GPU) fillTriangle(v0, v1, v2 vertex, semiTransparent bool) {
	c := gpu.clipRect()

	minX := min3(v0.X, v1.X, v2.X)
	maxX := max3(v0.X, v1.X, v2.X)
	minY := min3(v0.Y, v1.Y, v2.Y)
	maxY := max3(v0.Y, v1.Y, v2.Y)

	area := edgeFunc(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !c.contains(x, y) {
				continue
			}
			w0 := edgeFunc(v1.X, v1.Y, v2.X, v2.Y, x, y)
			w1 := edgeFunc(v2.X, v2.Y, v0.X, v0.Y, x, y)
			w2 := edgeFunc(v0.X, v0.Y, v1.X, v1.Y, x, y)

			inside := (w0 >= 0 && w1 >= 0 && w2 >= 0) || (w0 <= 0 && w1 <= 0 && w2 <= 0)
			if !inside {
				continue
			}

			r := barycentricU8(w0, w1, w2, area, v0.R, v1.R, v2.R)
			g := barycentricU8(w0, w1, w2, area, v0.G, v1.G, v2.G)
			b := barycentricU8(w0, w1, w2, area, v0.B, v1.B, v2.B)

			gpu.plotShaded(int(x), int(y), r, g, b, semiTransparent)
		}
	}
}

func barycentricU8(w0, w1, w2, area int32, c0, c1, c2 uint8) uint8 {
	sum := int64(w0)*int64(c0) + int64(w1)*int64(c1) + int64(w2)*int64(c2)
	v := sum / int64(area)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// fillRectangle rasterizes an axis-aligned flat-shaded rectangle, used by
// the GP0 0x60-0x7F monochrome/textured rectangle family; textured
// rectangles are filled with the command color, texels are not sampled.
func (gpu *GPU) fillRectangle(x, y, w, h int32, r, g, b uint8, semiTransparent bool) {
	c := gpu.clipRect()
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if !c.contains(col, row) {
				continue
			}
			gpu.plotShaded(int(col), int(row), r, g, b, semiTransparent)
		}
	}
}

func (gpu *GPU) plotShaded(x, y int, r, g, b uint8, semiTransparent bool) {
	if gpu.PreserveMaskedPixels && gpu.VRAM.Get(x, y)&0x8000 != 0 {
		return
	}
	px := rgb8ToBgr555(r, g, b, gpu.ForceSetMaskBit)
	if semiTransparent {
		bg := gpu.VRAM.Get(x, y)
		px = blendSemiTransparent(bg, px, gpu.ForceSetMaskBit)
	}
	gpu.VRAM.Set(x, y, px)
}

// blendSemiTransparent implements the B/2+F/2 blend mode (the common case
// used by most translucent draw calls); the other three GPU blend equations
// are not modeled.
func blendSemiTransparent(bg, fg uint16, mask bool) uint16 {
	br, bgg, bb := bgr555ToRGB8(bg)
	fr, fgc, fb := bgr555ToRGB8(fg)
	r := uint8((uint16(br) + uint16(fr)) / 2)
	g := uint8((uint16(bgg) + uint16(fgc)) / 2)
	b := uint8((uint16(bb) + uint16(fb)) / 2)
	return rgb8ToBgr555(r, g, b, mask)
}

func min3(a, b, c int32) int32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c int32) int32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
