package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay renders a small FPS readout directly with x/image/font rather
// than ebiten's text package, reusing the x/image dependency ebiten's own
// font handling already pulls in.
type Overlay struct {
	face font.Face
}

func NewOverlay() *Overlay {
	return &Overlay{face: basicfont.Face7x13}
}

func (o *Overlay) Draw(screen *ebiten.Image, fps float64) {
	text := fmt.Sprintf("%.1f fps", fps)

	const w, h = 64, 16
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x40, 0xff, 0x40, 0xff}),
		Face: o.face,
		Dot:  fixed.P(2, 12),
	}
	drawer.DrawString(text)

	badge := ebiten.NewImageFromImage(img)
	screen.DrawImage(badge, nil)
}
