package pixmap

import (
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"

	"pixmap/thumb"
)

// thumbSide is the longest edge of a generated preview.
const thumbSide = 64

// opaque presents m with every pixel fully opaque. Decoded pictures
// carry a zero alpha channel, which would otherwise make the preview
// invisible.
type opaque struct {
	image.Image
}

func (o opaque) At(x, y int) color.Color {
	r, g, b, _ := o.Image.At(x, y).RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}
}

// thumbnail scales m down to at most thumbSide pixels on its longest
// edge and quantizes the result into a paletted preview.
func thumbnail(m image.Image) (*thumb.Thumbnail, error) {
	b := m.Bounds()

	w, h := b.Dx(), b.Dy()
	if w > thumbSide || h > thumbSide {
		if w >= h {
			h = h * thumbSide / w
			w = thumbSide
		} else {
			w = w * thumbSide / h
			h = thumbSide
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	src := opaque{m}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(scaled.Bounds(), q.Quantize(make(color.Palette, 0, thumb.MaxColors), scaled))
	draw.Draw(pm, pm.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	return thumb.FromPaletted(pm)
}
