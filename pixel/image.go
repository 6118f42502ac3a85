package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a decoded picture. It exclusively owns its pixel buffer,
// which always holds exactly width*height pixels in row-major order.
// It implements the standard image.Image interface with the NRGBA
// color model.
type Image struct {
	pix []Pixel

	width  int
	height int
}

// New returns an Image of the given geometry backed by pix. It panics
// unless len(pix) == width*height; the decoder never constructs an
// invalid image.
func New(width, height int, pix []Pixel) *Image {
	if width < 0 || height < 0 || len(pix) != width*height {
		panic(fmt.Sprintf("pixel: %dx%d image with %d pixels", width, height, len(pix)))
	}
	return &Image{
		pix:    pix,
		width:  width,
		height: height,
	}
}

// Width returns the image width in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the image height in pixels.
func (m *Image) Height() int {
	return m.height
}

// Len returns the number of pixels.
func (m *Image) Len() int {
	return len(m.pix)
}

// Pix returns the i'th pixel in row-major order.
func (m *Image) Pix(i int) Pixel {
	return m.pix[i]
}

// SetPix replaces the i'th pixel in row-major order.
func (m *Image) SetPix(i int, p Pixel) {
	m.pix[i] = p
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(m.Bounds())) {
		return color.NRGBA{}
	}
	c := m.pix[y*m.width+x].Rgba()
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
