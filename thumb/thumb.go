/*
Package thumb implements the compact preview format stored for each
indexed picture.

A preview is a small paletted rendition of a decoded picture: up to 64
palette entries of packed RGB and one palette index per pixel, with the
index payload compressed with zstd. Previews for all pictures in a
directory are collected into a DB which is written next to them as a
single file.
*/
package thumb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/klauspost/compress/zstd"

	"pixmap/pixel"
)

const (
	// Filename is the expected filename used when writing a preview
	// database to disk
	Filename = "previews.thm"

	// MaxColors bounds the palette of a single preview
	MaxColors = 64

	// MaxSide bounds the geometry of a single preview
	MaxSide = 256

	maxEntries = 1024

	thumbMagic = "PXT1"
	dbMagic    = "PXD1"
)

var (
	zenc = mustEncoder()
	zdec = mustDecoder()
)

func mustEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	return enc
}

func mustDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	return dec
}

// Thumbnail is a small paletted preview of a decoded picture. It
// implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type Thumbnail struct {
	Width  int
	Height int

	// Palette holds up to MaxColors packed RGB entries; the alpha
	// channel is not stored.
	Palette []pixel.Pixel

	// Index holds one palette index per pixel in row-major order.
	Index []uint8
}

// FromPaletted converts a paletted image into a Thumbnail.
func FromPaletted(m *image.Paletted) (*Thumbnail, error) {
	b := m.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 || b.Dx() > MaxSide || b.Dy() > MaxSide {
		return nil, fmt.Errorf("thumb: unsupported geometry %dx%d", b.Dx(), b.Dy())
	}
	if len(m.Palette) < 1 || len(m.Palette) > MaxColors {
		return nil, fmt.Errorf("thumb: unsupported palette size %d", len(m.Palette))
	}

	t := &Thumbnail{
		Width:   b.Dx(),
		Height:  b.Dy(),
		Palette: make([]pixel.Pixel, len(m.Palette)),
		Index:   make([]uint8, b.Dx()*b.Dy()),
	}

	for i, c := range m.Palette {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		t.Palette[i] = pixel.FromRgba(pixel.Rgba{R: nc.R, G: nc.G, B: nc.B, A: pixel.DefaultAlpha})
	}

	for y := 0; y < t.Height; y++ {
		row := m.PixOffset(b.Min.X, b.Min.Y+y)
		copy(t.Index[y*t.Width:(y+1)*t.Width], m.Pix[row:row+t.Width])
	}

	return t, nil
}

// Image reconstructs the preview as a paletted image. Palette entries
// are made opaque for display.
func (t *Thumbnail) Image() *image.Paletted {
	p := make(color.Palette, len(t.Palette))
	for i, e := range t.Palette {
		c := e.Rgba()
		p[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}

	m := image.NewPaletted(image.Rect(0, 0, t.Width, t.Height), p)
	for y := 0; y < t.Height; y++ {
		copy(m.Pix[y*m.Stride:], t.Index[y*t.Width:(y+1)*t.Width])
	}
	return m
}

func (t *Thumbnail) validate() error {
	if t.Width < 1 || t.Height < 1 || t.Width > MaxSide || t.Height > MaxSide {
		return fmt.Errorf("thumb: unsupported geometry %dx%d", t.Width, t.Height)
	}
	if len(t.Palette) < 1 || len(t.Palette) > MaxColors {
		return fmt.Errorf("thumb: unsupported palette size %d", len(t.Palette))
	}
	if len(t.Index) != t.Width*t.Height {
		return errors.New("thumb: incorrect index length")
	}
	for _, i := range t.Index {
		if int(i) >= len(t.Palette) {
			return errors.New("thumb: palette index out of range")
		}
	}
	return nil
}

// MarshalBinary encodes the preview into binary form and returns the
// result
func (t *Thumbnail) MarshalBinary() ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	b.WriteString(thumbMagic)

	if err := binary.Write(b, binary.LittleEndian, uint16(t.Width)); err != nil {
		return nil, err
	}
	if err := binary.Write(b, binary.LittleEndian, uint16(t.Height)); err != nil {
		return nil, err
	}

	b.WriteByte(uint8(len(t.Palette)))
	for _, e := range t.Palette {
		c := e.Rgba()
		b.Write([]byte{c.R, c.G, c.B})
	}

	payload := zenc.EncodeAll(t.Index, nil)
	if err := binary.Write(b, binary.LittleEndian, uint32(len(payload))); err != nil {
		return nil, err
	}
	b.Write(payload)

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the preview from binary form
func (t *Thumbnail) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var m [len(thumbMagic)]byte
	if _, err := r.Read(m[:]); err != nil || string(m[:]) != thumbMagic {
		return errors.New("thumb: bad magic")
	}

	var width, height uint16
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return err
	}
	t.Width, t.Height = int(width), int(height)

	colors, err := r.ReadByte()
	if err != nil {
		return err
	}
	t.Palette = make([]pixel.Pixel, colors)
	for i := range t.Palette {
		var c [3]byte
		if _, err := r.Read(c[:]); err != nil {
			return errors.New("thumb: truncated palette")
		}
		t.Palette[i] = pixel.FromRgba(pixel.Rgba{R: c[0], G: c[1], B: c[2], A: pixel.DefaultAlpha})
	}

	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return err
	}
	payload := make([]byte, length)
	if n, err := r.Read(payload); n != int(length) || (err != nil) {
		return errors.New("thumb: truncated payload")
	}

	if t.Index, err = zdec.DecodeAll(payload, nil); err != nil {
		return err
	}

	return t.validate()
}
