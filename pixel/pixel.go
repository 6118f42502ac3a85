/*
Package pixel defines the color and image model produced by the PPM
decoder.

A Pixel is a single packed 32-bit color value. The four 8-bit channels
occupy fixed byte positions within the packed integer: red in bits 0-7,
green in bits 8-15, blue in bits 16-23 and alpha in bits 24-31, so the
channels sit in red, green, blue, alpha order from low to high address
when the value is stored little-endian. Both views are derived from the
same integer with shifts and masks and can never disagree. Equality and
formatting are defined over the packed value only.
*/
package pixel

import "fmt"

// DefaultAlpha is the alpha assigned to every decoded pixel; the PPM
// format carries no alpha channel.
const DefaultAlpha = 0

// Pixel is a single packed 32-bit color value.
type Pixel uint32

// Rgba is the channel-wise view of a Pixel.
type Rgba struct {
	R, G, B, A uint8
}

// FromRgba packs the four channels of c into a Pixel.
func FromRgba(c Rgba) Pixel {
	return Pixel(uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24)
}

// Color returns the packed integer view of p.
func (p Pixel) Color() uint32 {
	return uint32(p)
}

// Rgba returns the channel-wise view of p.
func (p Pixel) Rgba() Rgba {
	return Rgba{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}

// WithAlpha returns p with its alpha channel replaced by a.
func (p Pixel) WithAlpha(a uint8) Pixel {
	return p&0x00ffffff | Pixel(a)<<24
}

func (p Pixel) String() string {
	return fmt.Sprintf("Pixel(%d)", uint32(p))
}
