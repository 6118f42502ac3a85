package ppm

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"unicode/utf8"

	"pixmap/pixel"
)

// maxPixels caps a single pixel buffer reservation at the point where
// the buffer could no longer be addressed (4 bytes per pixel).
// Reservations beyond it report ErrAllocationFailed instead of
// aborting the process.
const maxPixels = math.MaxInt / 4

// header carries the geometry and sample range of one image, dimensions
// still unvalidated against what can actually be allocated.
type header struct {
	width  uint
	height uint
	size   uint
	maxval uint16
}

type decoder struct {
	buf []byte
	pos int
}

// parseToken parses a header token as an unsigned decimal integer of
// the given bit size, keeping text-decoding failures distinct from
// numeric ones.
func parseToken(tok []byte, bitSize int, notText, invalid error) (uint64, error) {
	if !utf8.Valid(tok) {
		return 0, fmt.Errorf("%w: %q", notText, tok)
	}
	v, err := strconv.ParseUint(string(tok), 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", invalid, err)
	}
	return v, nil
}

// parseHeader runs the linear FORMAT, WIDTH, HEIGHT, MAXVAL token
// sequence from the current position and leaves the position on the
// first pixel byte. There is no backtracking.
func (d *decoder) parseHeader() (header, error) {
	var h header

	start := contentStart(d.buf, d.pos)
	if start == -1 {
		return h, ErrFormatNotFound
	}
	end := contentEnd(d.buf, start)
	if end == -1 {
		return h, ErrNoWhitespaceAfterFormat
	}
	if string(d.buf[start:end]) != magic {
		return h, ErrFormatNotSupported
	}

	if start = contentStart(d.buf, end); start == -1 {
		return h, ErrWidthNotFound
	}
	if end = contentEnd(d.buf, start); end == -1 {
		return h, ErrNoWhitespaceAfterWidth
	}
	width, err := parseToken(d.buf[start:end], strconv.IntSize, ErrWidthNotText, ErrInvalidWidth)
	if err != nil {
		return h, err
	}
	h.width = uint(width)

	if start = contentStart(d.buf, end); start == -1 {
		return h, ErrHeightNotFound
	}
	if end = contentEnd(d.buf, start); end == -1 {
		return h, ErrNoWhitespaceAfterHeight
	}
	height, err := parseToken(d.buf[start:end], strconv.IntSize, ErrHeightNotText, ErrInvalidHeight)
	if err != nil {
		return h, err
	}
	h.height = uint(height)

	hi, size := bits.Mul(h.width, h.height)
	if hi != 0 {
		return h, ErrSizeOverflow
	}
	h.size = size

	if start = contentStart(d.buf, end); start == -1 {
		return h, ErrMaxvalNotFound
	}
	// The maxval token must be terminated by an actual whitespace
	// byte; a comment marker does not end it.
	if end = findIndex(d.buf, start, isSpace); end == -1 {
		return h, ErrNoWhitespaceAfterMaxval
	}
	maxval, err := parseToken(d.buf[start:end], 16, ErrMaxvalNotText, ErrInvalidMaxval)
	if err != nil {
		return h, err
	}
	if maxval == 0 {
		return h, ErrZeroMaxval
	}
	h.maxval = uint16(maxval)

	// Exactly one whitespace byte separates maxval from the pixel
	// data; comment skipping does not apply here.
	d.pos = end + 1

	return h, nil
}

// scale maps a raw sample in 0..maxval to an 8-bit channel using
// float64 division truncated toward zero. At maxval 255 this is the
// identity. The truncation is deliberate; callers depend on the exact
// arithmetic, so do not substitute a rounding rule.
func scale(s, maxval uint16) uint8 {
	return uint8(float64(s) / float64(maxval) * 255)
}

// decodeImage reserves the pixel buffer and decodes the raw samples
// following the header. The buffer is reserved at its exact final size
// up front; a reservation that cannot be satisfied is a reported
// error, not a crash.
func (d *decoder) decodeImage(h header) (*pixel.Image, error) {
	if h.width > maxPixels || h.height > maxPixels || h.size > maxPixels {
		return nil, fmt.Errorf("%w: %d pixels", ErrAllocationFailed, h.size)
	}
	pix := make([]pixel.Pixel, 0, h.size)

	bytesPerPixel := uint(3)
	if h.maxval >= 256 {
		bytesPerPixel = 6
	}
	hi, limit := bits.Mul(h.size, bytesPerPixel)
	if hi != 0 {
		return nil, ErrByteCountOverflow
	}

	rest := d.buf[d.pos:]
	if uint(len(rest)) < limit {
		return nil, ErrInsufficientData
	}
	n := int(limit)

	if h.maxval < 256 {
		for i := 0; i < n; i += 3 {
			pix = append(pix, pixel.FromRgba(pixel.Rgba{
				R: scale(uint16(rest[i]), h.maxval),
				G: scale(uint16(rest[i+1]), h.maxval),
				B: scale(uint16(rest[i+2]), h.maxval),
				A: pixel.DefaultAlpha,
			}))
		}
	} else {
		for i := 0; i < n; i += 6 {
			r := uint16(rest[i])<<8 | uint16(rest[i+1])
			g := uint16(rest[i+2])<<8 | uint16(rest[i+3])
			b := uint16(rest[i+4])<<8 | uint16(rest[i+5])
			pix = append(pix, pixel.FromRgba(pixel.Rgba{
				R: scale(r, h.maxval),
				G: scale(g, h.maxval),
				B: scale(b, h.maxval),
				A: pixel.DefaultAlpha,
			}))
		}
	}
	d.pos += n

	return pixel.New(int(h.width), int(h.height), pix), nil
}

// decodeOne parses a single image, header then pixel payload, at the
// current position.
func (d *decoder) decodeOne() (*pixel.Image, error) {
	h, err := d.parseHeader()
	if err != nil {
		return nil, err
	}
	return d.decodeImage(h)
}

// DecodeAll decodes every image in data, which may hold any number of
// P6 images back to back, and returns them in order. An empty or
// whitespace-only buffer is ErrFormatNotFound, never an empty
// sequence; on success there is always at least one image. Decoding is
// all-or-nothing: the first failure aborts the whole parse.
func DecodeAll(data []byte) ([]*pixel.Image, error) {
	if len(data) == 0 {
		return nil, ErrFormatNotFound
	}

	d := decoder{buf: data}
	var images []*pixel.Image
	for d.pos < len(d.buf) {
		m, err := d.decodeOne()
		if err != nil {
			return nil, err
		}
		images = append(images, m)

		next := contentStart(d.buf, d.pos)
		if next == -1 {
			break
		}
		d.pos = next
	}

	return images, nil
}

// Config describes the first image in a buffer without decoding its
// pixels.
type Config struct {
	Width  int
	Height int
	Maxval uint16
}

// ParseConfig parses the header of the first image in data.
func ParseConfig(data []byte) (Config, error) {
	d := decoder{buf: data}
	h, err := d.parseHeader()
	if err != nil {
		return Config{}, err
	}
	if h.width > maxPixels || h.height > maxPixels {
		return Config{}, fmt.Errorf("%w: %d pixels", ErrAllocationFailed, h.size)
	}
	return Config{
		Width:  int(h.width),
		Height: int(h.height),
		Maxval: h.maxval,
	}, nil
}

// DecodeFirst decodes data like DecodeAll and returns only the first
// image. DecodeAll never returns an empty sequence on success, so the
// first image always exists.
func DecodeFirst(data []byte) (*pixel.Image, error) {
	images, err := DecodeAll(data)
	if err != nil {
		return nil, err
	}
	return images[0], nil
}
