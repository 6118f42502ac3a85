package ppm

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixmap/pixel"
)

func rgb(r, g, b uint8) pixel.Pixel {
	return pixel.FromRgba(pixel.Rgba{R: r, G: g, B: b, A: pixel.DefaultAlpha})
}

func sampleBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func be(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func TestSingleImage(t *testing.T) {
	data := append([]byte("P6 4 4 255 "), sampleBytes(48)...)

	images, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, images, 1)

	m := images[0]
	assert.Equal(t, 4, m.Width())
	assert.Equal(t, 4, m.Height())
	require.Equal(t, 16, m.Len())

	// At maxval 255 the rescale is an identity, so every channel
	// equals its input byte, and alpha is always zero.
	for i := 0; i < m.Len(); i++ {
		assert.Equal(t, rgb(byte(3*i), byte(3*i+1), byte(3*i+2)), m.Pix(i))
		assert.Equal(t, uint8(pixel.DefaultAlpha), m.Pix(i).Rgba().A)
	}
}

func TestMultipleImages(t *testing.T) {
	one := append([]byte("P6   4 \n\n 3   255 "), sampleBytes(36)...)
	two := append([]byte("P6\t2 #test\n3\n# Hey\n255 "), sampleBytes(18)...)

	data := append(append([]byte{}, one...), two...)

	images, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, 4, images[0].Width())
	assert.Equal(t, 3, images[0].Height())
	assert.Equal(t, 2, images[1].Width())
	assert.Equal(t, 3, images[1].Height())

	// Each element matches what parsing that image alone produces
	first, err := DecodeAll(one)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, first[0], images[0])

	second, err := DecodeAll(two)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, second[0], images[1])
}

func TestHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"empty", "", ErrFormatNotFound},
		{"whitespace only", "                    ", ErrFormatNotFound},
		{"comments only", "# hey\n# ho\n", ErrFormatNotFound},
		{"format not supported", "htre4 4 5 4654 ", ErrFormatNotSupported},
		{"format unterminated", "htre4", ErrNoWhitespaceAfterFormat},

		{"width missing", "P6 ", ErrWidthNotFound},
		{"width unterminated", "P6 42", ErrNoWhitespaceAfterWidth},
		{"width not a number", "P6 f 5 255 ", ErrInvalidWidth},
		{"width embedded junk", "P6 4f3 5 255 ", ErrInvalidWidth},
		{"width trailing junk", "P6 42f 5 255 ", ErrInvalidWidth},
		{"width negative", "P6 -42 5 255 ", ErrInvalidWidth},
		{"width plus sign", "P6 +42 5 255 ", ErrInvalidWidth},
		{"width overflow", "P6 99999999999999999999999999999 2 4 ", ErrInvalidWidth},
		{"width not text", "P6 \xff\xfe 5 255 ", ErrWidthNotText},

		{"height missing", "P6 42 ", ErrHeightNotFound},
		{"height unterminated", "P6 42 5", ErrNoWhitespaceAfterHeight},
		{"height not a number", "P6 5 f 255 ", ErrInvalidHeight},
		{"height embedded junk", "P6 5 4f3 255 ", ErrInvalidHeight},
		{"height trailing junk", "P6 5 42f 255 ", ErrInvalidHeight},
		{"height negative", "P6 5 -42 255 ", ErrInvalidHeight},
		{"height overflow", "P6 5 99999999999999999999999999999 255 ", ErrInvalidHeight},
		{"height not text", "P6 5 \xff\xfe 255 ", ErrHeightNotText},

		{"maxval missing", "P6 4 2 ", ErrMaxvalNotFound},
		{"maxval unterminated", "P6 4 2 255", ErrNoWhitespaceAfterMaxval},
		{"maxval not a number", "P6 4 2 f ", ErrInvalidMaxval},
		{"maxval embedded junk", "P6 4 2 2f55 ", ErrInvalidMaxval},
		{"maxval trailing junk", "P6 4 2 255f ", ErrInvalidMaxval},
		{"maxval negative", "P6 4 2 -255 ", ErrInvalidMaxval},
		{"maxval overflow", "P6 4 2 999999999999999 ", ErrInvalidMaxval},
		{"maxval not text", "P6 4 2 \xff\xfe ", ErrMaxvalNotText},
		{"maxval zero", "P6 4 2 0 ", ErrZeroMaxval},

		// A comment marker does not terminate the maxval token
		{"maxval comment terminated", "P6 4 2 255#c ", ErrInvalidMaxval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, err := DecodeAll([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "expected %v, got %v", tt.err, err)
			assert.Nil(t, images)
		})
	}
}

func TestSizeOverflowDistinctFromAllocation(t *testing.T) {
	huge := strconv.FormatUint(uint64(^uint(0)), 10)

	_, err := DecodeAll([]byte(fmt.Sprintf("P6 %s 2 256 ", huge)))
	assert.True(t, errors.Is(err, ErrSizeOverflow), "got %v", err)

	// The product fits but the reservation cannot be satisfied
	_, err = DecodeAll([]byte(fmt.Sprintf("P6 %s 1 256 ", huge)))
	assert.True(t, errors.Is(err, ErrAllocationFailed), "got %v", err)
	assert.False(t, errors.Is(err, ErrSizeOverflow))
}

func TestInsufficientPixelData(t *testing.T) {
	// 2 bytes present, 3 required
	_, err := DecodeAll([]byte("P6 1 1 255 rg"))
	assert.True(t, errors.Is(err, ErrInsufficientData), "got %v", err)

	// 5 bytes present, 6 required at two bytes per sample
	_, err = DecodeAll([]byte("P6 1 1 256 rrggb"))
	assert.True(t, errors.Is(err, ErrInsufficientData), "got %v", err)
}

func TestTruncatedRescale(t *testing.T) {
	// 100/200, 199/200 and 1/200 of 255 are 127.5, 253.725 and
	// 1.275; the decoder truncates, never rounds.
	data := append([]byte("P6 1 1 200 "), 100, 199, 1)

	images, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, rgb(127, 253, 1), images[0].Pix(0))
}

func TestWideSamples(t *testing.T) {
	data := []byte("P6 2 1 1000 ")
	for _, s := range []uint16{1000, 500, 0, 1000, 1000, 1000} {
		data = append(data, be(s)...)
	}

	images, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, images, 1)
	require.Equal(t, 2, images[0].Len())
	assert.Equal(t, rgb(255, 127, 0), images[0].Pix(0))
	assert.Equal(t, rgb(255, 255, 255), images[0].Pix(1))
}

func TestFullRangeMaxval(t *testing.T) {
	data := []byte("P6 1 1 65535 ")
	for _, s := range []uint16{65535, 32768, 0} {
		data = append(data, be(s)...)
	}

	images, err := DecodeAll(data)
	require.NoError(t, err)
	assert.Equal(t, rgb(255, 127, 0), images[0].Pix(0))
}

func TestTrailingWhitespaceAndComments(t *testing.T) {
	images, err := DecodeAll([]byte("P6 1 1 255 abc \n\t"))
	require.NoError(t, err)
	assert.Len(t, images, 1)

	images, err = DecodeAll([]byte("P6 1 1 255 abc# trailing\n"))
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestFailureAbortsWholeParse(t *testing.T) {
	// The first image is valid but the garbage after it fails the
	// parse; no partial sequence comes back.
	images, err := DecodeAll([]byte("P6 1 1 255 abc X"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoWhitespaceAfterFormat), "got %v", err)
	assert.Nil(t, images)

	images, err = DecodeAll(append([]byte("P6 1 1 255 abc"), []byte("P6 1 1 0 ")...))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZeroMaxval), "got %v", err)
	assert.Nil(t, images)
}

func TestDecodeFirst(t *testing.T) {
	data := append([]byte("P6 1 1 255 abc"), append([]byte("P6 1 1 255 "), 'x', 'y', 'z')...)

	m, err := DecodeFirst(data)
	require.NoError(t, err)
	assert.Equal(t, rgb('a', 'b', 'c'), m.Pix(0))

	_, err = DecodeFirst(nil)
	assert.True(t, errors.Is(err, ErrFormatNotFound), "got %v", err)
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte("P6 4 2 1000 "))
	require.NoError(t, err)
	assert.Equal(t, Config{Width: 4, Height: 2, Maxval: 1000}, c)

	_, err = ParseConfig(nil)
	assert.True(t, errors.Is(err, ErrFormatNotFound), "got %v", err)
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "test.ppm")
	data := append([]byte("P6 4 4 255 "), sampleBytes(48)...)
	require.NoError(t, ioutil.WriteFile(file, data, 0644))

	images, err := DecodeFile(file)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	_, err = DecodeFile(filepath.Join(dir, "missing.ppm"))
	assert.True(t, errors.Is(err, ErrOpenFile), "got %v", err)
}

func TestRegisteredFormat(t *testing.T) {
	data := append([]byte("P6 4 4 255 "), sampleBytes(48)...)

	m, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ppm", format)
	assert.Equal(t, image.Rect(0, 0, 4, 4), m.Bounds())

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ppm", format)
	assert.Equal(t, 4, config.Width)
	assert.Equal(t, 4, config.Height)
	assert.Equal(t, color.NRGBAModel, config.ColorModel)
}
