package ppm

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

func init() {
	image.RegisterFormat("ppm", magic, Decode, DecodeConfig)
}

// Decode reads a PPM stream from r and returns its first image. The
// whole stream is read into memory before any parsing starts.
func Decode(r io.Reader) (image.Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}
	return DecodeFirst(data)
}

// DecodeConfig returns the color model and dimensions of the first
// image in a PPM stream without decoding its pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	c, err := ParseConfig(data)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      c.Width,
		Height:     c.Height,
	}, nil
}
