package ppm

import (
	"fmt"
	"io/ioutil"
	"os"

	"pixmap/pixel"
)

// DecodeFile reads the named file fully into memory and decodes every
// image in it. Failing to open and failing to read are reported as
// distinct errors, separate from any parse error.
func DecodeFile(path string) ([]*pixel.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	return DecodeAll(data)
}
