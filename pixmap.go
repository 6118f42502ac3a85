/*
Package pixmap is a library for decoding and cataloguing Netpbm P6
pictures.

The ppm subpackage decodes one or more concatenated P6 images from a
byte buffer into the pixel model defined by the pixel subpackage. On
top of that, this package maintains a sqlite index of decoded
pictures, scans directory trees for them, and generates small paletted
previews stored both in the index and in a per-directory sidecar
database implemented by the thumb subpackage.
*/
package pixmap

import "log"

// Scanner ties the picture index to the directory scanning pipeline.
type Scanner struct {
	db     *PictureDB
	logger *log.Logger
}

// New opens the picture index at file and returns a Scanner using it.
func New(file string, logger *log.Logger) (*Scanner, error) {
	db, err := NewPictureDB(file)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		db:     db,
		logger: logger,
	}, nil
}

// Close releases the underlying picture index.
func (s *Scanner) Close() error {
	return s.db.Close()
}
