package ppm

import "errors"

// Every failure mode has its own value so callers can tell, with
// errors.Is, exactly which header field or decoding stage went wrong.
// Token errors keep "field absent" and "field present but unterminated"
// separate, and text-decoding failures separate from numeric ones.
var (
	ErrOpenFile = errors.New("ppm: failed to open file")
	ErrReadFile = errors.New("ppm: failed to read file")

	ErrFormatNotFound          = errors.New("ppm: format not found")
	ErrNoWhitespaceAfterFormat = errors.New("ppm: no whitespace after format")
	ErrFormatNotSupported      = errors.New("ppm: format not supported")

	ErrWidthNotFound          = errors.New("ppm: width not found")
	ErrNoWhitespaceAfterWidth = errors.New("ppm: no whitespace after width")
	ErrWidthNotText           = errors.New("ppm: width is not valid text")
	ErrInvalidWidth           = errors.New("ppm: width is not a valid size")

	ErrHeightNotFound          = errors.New("ppm: height not found")
	ErrNoWhitespaceAfterHeight = errors.New("ppm: no whitespace after height")
	ErrHeightNotText           = errors.New("ppm: height is not valid text")
	ErrInvalidHeight           = errors.New("ppm: height is not a valid size")

	ErrSizeOverflow      = errors.New("ppm: width times height overflows")
	ErrByteCountOverflow = errors.New("ppm: pixel byte count overflows")

	ErrMaxvalNotFound          = errors.New("ppm: maxval not found")
	ErrNoWhitespaceAfterMaxval = errors.New("ppm: no whitespace after maxval")
	ErrMaxvalNotText           = errors.New("ppm: maxval is not valid text")
	ErrInvalidMaxval           = errors.New("ppm: maxval is not a 16-bit integer")
	ErrZeroMaxval              = errors.New("ppm: maxval cannot be zero")

	ErrAllocationFailed = errors.New("ppm: failed to allocate pixel buffer")
	ErrInsufficientData = errors.New("ppm: insufficient pixel data")
)
