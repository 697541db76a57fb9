package qrcode

import "errors"

var (
	// ErrEmptyContent is returned when there is nothing to encode.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrEncoding is returned when the content does not fit any QR version at
	// the configured error correction level.
	ErrEncoding = errors.New("content cannot be encoded as a QR symbol")
	// ErrNoCustomFont is returned when the font size of a label is read or
	// changed but the label was built without a font file.
	ErrNoCustomFont = errors.New("no custom font available")
	// ErrFontResource is returned when a font file cannot be opened or parsed.
	ErrFontResource = errors.New("font resource cannot be loaded")
	// ErrInvalidFontSize is returned for non-positive font sizes.
	ErrInvalidFontSize = errors.New("font size must be positive")
	// ErrUnknownEncoder is returned by EncoderByName for unsupported backends.
	ErrUnknownEncoder = errors.New("unknown symbol encoder")
)
