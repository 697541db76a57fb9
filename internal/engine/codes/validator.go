package codes

import (
	"fmt"
	"unicode/utf8"

	"larry/internal/engine/qrcode"
)

const (
	// MaxContentLength is the numeric-mode capacity of a version 40 symbol at
	// the Low error correction level. Shorter content can still be too large
	// for its mode; the encoder reports that as qrcode.ErrEncoding.
	MaxContentLength = 7089
	MaxLabelLength   = 512
	MaxLabelLines    = 8
	MinFontSize      = 6
	MaxFontSize      = 96
	MaxExpiresInDays = 3650
)

func ValidateRequest(req *RenderRequest) error {
	if req.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidRequest)
	}
	if len(req.Content) > MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrInvalidRequest, MaxContentLength)
	}

	if utf8.RuneCountInString(req.Label) > MaxLabelLength {
		return fmt.Errorf("%w: label exceeds %d characters", ErrInvalidRequest, MaxLabelLength)
	}
	if len(qrcode.NewLabel(req.Label).Lines()) > MaxLabelLines {
		return fmt.Errorf("%w: label exceeds %d lines", ErrInvalidRequest, MaxLabelLines)
	}

	if req.FontSize != 0 && (req.FontSize < MinFontSize || req.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: font_size must be between %d and %d", ErrInvalidRequest, MinFontSize, MaxFontSize)
	}

	if req.ExpiresInDays < 0 || req.ExpiresInDays > MaxExpiresInDays {
		return fmt.Errorf("%w: expires_in_days must be between 0 and %d", ErrInvalidRequest, MaxExpiresInDays)
	}

	return nil
}
