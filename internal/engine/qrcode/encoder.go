package qrcode

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/boombuler/barcode/qr"
	skipqrcode "github.com/skip2/go-qrcode"
)

const (
	// ModuleSize is the number of pixels per QR module.
	ModuleSize = 10
	// BorderModules is the width of the quiet zone in modules.
	BorderModules = 4
)

// Encoder backend names accepted by EncoderByName.
const (
	EncoderSkip      = "skip2"
	EncoderBoombuler = "boombuler"
)

// SymbolEncoder turns content into a QR module matrix. The returned matrix is
// square, includes a quiet zone of BorderModules on every side and uses the
// Low error correction level with the smallest version that fits.
type SymbolEncoder interface {
	Encode(content string) ([][]bool, error)
}

// SkipEncoder encodes symbols with github.com/skip2/go-qrcode.
type SkipEncoder struct{}

func (SkipEncoder) Encode(content string) ([][]bool, error) {
	q, err := skipqrcode.New(content, skipqrcode.Low)
	if err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}

	return q.Bitmap(), nil
}

// BarcodeEncoder encodes symbols with github.com/boombuler/barcode/qr and pads
// the result with the quiet zone, which that library leaves out.
type BarcodeEncoder struct{}

func (BarcodeEncoder) Encode(content string) ([][]bool, error) {
	code, err := qr.Encode(content, qr.L, qr.Auto)
	if err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}

	b := code.Bounds()
	n := b.Dx()
	size := n + 2*BorderModules

	bitmap := make([][]bool, size)
	for y := range bitmap {
		bitmap[y] = make([]bool, size)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			gray := color.GrayModel.Convert(code.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			bitmap[y+BorderModules][x+BorderModules] = gray.Y < 0x80
		}
	}

	return bitmap, nil
}

// EncoderByName returns the encoder registered under name. An empty name
// selects the default skip2 backend.
func EncoderByName(name string) (SymbolEncoder, error) {
	switch name {
	case "", EncoderSkip:
		return SkipEncoder{}, nil
	case EncoderBoombuler:
		return BarcodeEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoder, name)
	}
}
