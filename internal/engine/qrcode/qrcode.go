package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

const (
	// MIMEType is the media type of ImageBytes.
	MIMEType = "image/png"
	// DefaultLabelText is drawn when no label is given.
	DefaultLabelText = "Scan me"

	dataURIFormat = "data:%s;base64,%s"
)

// QRCode is a QR symbol with a label stacked below it.
type QRCode struct {
	content string
	label   *Label
	bitmap  [][]bool
}

type options struct {
	encoder      SymbolEncoder
	defaultLabel string
}

// Option configures New.
type Option func(*options)

// WithEncoder replaces the default skip2 encoder.
func WithEncoder(enc SymbolEncoder) Option {
	return func(o *options) {
		if enc != nil {
			o.encoder = enc
		}
	}
}

// WithDefaultLabel sets the text used when New is called without a label.
func WithDefaultLabel(text string) Option {
	return func(o *options) {
		o.defaultLabel = text
	}
}

// New encodes content and attaches label. A nil label is replaced by one
// showing the default label text. The label is moved right by the quiet zone
// width so it lines up with the symbol.
func New(content string, label *Label, opts ...Option) (*QRCode, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	o := options{
		encoder:      SkipEncoder{},
		defaultLabel: DefaultLabelText,
	}
	for _, opt := range opts {
		opt(&o)
	}

	bitmap, err := o.encoder.Encode(content)
	if err != nil {
		if !errors.Is(err, ErrEncoding) {
			err = errors.Join(ErrEncoding, err)
		}
		return nil, err
	}

	if label == nil {
		label = NewLabel(o.defaultLabel)
	}
	label.SetOffset(image.Pt(BorderModules*ModuleSize, 0))

	return &QRCode{
		content: content,
		label:   label,
		bitmap:  bitmap,
	}, nil
}

func (q *QRCode) Content() string {
	return q.content
}

func (q *QRCode) Label() *Label {
	return q.label
}

func (q *QRCode) symbolImage() *image.Gray {
	side := len(q.bitmap) * ModuleSize
	img := newCanvas(side, side)

	for y, row := range q.bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			module := image.Rect(x*ModuleSize, y*ModuleSize, (x+1)*ModuleSize, (y+1)*ModuleSize)
			draw.Draw(img, module, image.Black, image.Point{}, draw.Src)
		}
	}

	return img
}

// Image renders the symbol with the label below it.
func (q *QRCode) Image() (*image.Gray, error) {
	labelImg, err := q.label.Render()
	if err != nil {
		return nil, err
	}
	return VConcat(q.symbolImage(), labelImg), nil
}

// ImageBytes returns Image encoded as a grayscale PNG.
func (q *QRCode) ImageBytes() ([]byte, error) {
	img, err := q.Image()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("qrcode: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI returns ImageBytes as a base64 data URI.
func (q *QRCode) DataURI() (string, error) {
	b, err := q.ImageBytes()
	if err != nil {
		return "", err
	}
	return DataURI(b), nil
}

// DataURI wraps PNG bytes in a "data:" URI.
func DataURI(pngBytes []byte) string {
	return fmt.Sprintf(dataURIFormat, MIMEType, base64.StdEncoding.EncodeToString(pngBytes))
}
