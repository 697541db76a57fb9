package qrcode

import (
	"image"
	"strings"
)

const (
	// LineSpacing is the number of extra pixels between label lines.
	LineSpacing = 0

	blankLine = " "
)

// Label is the caption drawn below a QR code.
type Label struct {
	lines    []string
	fontFile string
	fontSize int
	offset   image.Point
	fonts    *FontLoader
}

// LabelOption configures a Label.
type LabelOption func(*Label)

// WithFontFile draws the label with the TrueType/OpenType font at path
// instead of the built-in bitmap font. BundledFontPath selects Go Bold.
func WithFontFile(path string) LabelOption {
	return func(l *Label) {
		l.fontFile = path
	}
}

// WithFontLoader sets the loader used to resolve the font file.
func WithFontLoader(loader *FontLoader) LabelOption {
	return func(l *Label) {
		if loader != nil {
			l.fonts = loader
		}
	}
}

// NewLabel splits text into lines. Empty text and empty lines are replaced
// with a single space so every line has a height.
func NewLabel(text string, opts ...LabelOption) *Label {
	if text == "" {
		text = blankLine
	}

	l := &Label{
		lines: splitLines(text),
		fonts: defaultFontLoader,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = blankLine
		}
	}
	return lines
}

// Lines returns a copy of the label lines.
func (l *Label) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Text returns the lines joined with newlines.
func (l *Label) Text() string {
	return strings.Join(l.lines, "\n")
}

// FontFile returns the custom font path, or "" for the built-in font.
func (l *Label) FontFile() string {
	return l.fontFile
}

func (l *Label) Offset() image.Point {
	return l.offset
}

// SetOffset moves the drawing origin of the text. The label grows by the
// offset in both directions.
func (l *Label) SetOffset(p image.Point) {
	l.offset = p
}

// FontSize returns the point size of the custom font.
func (l *Label) FontSize() (int, error) {
	if l.fontFile == "" {
		return 0, ErrNoCustomFont
	}
	if l.fontSize == 0 {
		return DefaultFontSize, nil
	}
	return l.fontSize, nil
}

func (l *Label) SetFontSize(size int) error {
	if l.fontFile == "" {
		return ErrNoCustomFont
	}
	if size <= 0 {
		return ErrInvalidFontSize
	}
	l.fontSize = size
	return nil
}

func (l *Label) rasterizer() (Rasterizer, error) {
	if l.fontFile == "" {
		return DefaultRasterizer(), nil
	}

	size, err := l.FontSize()
	if err != nil {
		return nil, err
	}
	return l.fonts.Rasterizer(l.fontFile, size)
}

// Size returns the pixel size needed to render the label.
func (l *Label) Size() (image.Point, error) {
	r, err := l.rasterizer()
	if err != nil {
		return image.Point{}, err
	}
	defer r.Close()

	return l.measure(r), nil
}

func (l *Label) measure(r Rasterizer) image.Point {
	var width, height int
	for _, line := range l.lines {
		size := r.Measure(line)
		width = max(width, size.X)
		height += size.Y
	}

	width += l.offset.X
	height += l.offset.Y
	height += len(l.lines) * LineSpacing

	return image.Pt(width, height)
}

// Render draws the label in black on a white grayscale canvas.
func (l *Label) Render() (*image.Gray, error) {
	r, err := l.rasterizer()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	size := l.measure(r)
	img := newCanvas(size.X, size.Y)
	r.Draw(img, l.offset, l.lines, LineSpacing)

	return img, nil
}
