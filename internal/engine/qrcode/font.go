package qrcode

import (
	"errors"
	"image"
	"image/draw"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// DefaultFontSize is the point size used for custom fonts when none is set.
	DefaultFontSize = 10
	// BundledFontPath names the Go Bold font shipped with the binary. It can be
	// used anywhere a font file path is accepted.
	BundledFontPath = "bundled:gobold"

	fontDPI = 72
)

// Rasterizer measures and draws text with a single font face.
type Rasterizer interface {
	// Measure returns the width and height in pixels of one line of text.
	Measure(line string) image.Point
	// Draw renders lines top to bottom starting at origin, adding spacing
	// pixels between consecutive lines.
	Draw(dst draw.Image, origin image.Point, lines []string, spacing int)
	// Close releases the face.
	Close() error
}

type faceRasterizer struct {
	face font.Face
}

// DefaultRasterizer returns a rasterizer backed by the built-in 7x13 bitmap
// font. Its size is fixed.
func DefaultRasterizer() Rasterizer {
	return &faceRasterizer{face: basicfont.Face7x13}
}

func (r *faceRasterizer) lineHeight() int {
	m := r.face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

func (r *faceRasterizer) Measure(line string) image.Point {
	return image.Pt(font.MeasureString(r.face, line).Ceil(), r.lineHeight())
}

func (r *faceRasterizer) Draw(dst draw.Image, origin image.Point, lines []string, spacing int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: r.face,
	}

	ascent := r.face.Metrics().Ascent.Ceil()
	y := origin.Y
	for _, line := range lines {
		d.Dot = fixed.P(origin.X, y+ascent)
		d.DrawString(line)
		y += r.lineHeight() + spacing
	}
}

func (r *faceRasterizer) Close() error {
	return r.face.Close()
}

// FontLoader reads font files through an afero filesystem and keeps the parsed
// fonts so repeated renders only pay for face creation. It is safe for
// concurrent use.
type FontLoader struct {
	fs afero.Fs

	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

// NewFontLoader creates a loader over fs. A nil fs reads from the OS.
func NewFontLoader(fs afero.Fs) *FontLoader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FontLoader{
		fs:    fs,
		fonts: make(map[string]*opentype.Font),
	}
}

var defaultFontLoader = NewFontLoader(nil)

// Font returns the parsed font stored at path.
func (l *FontLoader) Font(path string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.fonts[path]; ok {
		return f, nil
	}

	var data []byte
	if path == BundledFontPath {
		data = gobold.TTF
	} else {
		b, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, errors.Join(ErrFontResource, err)
		}
		data = b
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Join(ErrFontResource, err)
	}
	l.fonts[path] = f

	return f, nil
}

// Rasterizer returns a rasterizer for the font at path scaled to size points.
// The caller must Close it.
func (l *FontLoader) Rasterizer(path string, size int) (Rasterizer, error) {
	if size <= 0 {
		return nil, ErrInvalidFontSize
	}

	f, err := l.Font(path)
	if err != nil {
		return nil, err
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Join(ErrFontResource, err)
	}

	return &faceRasterizer{face: face}, nil
}
