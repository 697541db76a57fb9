package qrcode

import (
	"image"
	"image/draw"
)

func newCanvas(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// VConcat stacks images top to bottom, left aligned, on a white grayscale
// canvas as wide as the widest image.
func VConcat(images ...image.Image) *image.Gray {
	var width, height int
	for _, img := range images {
		b := img.Bounds()
		width = max(width, b.Dx())
		height += b.Dy()
	}

	canvas := newCanvas(width, height)

	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}

	return canvas
}
