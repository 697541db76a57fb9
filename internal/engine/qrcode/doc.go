// Package qrcode renders QR codes with a text label underneath and returns
// them as PNG bytes or as a data URI.
//
// Symbol encoding is delegated to a SymbolEncoder (github.com/skip2/go-qrcode
// by default, github.com/boombuler/barcode as an alternative) and text layout
// to a Rasterizer built on golang.org/x/image/font. The package itself only
// lays out the label and stacks the two images.
//
// # Usage
//
//	label := qrcode.NewLabel("Table 12\nScan to order")
//	code, err := qrcode.New("https://example.com/menu", label)
//	if err != nil {
//		// errors.Is(err, qrcode.ErrEncoding) when the content is too long
//	}
//	uri, err := code.DataURI()
//
// Labels use a built-in 7x13 bitmap font unless a font file is given:
//
//	label := qrcode.NewLabel("Scan me", qrcode.WithFontFile(qrcode.BundledFontPath))
//	_ = label.SetFontSize(18)
//
// Reading or setting the font size of a label without a font file returns
// ErrNoCustomFont.
package qrcode
