package pdftools

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"
)

// decodeImage decodes a PNG or JPEG file. Any other content, including
// formats Go can read but the converter does not accept, is
// ErrUnsupportedFormat.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 -- path is caller-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("%w: %s: %s images are not supported", ErrUnsupportedFormat, path, format)
	}
	return img, nil
}

// flatten draws img over an opaque white canvas. Alpha, palettes and
// grayscale all become plain RGB.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// encodeLossless re-encodes img as PNG.
func encodeLossless(img image.Image) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding image: %v", ErrConversionFailed, err)
	}
	return &buf, nil
}
