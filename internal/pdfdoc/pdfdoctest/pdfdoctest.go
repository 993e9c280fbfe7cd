// Package pdfdoctest builds small PDF and image fixtures for tests.
package pdfdoctest

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes an A4 document with the given number of pages to
// dir/name and returns its path. Each page carries its number as text.
func WritePDF(t testing.TB, dir, name string, pages int) string {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 24)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("%s page %d", name, i))
	}

	path := filepath.Join(dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// WritePNG writes a width x height PNG with a translucent fill to dir/name
// and returns its path.
func WritePNG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 120, B: 200, A: 128})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}

// WriteJPEG writes a width x height JPEG to dir/name and returns its path.
func WriteJPEG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}

// WriteGIF writes a paletted width x height GIF to dir/name and returns its path.
func WriteGIF(t testing.TB, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette.Plan9)

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture %s: %v", path, err)
	}
	defer f.Close()
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatalf("encoding fixture %s: %v", path, err)
	}
	return path
}
