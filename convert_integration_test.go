//go:build integration

package pdftools

// Notes:
// - HTML and Markdown rendering need Chrome; rod downloads Chromium on first
//   run when ROD_BROWSER_BIN is not set.
// - Office tests are skipped when soffice (or unoserver) is not on PATH.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-pdftools/internal/office"
	"github.com/alnah/go-pdftools/internal/pdfdoc"
	"github.com/alnah/go-pdftools/internal/pdfdoc/pdfdoctest"
)

const testTimeout = 60 * time.Second

func assertValidPDFFile(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	if n, err := pdfdoc.PageCount(path); err != nil || n < 1 {
		t.Errorf("PageCount() = %d, %v, want at least one page", n, err)
	}
}

func requireBinary(t *testing.T, bin string) {
	t.Helper()
	if _, err := office.LookPath(bin); err != nil {
		t.Skipf("%s not available: %v", bin, err)
	}
}

// ---------------------------------------------------------------------------
// Browser rendering
// ---------------------------------------------------------------------------

func TestConvertHTML_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	in := NewFile(writeFile(t, dir, "page.html", `<!DOCTYPE html>
<html><head><title>Test</title></head>
<body><h1>Hello, World!</h1><p>This is a test document.</p></body></html>`))

	conv, err := NewConverter(WithTimeout(testTimeout), WithPageSettings(&PageSettings{Size: PageSizeA4}))
	if err != nil {
		t.Fatal(err)
	}
	defer conv.Close()

	out, err := conv.ConvertToPDF(ctx, in, ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertToPDF() error = %v", err)
	}
	assertValidPDFFile(t, out.Path)

	dims, err := pdfdoc.PageDims(out.Path)
	if err != nil {
		t.Fatal(err)
	}
	// A4 in points, allowing for rounding of the inch size Chrome prints at.
	if w := dims[0].Width; w < 590 || w > 600 {
		t.Errorf("page width = %v pt, want about 595", w)
	}
}

func TestConvertMarkdown_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	pdfdoctest.WritePNG(t, dir, "chart.png", 60, 30)
	in := NewFile(writeFile(t, dir, "notes.md", "# Notes\n\n![chart](chart.png)\n\n```go\nfmt.Println(1)\n```\n"))

	conv, err := NewConverter(WithTimeout(testTimeout))
	if err != nil {
		t.Fatal(err)
	}
	defer conv.Close()

	out, err := conv.ConvertToPDF(ctx, in, ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertToPDF() error = %v", err)
	}
	if out.Path != filepath.Join(dir, "notes.pdf") {
		t.Errorf("output = %q, want notes.pdf next to the source", out.Path)
	}
	assertValidPDFFile(t, out.Path)
	assertNoTempFiles(t, dir)
}

// ---------------------------------------------------------------------------
// Office conversion
// ---------------------------------------------------------------------------

func TestConvertOffice_Integration(t *testing.T) {
	t.Parallel()
	requireBinary(t, office.DefaultSofficeBin)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dir := t.TempDir()
	in := NewFile(writeFile(t, dir, "letter.rtf", `{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}\f0\pard Hello from RTF.\par}`))

	conv, err := NewConverter(WithTimeout(testTimeout))
	if err != nil {
		t.Fatal(err)
	}
	defer conv.Close()

	out, err := conv.ConvertToPDF(ctx, in, ConvertOptions{})
	if err != nil {
		t.Fatalf("ConvertToPDF() error = %v", err)
	}
	assertValidPDFFile(t, out.Path)
}

func TestConvertAndMerge_Listener_Integration(t *testing.T) {
	t.Parallel()
	requireBinary(t, office.DefaultUnoserverBin)
	requireBinary(t, office.DefaultUnoconvertBin)

	ctx, cancel := context.WithTimeout(context.Background(), 2*testTimeout)
	defer cancel()

	dir := t.TempDir()
	files := Files{
		NewFile(writeFile(t, dir, "a.rtf", `{\rtf1\ansi\pard First.\par}`)),
		NewFile(writeFile(t, dir, "b.rtf", `{\rtf1\ansi\pard Second.\par}`)),
		NewFile(pdfdoctest.WritePDF(t, dir, "c.pdf", 2)),
	}
	out := filepath.Join(dir, "bundle.pdf")

	err := office.WithListener(ctx, office.ListenerConfig{Port: 2012}, func(l *office.Listener) error {
		conv, err := NewConverter(WithOfficeConverter(l.Converter("")))
		if err != nil {
			return err
		}
		defer conv.Close()

		_, err = NewProcessor(conv, NewMerger()).ConvertAndMerge(ctx, files, out, ProcessOptions{SetBookmarks: true})
		return err
	})
	if err != nil {
		t.Fatalf("ConvertAndMerge() error = %v", err)
	}

	if n, err := pdfdoc.PageCount(out); err != nil || n != 4 {
		t.Errorf("PageCount() = %d, %v, want 4", n, err)
	}
	if bms, _ := pdfdoc.Bookmarks(out); len(bms) != 3 {
		t.Errorf("Bookmarks() = %+v, want 3 entries", bms)
	}
}
