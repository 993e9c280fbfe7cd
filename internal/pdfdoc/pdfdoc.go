// Package pdfdoc wraps PDF reading and writing to isolate the external
// dependencies. pdfcpu handles merging, outlines, page geometry and stamping;
// gofpdf writes the single-page documents produced from images.
package pdfdoc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	ErrNoInputs   = errors.New("pdfdoc: no input files")
	ErrEmptyStamp = errors.New("pdfdoc: stamp text is empty")
	ErrImageSize  = errors.New("pdfdoc: image dimensions must be positive")
)

// Bookmark is a top-level outline entry pointing at a 1-based page.
type Bookmark struct {
	Title string
	Page  int
}

// Dim is a page size in PDF points.
type Dim struct {
	Width  float64
	Height float64
}

// TextStamp describes one text overlay on one page.
// Dx and Dy shift the text from the page centre, in points.
type TextStamp struct {
	Text     string
	FontName string
	FontSize float64
	Rotation float64
	Opacity  float64
	Color    string // #RRGGBB
	Align    string // l, c, r
	Dx, Dy   float64
}

var disableConfigDir sync.Once

// configuration returns a fresh pdfcpu configuration that never touches the
// user's config directory and never creates outlines on its own.
func configuration() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.CreateBookmarks = false
	return conf
}

// Merge concatenates inputs, in order, into out.
func Merge(inputs []string, out string) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}
	if err := api.MergeCreateFile(inputs, out, false, configuration()); err != nil {
		return fmt.Errorf("pdfdoc: merging %d file(s): %w", len(inputs), err)
	}
	return nil
}

// PageCount returns the number of pages in the document at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfdoc: counting pages of %s: %w", path, err)
	}
	return n, nil
}

// PageDims returns the media box size of every page, in page order.
func PageDims(path string) ([]Dim, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: reading page sizes of %s: %w", path, err)
	}
	out := make([]Dim, len(dims))
	for i, d := range dims {
		out[i] = Dim{Width: d.Width, Height: d.Height}
	}
	return out, nil
}

// SetBookmarks replaces the outline of the document at path with bms.
func SetBookmarks(path string, bms []Bookmark) error {
	entries := make([]pdfcpu.Bookmark, len(bms))
	for i, bm := range bms {
		entries[i] = pdfcpu.Bookmark{Title: bm.Title, PageFrom: bm.Page}
	}
	if err := api.AddBookmarksFile(path, "", entries, true, configuration()); err != nil {
		return fmt.Errorf("pdfdoc: writing outline: %w", err)
	}
	return nil
}

// Bookmarks returns the top-level outline entries of the document at path.
// A document without an outline yields an empty slice.
func Bookmarks(path string) ([]Bookmark, error) {
	f, err := os.Open(path) // #nosec G304 -- path is caller-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, configuration())
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: reading outline: %w", err)
	}

	out := make([]Bookmark, 0, len(bms))
	for _, bm := range bms {
		out = append(out, Bookmark{Title: bm.Title, Page: bm.PageFrom})
	}
	return out, nil
}

// Stamp writes in to out with a text overlay on every page present in stamps.
// Keys are 1-based page numbers.
func Stamp(in, out string, stamps map[int]TextStamp) error {
	wms := make(map[int]*model.Watermark, len(stamps))
	for page, s := range stamps {
		if strings.TrimSpace(s.Text) == "" {
			return ErrEmptyStamp
		}
		wm, err := api.TextWatermark(s.Text, s.description(), true, false, types.POINTS)
		if err != nil {
			return fmt.Errorf("pdfdoc: building stamp for page %d: %w", page, err)
		}
		wms[page] = wm
	}
	if err := api.AddWatermarksMapFile(in, out, wms, configuration()); err != nil {
		return fmt.Errorf("pdfdoc: stamping: %w", err)
	}
	return nil
}

// SupportedFont reports whether name can be used as a stamp font. Only the
// 14 standard Type 1 fonts qualify since the user font directory is disabled.
func SupportedFont(name string) bool {
	configuration()
	return font.SupportedFont(name)
}

// description renders the stamp in pdfcpu's watermark description syntax.
// The scale factor is absolute so the font size is used as given.
func (s TextStamp) description() string {
	align := s.Align
	if align == "" {
		align = "c"
	}
	return fmt.Sprintf(
		"fontname:%s, points:%d, rotation:%g, opacity:%g, fillcolor:%s, position:c, offset:%g %g, scalefactor:1 abs, aligntext:%s, mode:0",
		s.FontName, int(math.Round(s.FontSize)), s.Rotation, s.Opacity, s.Color, s.Dx, s.Dy, align,
	)
}

// ImageToPDF writes a single-page document to out whose page is exactly
// width x height points and fully covered by the PNG image read from r.
func ImageToPDF(r io.Reader, width, height float64, out string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrImageSize, width, height)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, r)
	pdf.ImageOptions("page", 0, 0, width, height, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("pdfdoc: writing image document: %w", err)
	}
	return nil
}
