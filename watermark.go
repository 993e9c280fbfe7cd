package pdftools

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"strings"

	"github.com/alnah/go-pdftools/internal/fileutil"
	"github.com/alnah/go-pdftools/internal/pdfdoc"
)

// Watermark alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Watermark defaults.
const (
	DefaultWatermarkFont     = "Helvetica"
	DefaultWatermarkSize     = 48
	DefaultWatermarkRotation = 45
	DefaultWatermarkOpacity  = 0.15
)

// WatermarkOptions describes the text stamped on each target page.
type WatermarkOptions struct {
	Text     string
	FontSize float64 // whole points
	FontName string  // one of the 14 standard PDF fonts
	Rotation float64 // degrees, counter-clockwise, -180 to 180
	Opacity  float64 // 0 (invisible) to 1 (opaque)
	Color    Color
	// X and Y place the centre of the text in PDF user space (points, origin
	// at the bottom left). Nil means the centre of the page on that axis.
	X, Y     *float64
	AllPages bool   // false stamps the first page only
	Align    string // left, center, right: alignment of multi-line text
}

// DefaultWatermarkOptions returns options for text with every default set.
func DefaultWatermarkOptions(text string) WatermarkOptions {
	return WatermarkOptions{
		Text:     text,
		FontSize: DefaultWatermarkSize,
		FontName: DefaultWatermarkFont,
		Rotation: DefaultWatermarkRotation,
		Opacity:  DefaultWatermarkOpacity,
		Color:    Red,
		AllPages: true,
		Align:    AlignCenter,
	}
}

// Validate checks the options. Every failure wraps ErrInvalidArgument.
func (o WatermarkOptions) Validate() error {
	if strings.TrimSpace(o.Text) == "" {
		return fmt.Errorf("%w: watermark text is empty", ErrInvalidArgument)
	}
	if o.FontSize <= 0 {
		return fmt.Errorf("%w: font size must be positive, got %g", ErrInvalidArgument, o.FontSize)
	}
	if math.Trunc(o.FontSize) != o.FontSize {
		return fmt.Errorf("%w: font size must be a whole number of points, got %g", ErrInvalidArgument, o.FontSize)
	}
	if o.FontName != "" && !pdfdoc.SupportedFont(o.FontName) {
		return fmt.Errorf("%w: unsupported font %q (use a standard PDF font such as %s)", ErrInvalidArgument, o.FontName, DefaultWatermarkFont)
	}
	if o.Rotation < -180 || o.Rotation > 180 {
		return fmt.Errorf("%w: rotation must be between -180 and 180 degrees, got %g", ErrInvalidArgument, o.Rotation)
	}
	if o.Opacity < 0 || o.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be between 0 and 1, got %g", ErrInvalidArgument, o.Opacity)
	}
	if err := o.Color.Validate(); err != nil {
		return err
	}
	if _, ok := alignCodes[strings.ToLower(o.Align)]; !ok {
		return fmt.Errorf("%w: alignment %q (must be left, center, or right)", ErrInvalidArgument, o.Align)
	}
	return nil
}

// alignCodes maps alignment names to pdfcpu's codes. Empty means center.
var alignCodes = map[string]string{
	"":          "c",
	AlignLeft:   "l",
	AlignCenter: "c",
	AlignRight:  "r",
}

// WatermarkResult summarises a watermark run.
type WatermarkResult struct {
	Output         File
	PagesProcessed int
}

// Message returns a one-line human summary.
func (r *WatermarkResult) Message() string {
	return fmt.Sprintf("Added watermark on %d page(s) -> %s", r.PagesProcessed, r.Output.Path)
}

// Watermarker stamps text onto PDF pages.
type Watermarker struct {
	cfg config
}

// NewWatermarker creates a Watermarker. Only WithLogger applies.
func NewWatermarker(opts ...Option) *Watermarker {
	return &Watermarker{cfg: newConfig(opts)}
}

// AddTextWatermark writes src to dst with opts.Text stamped on every page, or
// on the first page only when opts.AllPages is false. src is never modified:
// dst naming the same file is ErrInvalidArgument.
func (w *Watermarker) AddTextWatermark(ctx context.Context, src, dst File, opts WatermarkOptions, overwrite bool) (*WatermarkResult, error) {
	if samePath(src.Path, dst.Path) {
		return nil, fmt.Errorf("%w: source and destination must differ: %s", ErrInvalidArgument, src.Path)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !fileutil.FileExists(src.Path) {
		return nil, &fs.PathError{Op: "watermark", Path: src.Path, Err: fs.ErrNotExist}
	}
	if kind := src.Type(); !IsPDFType(kind) {
		return nil, fmt.Errorf("%w: %s is not a PDF (detected %q)", ErrInvalidArgument, src.Path, kind)
	}
	if err := fileutil.CheckDestination(dst.Path, overwrite); err != nil {
		return nil, err
	}

	dims, err := pdfdoc.PageDims(src.AbsolutePath())
	if err != nil {
		return nil, err
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrInvalidArgument, src.Path)
	}

	targets := len(dims)
	if !opts.AllPages {
		targets = 1
	}
	stamps := make(map[int]pdfdoc.TextStamp, targets)
	for page := 1; page <= targets; page++ {
		stamps[page] = opts.stampFor(dims[page-1])
	}

	w.cfg.logger.Debug("stamping", "input", src.Path, "output", dst.Path, "pages", targets)
	err = fileutil.AtomicWrite(dst.Path, func(tmp string) error {
		return pdfdoc.Stamp(src.AbsolutePath(), tmp, stamps)
	})
	if err != nil {
		return nil, fmt.Errorf("watermarking %s: %w", src.Path, err)
	}

	return &WatermarkResult{Output: dst, PagesProcessed: targets}, nil
}

// stampFor converts the options into a stamp for a page of size dim.
// pdfcpu positions stamps relative to the page centre, so absolute
// coordinates become offsets from it.
func (o WatermarkOptions) stampFor(dim pdfdoc.Dim) pdfdoc.TextStamp {
	var dx, dy float64
	if o.X != nil {
		dx = *o.X - dim.Width/2
	}
	if o.Y != nil {
		dy = *o.Y - dim.Height/2
	}
	font := o.FontName
	if font == "" {
		font = DefaultWatermarkFont
	}
	return pdfdoc.TextStamp{
		Text:     o.Text,
		FontName: font,
		FontSize: o.FontSize,
		Rotation: o.Rotation,
		Opacity:  o.Opacity,
		Color:    o.Color.Hex(),
		Align:    alignCodes[strings.ToLower(o.Align)],
		Dx:       dx,
		Dy:       dy,
	}
}
