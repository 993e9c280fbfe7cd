package pdftools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// pageDimensions holds portrait paper sizes in inches.
var pageDimensions = map[string]struct{ width, height float64 }{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures the pages Chrome prints for HTML and Markdown
// sources. Images and office documents keep their own geometry.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults). Empty fields and a zero
// margin also mean defaults.
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// withDefaults returns a copy of p with empty fields filled in.
func (p *PageSettings) withDefaults() PageSettings {
	out := *DefaultPageSettings()
	if p == nil {
		return out
	}
	if p.Size != "" {
		out.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		out.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		out.Margin = p.Margin
	}
	return out
}

// paperSize returns the printed paper size in inches, orientation applied.
func (p PageSettings) paperSize() (width, height float64) {
	dims, ok := pageDimensions[p.Size]
	if !ok {
		dims = pageDimensions[PageSizeLetter]
	}
	if p.Orientation == OrientationLandscape {
		return dims.height, dims.width
	}
	return dims.width, dims.height
}

// isValidPageSize checks if size is a known page size (case-insensitive).
// Empty is valid and means the default.
func isValidPageSize(size string) bool {
	if size == "" {
		return true
	}
	_, ok := pageDimensions[strings.ToLower(size)]
	return ok
}

// isValidOrientation checks if orientation is valid (case-insensitive).
// Empty is valid and means the default.
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case "", OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// ConvertOptions controls where a conversion writes.
type ConvertOptions struct {
	// OutputPath is an existing directory (output goes to <dir>/<name>.pdf),
	// a file path used verbatim, or empty (input path with a .pdf extension).
	OutputPath string
	Overwrite  bool
}

// MergeOptions controls Merge.
type MergeOptions struct {
	SetBookmarks bool // one top-level bookmark per merged source
	Overwrite    bool
}

// ProcessOptions controls ConvertAndMerge.
type ProcessOptions struct {
	SetBookmarks bool
	Overwrite    bool
	// WorkDir receives the intermediate PDFs. Empty means next to each input.
	WorkDir string
}

// OfficeConverter turns a word-processor document at in into a PDF at out.
// The converter writes out itself; callers pass a temporary path.
type OfficeConverter interface {
	Convert(ctx context.Context, in, out string) error
}

// Option configures a Converter, Merger, Processor or Watermarker.
// Options that do not apply to a component are ignored by it.
type Option func(*config)

// config holds the settings shared by every component.
type config struct {
	logger    *slog.Logger
	timeout   time.Duration
	office    OfficeConverter
	page      *PageSettings
	browser   string
	noSandbox bool
}

// defaultTimeout bounds loading and printing one page in Chrome.
const defaultTimeout = 30 * time.Second

func newConfig(opts []Option) config {
	cfg := config{
		logger:  slog.New(slog.DiscardHandler),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger routes diagnostics to logger. A nil logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	}
}

// WithTimeout sets the browser timeout for HTML and Markdown conversions.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdftools: WithTimeout duration must be positive")
	}
	return func(c *config) {
		c.timeout = d
	}
}

// WithOfficeConverter replaces the one-shot soffice converter, typically with
// a unoconvert client bound to a running listener.
func WithOfficeConverter(oc OfficeConverter) Option {
	return func(c *config) {
		c.office = oc
	}
}

// WithPageSettings sets the paper used for HTML and Markdown conversions.
func WithPageSettings(p *PageSettings) Option {
	return func(c *config) {
		c.page = p
	}
}

// WithBrowserBin uses the Chrome binary at path instead of ROD_BROWSER_BIN or
// the browser rod downloads.
func WithBrowserBin(path string) Option {
	return func(c *config) {
		c.browser = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which containers usually require.
func WithNoSandbox(disabled bool) Option {
	return func(c *config) {
		c.noSandbox = disabled
	}
}
