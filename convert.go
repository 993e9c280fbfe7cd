package pdftools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pdftools/internal/fileutil"
	"github.com/alnah/go-pdftools/internal/office"
	"github.com/alnah/go-pdftools/internal/pdfdoc"
	"github.com/alnah/go-pdftools/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ OfficeConverter        = (*office.Soffice)(nil)
	_ OfficeConverter        = (*office.Unoconvert)(nil)
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ PDFConverter           = (*Converter)(nil)
)

// PDFConverter converts one file to PDF.
type PDFConverter interface {
	ConvertToPDF(ctx context.Context, file File, opts ConvertOptions) (File, error)
}

// Converter turns documents into PDF files. The converter is chosen from the
// detected type of each file:
//
//   - doc, docx, odt, rtf: LibreOffice
//   - jpg, jpeg, png: decoded and wrapped in a single page
//   - html, htm: printed by headless Chrome
//   - md, markdown: rendered to HTML, then printed by headless Chrome
//
// Everything else, PDFs included, is returned unchanged.
//
// A Converter is not safe for concurrent use. Call Close when done to
// release the browser.
type Converter struct {
	cfg      config
	office   OfficeConverter
	markdown pipeline.HTMLConverter
	renderer pdfRenderer
}

// NewConverter creates a Converter. Office documents go through a one-shot
// soffice process unless WithOfficeConverter is given.
// Returns an error if the page settings are invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := newConfig(opts)
	if err := cfg.page.Validate(); err != nil {
		return nil, err
	}

	oc := cfg.office
	if oc == nil {
		oc = &office.Soffice{}
	}

	return &Converter{
		cfg:      cfg,
		office:   oc,
		markdown: pipeline.NewGoldmarkConverter(),
		renderer: newRodRenderer(cfg.timeout, cfg.browser, cfg.noSandbox),
	}, nil
}

// Close releases the browser, if one was started.
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// ConvertToPDF converts file according to its detected type and returns the
// written PDF. Files that need no conversion are returned as given.
// The output either appears complete or not at all.
func (c *Converter) ConvertToPDF(ctx context.Context, file File, opts ConvertOptions) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if strings.TrimSpace(file.Path) == "" {
		return File{}, fmt.Errorf("%w: empty input path", ErrInvalidArgument)
	}

	kind := file.Type()
	switch {
	case IsOfficeType(kind):
		return c.ConvertOffice(ctx, file, opts)
	case IsImageType(kind):
		return c.ConvertImage(ctx, file, opts)
	case IsHTMLType(kind):
		return c.ConvertHTML(ctx, file, opts)
	case IsMarkdownType(kind):
		return c.ConvertMarkdown(ctx, file, opts)
	}

	c.cfg.logger.Debug("no conversion needed", "path", file.Path, "type", kind)
	return file, nil
}

// ConvertAll converts files in order and stops at the first failure.
// With more than one file, opts.OutputPath must be empty or a directory.
func (c *Converter) ConvertAll(ctx context.Context, files Files, opts ConvertOptions) (Files, error) {
	if err := files.Validate(); err != nil {
		return nil, err
	}
	if len(files) > 1 && opts.OutputPath != "" && !fileutil.DirExists(opts.OutputPath) {
		return nil, fmt.Errorf("%w: output for %d files must be an existing directory: %s",
			ErrInvalidArgument, len(files), opts.OutputPath)
	}

	out := make(Files, 0, len(files))
	for _, f := range files {
		converted, err := c.ConvertToPDF(ctx, f, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// ConvertOffice converts a word-processor document through LibreOffice.
func (c *Converter) ConvertOffice(ctx context.Context, file File, opts ConvertOptions) (File, error) {
	return c.convert(ctx, file, opts, "office", func(tmp string) error {
		if err := c.office.Convert(ctx, file.AbsolutePath(), tmp); err != nil {
			return conversionError(ctx, file, err)
		}
		return nil
	})
}

// ConvertImage wraps a PNG or JPEG image in a single page whose size in
// points equals the image size in pixels. Transparency is flattened onto
// white before the image is embedded.
func (c *Converter) ConvertImage(ctx context.Context, file File, opts ConvertOptions) (File, error) {
	return c.convert(ctx, file, opts, "image", func(tmp string) error {
		img, err := decodeImage(file.AbsolutePath())
		if err != nil {
			return err
		}
		flat := flatten(img)
		buf, err := encodeLossless(flat)
		if err != nil {
			return err
		}
		b := flat.Bounds()
		if err := pdfdoc.ImageToPDF(buf, float64(b.Dx()), float64(b.Dy()), tmp); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConversionFailed, file.Name(), err)
		}
		return nil
	})
}

// ConvertHTML prints an HTML page with headless Chrome.
func (c *Converter) ConvertHTML(ctx context.Context, file File, opts ConvertOptions) (File, error) {
	return c.convert(ctx, file, opts, "html", func(tmp string) error {
		return c.render(ctx, file, file.AbsolutePath(), tmp)
	})
}

// ConvertMarkdown renders a Markdown document to HTML and prints it with
// headless Chrome. Relative links and images resolve against the document's
// directory.
func (c *Converter) ConvertMarkdown(ctx context.Context, file File, opts ConvertOptions) (File, error) {
	return c.convert(ctx, file, opts, "markdown", func(tmp string) error {
		content, err := os.ReadFile(file.AbsolutePath())
		if err != nil {
			return err
		}

		title := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		doc, err := c.markdown.ToHTML(ctx, content, title, filepath.Dir(file.AbsolutePath()))
		if err != nil {
			return conversionError(ctx, file, err)
		}

		page, cleanup, err := fileutil.WriteTempFile("", doc, "html")
		if err != nil {
			return err
		}
		defer cleanup()

		return c.render(ctx, file, page, tmp)
	})
}

// render prints the HTML file at page into tmp.
func (c *Converter) render(ctx context.Context, file File, page, tmp string) error {
	data, err := c.renderer.RenderFromFile(ctx, page, c.cfg.page)
	if err != nil {
		return conversionError(ctx, file, err)
	}
	if err := os.WriteFile(tmp, data, fileutil.FilePerm); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// convert resolves and checks the output of file, then runs write against a
// temporary sibling that is renamed into place on success.
func (c *Converter) convert(ctx context.Context, file File, opts ConvertOptions, kind string, write func(tmp string) error) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if !fileutil.FileExists(file.Path) {
		return File{}, &fs.PathError{Op: "convert", Path: file.Path, Err: fs.ErrNotExist}
	}

	out, err := resolveOutput(file, opts)
	if err != nil {
		return File{}, err
	}

	c.cfg.logger.Debug("converting", "kind", kind, "input", file.Path, "output", out)
	if err := fileutil.AtomicWrite(out, write); err != nil {
		return File{}, err
	}
	c.cfg.logger.Debug("converted", "output", out)

	return file.withPath(out), nil
}

// resolveOutput picks the output path for file and checks it can be written.
func resolveOutput(file File, opts ConvertOptions) (string, error) {
	var out string
	switch {
	case opts.OutputPath == "":
		out = fileutil.SwapExt(file.Path, ".pdf")
	case fileutil.DirExists(opts.OutputPath):
		out = filepath.Join(opts.OutputPath, fileutil.SwapExt(file.Name(), ".pdf"))
	default:
		out = opts.OutputPath
	}

	if samePath(out, file.Path) {
		return "", fmt.Errorf("%w: output would replace the input %s", ErrInvalidArgument, file.Path)
	}
	if err := fileutil.CheckDestination(out, opts.Overwrite); err != nil {
		return "", err
	}
	return out, nil
}

// conversionError wraps err in ErrConversionFailed. Context errors and
// unsupported formats are returned unchanged.
func conversionError(ctx context.Context, file File, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrConversionFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrConversionFailed, file.Name(), err)
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	return NewFile(a).AbsolutePath() == NewFile(b).AbsolutePath()
}
