package pdftools

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-pdftools/internal/fileutil"
	"github.com/alnah/go-pdftools/internal/pdfdoc"
)

// PDFMerger concatenates PDF files into one document.
type PDFMerger interface {
	Merge(ctx context.Context, files Files, outputPath string, opts MergeOptions) (File, error)
}

// Compile-time interface check.
var _ PDFMerger = (*Merger)(nil)

// Merger concatenates PDFs in the order given.
type Merger struct {
	cfg config
}

// NewMerger creates a Merger. Only WithLogger applies.
func NewMerger(opts ...Option) *Merger {
	return &Merger{cfg: newConfig(opts)}
}

// Merge writes the pages of every PDF in files, in order, to outputPath.
//
// Inputs whose detected type is not PDF are skipped with a warning. When no
// PDF remains, ErrInvalidArgument is returned and nothing is written. With
// SetBookmarks, each merged source gets one top-level bookmark at its first
// page, titled by its bookmark name or base name; outlines carried by the
// sources are dropped. The output is written to a temporary file and renamed,
// so it is either complete or absent.
func (m *Merger) Merge(ctx context.Context, files Files, outputPath string, opts MergeOptions) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	if strings.TrimSpace(outputPath) == "" {
		return File{}, fmt.Errorf("%w: empty output path", ErrInvalidArgument)
	}
	if err := fileutil.CheckDestination(outputPath, opts.Overwrite); err != nil {
		return File{}, err
	}

	pdfs := m.selectPDFs(files)
	if len(pdfs) == 0 {
		return File{}, fmt.Errorf("%w: no PDF inputs", ErrInvalidArgument)
	}

	var bookmarks []pdfdoc.Bookmark
	if opts.SetBookmarks {
		var err error
		if bookmarks, err = bookmarksFor(ctx, pdfs); err != nil {
			return File{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return File{}, err
	}

	m.cfg.logger.Debug("merging", "inputs", len(pdfs), "output", outputPath, "bookmarks", len(bookmarks))
	err := fileutil.AtomicWrite(outputPath, func(tmp string) error {
		if err := pdfdoc.Merge(absolutePaths(pdfs), tmp); err != nil {
			return err
		}
		if opts.SetBookmarks {
			return pdfdoc.SetBookmarks(tmp, bookmarks)
		}
		return nil
	})
	if err != nil {
		return File{}, fmt.Errorf("merging into %s: %w", outputPath, err)
	}

	return NewFile(outputPath), nil
}

// selectPDFs drops and reports every input that is not a PDF.
func (m *Merger) selectPDFs(files Files) Files {
	pdfs := make(Files, 0, len(files))
	for _, f := range files {
		kind := f.Type()
		if !IsPDFType(kind) {
			m.cfg.logger.Warn("skipping non-PDF input", "path", f.AbsolutePath(), "type", kind)
			continue
		}
		pdfs = append(pdfs, f)
	}
	return pdfs
}

// bookmarksFor places one bookmark at the first page of each source in the
// merged document. Sources without pages get no bookmark.
func bookmarksFor(ctx context.Context, pdfs Files) ([]pdfdoc.Bookmark, error) {
	bookmarks := make([]pdfdoc.Bookmark, 0, len(pdfs))
	page := 1
	for _, f := range pdfs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := pdfdoc.PageCount(f.AbsolutePath())
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		bookmarks = append(bookmarks, pdfdoc.Bookmark{Title: f.BookmarkTitle(), Page: page})
		page += n
	}
	return bookmarks, nil
}

func absolutePaths(files Files) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.AbsolutePath()
	}
	return paths
}
