package pdftools

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdftools/internal/fileutil"
)

// Processor converts a list of files and merges the results.
type Processor struct {
	converter PDFConverter
	merger    PDFMerger
	cfg       config
}

// NewProcessor creates a Processor from its two stages.
// Panics if either is nil (programmer error).
func NewProcessor(converter PDFConverter, merger PDFMerger, opts ...Option) *Processor {
	if converter == nil || merger == nil {
		panic("pdftools: NewProcessor requires a converter and a merger")
	}
	return &Processor{converter: converter, merger: merger, cfg: newConfig(opts)}
}

// ConvertAndMerge converts every file in order, then merges the results into
// outputPath. The first conversion failure aborts the run before anything is
// merged. Intermediate PDFs are written to opts.WorkDir, or next to their
// sources when it is empty, and are left in place. outputPath is checked
// before the first conversion so a bad destination writes nothing.
func (p *Processor) ConvertAndMerge(ctx context.Context, files Files, outputPath string, opts ProcessOptions) (File, error) {
	if err := files.Validate(); err != nil {
		return File{}, err
	}
	if opts.WorkDir != "" && !fileutil.DirExists(opts.WorkDir) {
		return File{}, fmt.Errorf("%w: work directory %s", ErrParentMissing, opts.WorkDir)
	}
	if err := fileutil.CheckDestination(outputPath, opts.Overwrite); err != nil {
		return File{}, err
	}

	convertOpts := ConvertOptions{OutputPath: opts.WorkDir, Overwrite: opts.Overwrite}
	converted := make(Files, 0, len(files))
	for i, f := range files {
		p.cfg.logger.Debug("processing", "step", i+1, "of", len(files), "path", f.Path)
		out, err := p.converter.ConvertToPDF(ctx, f, convertOpts)
		if err != nil {
			return File{}, fmt.Errorf("converting %s: %w", f.Path, err)
		}
		converted = append(converted, out)
	}

	return p.merger.Merge(ctx, converted, outputPath, MergeOptions{
		SetBookmarks: opts.SetBookmarks,
		Overwrite:    opts.Overwrite,
	})
}
