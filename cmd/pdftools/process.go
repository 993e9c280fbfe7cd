package main

import (
	"context"

	"github.com/alnah/go-pdftools"
)

// runProcess handles "process convert-and-merge-pdfs <output> <paths...>".
// The output comes first, unlike merge pdf-files.
func runProcess(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("process convert-and-merge-pdfs", 1, -1); err != nil {
		return err
	}
	output := inv.args[0]
	in, err := readInputs(inv, inv.args[1:])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	opts := pdftools.ProcessOptions{
		SetBookmarks: inv.flags.merge.setBookmarks || cfg.Merge.SetBookmarks,
		Overwrite:    inv.flags.merge.overwrite || cfg.Output.Overwrite,
		WorkDir:      firstNonEmpty(inv.flags.workDir, cfg.Output.WorkDir),
	}
	listener := inv.flags.office.listener || cfg.Office.Listener

	return withConverter(ctx, inv, cfg, listener, func(conv *pdftools.Converter) error {
		merger := pdftools.NewMerger(pdftools.WithLogger(inv.logger))
		p := pdftools.NewProcessor(conv, merger, pdftools.WithLogger(inv.logger))

		out, err := p.ConvertAndMerge(ctx, in, output, opts)
		if err != nil {
			return err
		}
		reportCreated(inv, "Created "+out.Path)
		return nil
	})
}
