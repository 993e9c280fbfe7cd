package main

import (
	"context"

	"github.com/alnah/go-pdftools"
)

// runMergeFiles handles "merge pdf-files <paths...> <output>". The output is
// always the last positional argument, also with --json-file.
func runMergeFiles(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("merge pdf-files", 1, -1); err != nil {
		return err
	}
	last := len(inv.args) - 1
	in, err := readInputs(inv, inv.args[:last])
	if err != nil {
		return err
	}
	return mergeInto(ctx, inv, in, inv.args[last])
}

// runMergeFolder handles "merge pdfs-in-folder <dir> <output>".
func runMergeFolder(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("merge pdfs-in-folder", 2, 2); err != nil {
		return err
	}
	in, err := pdftools.FilesInDir(inv.args[0])
	if err != nil {
		return err
	}
	return mergeInto(ctx, inv, in, inv.args[1])
}

func mergeInto(ctx context.Context, inv *invocation, in pdftools.Files, output string) error {
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	merger := pdftools.NewMerger(pdftools.WithLogger(inv.logger))
	out, err := merger.Merge(ctx, in, output, pdftools.MergeOptions{
		SetBookmarks: inv.flags.merge.setBookmarks || cfg.Merge.SetBookmarks,
		Overwrite:    inv.flags.merge.overwrite || cfg.Output.Overwrite,
	})
	if err != nil {
		return err
	}
	reportCreated(inv, "Created "+out.Path)
	return nil
}
