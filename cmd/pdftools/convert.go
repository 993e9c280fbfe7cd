package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdftools"
)

// runConvertFile handles "convert file-to-pdf <path>".
func runConvertFile(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("convert file-to-pdf", 1, 1); err != nil {
		return err
	}
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	in := pdftools.Files{pdftools.NewFile(inv.args[0])}
	opts := pdftools.ConvertOptions{
		OutputPath: inv.flags.output.output,
		Overwrite:  inv.flags.output.overwrite || cfg.Output.Overwrite,
	}

	return withConverter(ctx, inv, cfg, false, func(conv *pdftools.Converter) error {
		out, err := conv.ConvertToPDF(ctx, in[0], opts)
		if err != nil {
			return err
		}
		return reportConverted(inv, in, pdftools.Files{out})
	})
}

// runConvertFiles handles "convert files-to-pdf".
func runConvertFiles(ctx context.Context, inv *invocation) error {
	in, err := readInputs(inv, inv.args)
	if err != nil {
		return err
	}
	return convertMany(ctx, inv, in)
}

// runConvertFolder handles "convert folder-to-pdfs <dir>". Subdirectories are
// not descended into.
func runConvertFolder(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("convert folder-to-pdfs", 1, 1); err != nil {
		return err
	}

	entries, err := pdftools.FilesInDir(inv.args[0])
	if err != nil {
		return err
	}
	in := make(pdftools.Files, 0, len(entries))
	for _, f := range entries {
		if f.Type() == pdftools.TypeDir {
			inv.logger.Debug("skipping directory", "path", f.Path)
			continue
		}
		in = append(in, f)
	}
	if len(in) == 0 {
		return fmt.Errorf("%w: no files in %s", pdftools.ErrInvalidArgument, inv.args[0])
	}
	return convertMany(ctx, inv, in)
}

// convertMany converts in, in order, stopping at the first failure.
func convertMany(ctx context.Context, inv *invocation, in pdftools.Files) error {
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	opts := pdftools.ConvertOptions{
		OutputPath: inv.flags.output.output,
		Overwrite:  inv.flags.output.overwrite || cfg.Output.Overwrite,
	}
	listener := inv.flags.office.listener || cfg.Office.Listener

	return withConverter(ctx, inv, cfg, listener, func(conv *pdftools.Converter) error {
		out, err := conv.ConvertAll(ctx, in, opts)
		if err != nil {
			return err
		}
		return reportConverted(inv, in, out)
	})
}
