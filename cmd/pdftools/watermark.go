package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-pdftools"
	"github.com/alnah/go-pdftools/internal/config"
)

// runWatermarkAdd handles "watermark add <src> <dst> --text <text>".
func runWatermarkAdd(ctx context.Context, inv *invocation) error {
	if err := inv.wantArgs("watermark add", 2, 2); err != nil {
		return err
	}
	cfg, err := loadConfig(inv)
	if err != nil {
		return err
	}

	opts, err := buildWatermarkOptions(inv, cfg.Watermark)
	if err != nil {
		return err
	}

	wm := pdftools.NewWatermarker(pdftools.WithLogger(inv.logger))
	res, err := wm.AddTextWatermark(ctx,
		pdftools.NewFile(inv.args[0]), pdftools.NewFile(inv.args[1]),
		opts, inv.flags.watermark.overwrite || cfg.Output.Overwrite)
	if err != nil {
		return err
	}
	reportCreated(inv, res.Message())
	return nil
}

// buildWatermarkOptions layers flags over config over library defaults.
func buildWatermarkOptions(inv *invocation, cfg config.WatermarkConfig) (pdftools.WatermarkOptions, error) {
	f := inv.flags.watermark
	opts := pdftools.DefaultWatermarkOptions(f.text)

	// Config
	if cfg.FontName != "" {
		opts.FontName = cfg.FontName
	}
	if cfg.FontSize > 0 {
		opts.FontSize = cfg.FontSize
	}
	if cfg.Rotation != nil {
		opts.Rotation = *cfg.Rotation
	}
	if cfg.Opacity > 0 {
		opts.Opacity = cfg.Opacity
	}
	if cfg.Align != "" {
		opts.Align = cfg.Align
	}
	color := cfg.Color

	// Flags
	if f.font != "" {
		opts.FontName = f.font
	}
	if inv.changed("font-size") {
		opts.FontSize = f.fontSize
	}
	if inv.changed("rotation") {
		opts.Rotation = f.rotation
	}
	if inv.changed("opacity") {
		opts.Opacity = f.opacity
	}
	if inv.changed("x") {
		opts.X = &f.x
	}
	if inv.changed("y") {
		opts.Y = &f.y
	}
	if f.align != "" {
		opts.Align = f.align
	}
	if f.color != "" {
		color = f.color
	}
	if f.firstPageOnly {
		opts.AllPages = false
	}

	if color != "" {
		c, err := pdftools.ParseColor(color)
		if err != nil {
			return opts, fmt.Errorf("watermark colour: %w", err)
		}
		opts.Color = c
	}
	return opts, nil
}
