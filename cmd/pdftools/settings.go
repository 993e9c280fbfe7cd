package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-pdftools"
	"github.com/alnah/go-pdftools/internal/config"
	"github.com/alnah/go-pdftools/internal/office"
)

// loadConfig resolves the configuration for a command.
// Priority: CLI flags > environment > config file > defaults. Flags are
// applied by each command on top of the returned config.
func loadConfig(inv *invocation) (*config.Config, error) {
	envCfg := loadEnvConfig()
	if !inv.flags.common.quiet {
		warnUnknownEnvVars(inv.env.Stderr)
	}

	var cfg *config.Config
	if name := firstNonEmpty(inv.flags.common.config, envCfg.ConfigPath); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		inv.logger.Debug("config loaded", "name", name)
	} else {
		base := inv.env.Config
		if base == nil {
			base = config.DefaultConfig()
		}
		clone := *base
		cfg = &clone
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// converterOptions builds library options from the config and render flags.
// Page settings are validated here so no office process starts for a
// command that would fail anyway.
func converterOptions(cfg *config.Config, inv *invocation) ([]pdftools.Option, error) {
	page := &pdftools.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
		Margin:      cfg.Page.Margin,
	}
	rf := inv.flags.render
	if rf.size != "" {
		page.Size = rf.size
	}
	if rf.orientation != "" {
		page.Orientation = rf.orientation
	}
	if rf.margin != 0 {
		page.Margin = rf.margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	opts := []pdftools.Option{
		pdftools.WithLogger(inv.logger),
		pdftools.WithPageSettings(page),
		pdftools.WithBrowserBin(cfg.Browser.Bin),
		pdftools.WithNoSandbox(cfg.Browser.NoSandbox),
	}

	timeout := firstNonEmpty(rf.timeout, cfg.Browser.Timeout)
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: timeout %q is not a positive duration", ErrUsage, timeout)
		}
		opts = append(opts, pdftools.WithTimeout(d))
	}
	return opts, nil
}

// withConverter runs fn with a Converter whose office conversions go through
// soffice, or through a unoserver listener kept alive for the duration of fn.
func withConverter(ctx context.Context, inv *invocation, cfg *config.Config, listener bool, fn func(*pdftools.Converter) error) error {
	opts, err := converterOptions(cfg, inv)
	if err != nil {
		return err
	}

	return withOffice(ctx, inv, cfg, listener, func(oc pdftools.OfficeConverter) error {
		conv, err := pdftools.NewConverter(append(opts, pdftools.WithOfficeConverter(oc))...)
		if err != nil {
			return err
		}
		defer func() { _ = conv.Close() }()
		return fn(conv)
	})
}

// withOffice resolves the office converter. A listener is stopped on every
// exit path of fn, including cancellation.
func withOffice(ctx context.Context, inv *invocation, cfg *config.Config, listener bool, fn func(pdftools.OfficeConverter) error) error {
	if inv.env.Office != nil {
		return fn(inv.env.Office)
	}
	if !listener {
		return fn(&office.Soffice{Bin: cfg.Office.Soffice})
	}

	lc := office.ListenerConfig{
		Bin:            cfg.Office.Unoserver,
		Executable:     cfg.Office.Soffice,
		Host:           cfg.Office.Host,
		Port:           cfg.Office.Port,
		StartupTimeout: config.Duration(cfg.Office.StartupTimeout),
		StopTimeout:    config.Duration(cfg.Office.StopTimeout),
		Logger:         inv.logger,
	}
	return office.WithListener(ctx, lc, func(l *office.Listener) error {
		inv.logger.Info("office listener started", "addr", l.Addr())
		return fn(l.Converter(cfg.Office.Unoconvert))
	})
}

// readInputs returns the files named by positional args, or by --json-file.
// The two sources are exclusive.
func readInputs(inv *invocation, args []string) (pdftools.Files, error) {
	var files pdftools.Files
	if path := inv.flags.input.jsonFile; path != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: give input paths or --json-file, not both", ErrUsage)
		}
		loaded, err := pdftools.LoadFiles(path)
		if err != nil {
			return nil, err
		}
		files = loaded
	} else {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: no input files", ErrUsage)
		}
		files = pdftools.FilesFromPaths(args)
	}
	inv.logger.Debug("inputs", "count", len(files), "paths", files.Paths())
	return files, nil
}

// reportConverted prints one line per output, or the outputs as a bundle
// with --json.
func reportConverted(inv *invocation, inputs, outputs pdftools.Files) error {
	if inv.flags.output.json {
		return outputs.WriteJSON(inv.env.Stdout)
	}
	if inv.flags.common.quiet {
		return nil
	}
	for i, out := range outputs {
		if i < len(inputs) && out.Path == inputs[i].Path {
			fmt.Fprintf(inv.env.Stdout, "Unchanged %s\n", out.Path)
			continue
		}
		fmt.Fprintf(inv.env.Stdout, "Created %s\n", out.Path)
	}
	return nil
}

// reportCreated prints the single output of a merge or watermark.
func reportCreated(inv *invocation, msg string) {
	if !inv.flags.common.quiet {
		fmt.Fprintln(inv.env.Stdout, msg)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
