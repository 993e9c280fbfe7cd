package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	errCommandPanic   = errors.New("command panicked")
)

// command is one entry of the command table. Grouped commands are invoked as
// "pdftools <group> <name>", top-level ones as "pdftools <name>".
type command struct {
	group   string
	name    string
	summary string
	args    string // argument synopsis for help
	flags   func(*flag.FlagSet, *cliFlags)
	run     func(ctx context.Context, inv *invocation) error
}

// path returns the words that invoke the command.
func (c *command) path() string {
	if c.group == "" {
		return c.name
	}
	return c.group + " " + c.name
}

// invocation is a parsed command line handed to a command.
type invocation struct {
	args    []string // positional arguments
	flags   *cliFlags
	changed func(name string) bool
	env     *Environment
	logger  *slog.Logger
}

// commandTable returns every command in help order.
func commandTable() []*command {
	return []*command{
		{
			group: "convert", name: "file-to-pdf",
			summary: "Convert one file to PDF",
			args:    "<path>",
			flags:   convertFileFlags,
			run:     runConvertFile,
		},
		{
			group: "convert", name: "files-to-pdf",
			summary: "Convert several files to PDF, one output each",
			args:    "<paths...> | --json-file <bundle>",
			flags:   convertFilesFlags,
			run:     runConvertFiles,
		},
		{
			group: "convert", name: "folder-to-pdfs",
			summary: "Convert every file of a folder to PDF",
			args:    "<dir>",
			flags:   convertFolderFlags,
			run:     runConvertFolder,
		},
		{
			group: "merge", name: "pdf-files",
			summary: "Merge PDF files into one",
			args:    "<paths...> <output> | --json-file <bundle> <output>",
			flags:   mergeFilesFlags,
			run:     runMergeFiles,
		},
		{
			group: "merge", name: "pdfs-in-folder",
			summary: "Merge the PDF files of a folder into one",
			args:    "<dir> <output>",
			flags:   mergeFolderFlags,
			run:     runMergeFolder,
		},
		{
			group: "process", name: "convert-and-merge-pdfs",
			summary: "Convert files to PDF, then merge them into one",
			args:    "<output> <paths...> | <output> --json-file <bundle>",
			flags:   processFlags,
			run:     runProcess,
		},
		{
			group: "watermark", name: "add",
			summary: "Stamp text on the pages of a PDF",
			args:    "<src> <dst> --text <text>",
			flags:   watermarkAddFlags,
			run:     runWatermarkAdd,
		},
		{
			name:    "doctor",
			summary: "Check LibreOffice, Chrome, and system setup",
			flags:   doctorFlags,
			run:     runDoctorCmd,
		},
		{
			name:    "config",
			summary: "Print the effective configuration as YAML",
			flags:   configFlags,
			run:     runConfigCmd,
		},
		{
			name:    "completion",
			summary: "Generate shell completion script",
			args:    "<bash|zsh|fish>",
			run:     runCompletion,
		},
		{
			name:    "version",
			summary: "Show version information",
			run:     runVersion,
		},
		{
			name:    "help",
			summary: "Show help for a command",
			args:    "[command]",
			run:     runHelp,
		},
	}
}

// lookupCommand resolves the command named by the leading words of args and
// returns the remaining arguments.
func lookupCommand(args []string) (*command, []string, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("%w: no command given", ErrUsage)
	}
	name := args[0]

	var subs []string
	for _, c := range commandTable() {
		if c.group == "" && c.name == name {
			return c, args[1:], nil
		}
		if c.group == name {
			subs = append(subs, c.name)
		}
	}
	if len(subs) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return nil, nil, fmt.Errorf("%w: %s needs a subcommand: %s", ErrUsage, name, strings.Join(subs, ", "))
	}
	for _, c := range commandTable() {
		if c.group == name && c.name == args[1] {
			return c, args[2:], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s %s", ErrUnknownCommand, name, args[1])
}

// runMain dispatches args (including the program name) and returns the
// process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	switch args[1] {
	case "-h", "--help":
		printUsage(env.Stdout)
		return ExitSuccess
	case "--version":
		printVersion(env.Stdout)
		return ExitSuccess
	}

	cmd, rest, err := lookupCommand(args[1:])
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err = runBlocking(ctx, func(ctx context.Context) error {
		return execute(ctx, cmd, rest, env)
	})
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runBlocking runs fn on a dedicated goroutine and blocks until it returns.
// A panic in fn is returned as an error.
func runBlocking(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", errCommandPanic, r)
			}
		}()
		done <- fn(ctx)
	}()
	return <-done
}

// execute parses the command flags and runs the command.
func execute(ctx context.Context, cmd *command, args []string, env *Environment) error {
	fs := newFlagSet(cmd)
	f := &cliFlags{}
	if cmd.flags != nil {
		cmd.flags(fs, f)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCommandUsage(env.Stdout, cmd)
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrUsage, cmd.path(), err)
	}

	now := env.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	logger := newLogger(env.Stderr, f.common)

	err := cmd.run(ctx, &invocation{
		args:    fs.Args(),
		flags:   f,
		changed: fs.Changed,
		env:     env,
		logger:  logger,
	})
	logger.Debug("command finished", "command", cmd.path(), "elapsed", now().Sub(start), "ok", err == nil)
	return err
}

// newFlagSet returns a silent FlagSet: errors are reported by runMain.
func newFlagSet(cmd *command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.path(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}

// newLogger returns the diagnostics logger: errors only with --quiet, debug
// with --verbose, info otherwise.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelError
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// wantArgs returns ErrUsage unless the invocation has between lo and hi
// positional arguments. hi < 0 means unbounded.
func (inv *invocation) wantArgs(cmd string, lo, hi int) error {
	n := len(inv.args)
	if n < lo || (hi >= 0 && n > hi) {
		return fmt.Errorf("%w: %s: unexpected number of arguments (%d); see 'pdftools help %s'", ErrUsage, cmd, n, cmd)
	}
	return nil
}
