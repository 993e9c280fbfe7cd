package main

// Notes:
// - printUsage / printCommandUsage: we check that every command of the table
//   is listed and that command help is built from the registered flags.
// - lookupCommand: we test group and top-level resolution.
// These are acceptable gaps: we test observable behavior, not exact layout.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage - Top-level help
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)
	out := buf.String()

	for _, c := range commandTable() {
		if !strings.Contains(out, c.path()) {
			t.Errorf("usage should list %q", c.path())
		}
	}
	for _, want := range []string{"Convert: ", "Exit codes:", "4  conversion error"} {
		if !strings.Contains(out, want) {
			t.Errorf("usage should contain %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintCommandUsage - Per-command help
// ---------------------------------------------------------------------------

func TestPrintCommandUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    []string
		want    []string
		wantNot []string
	}{
		{
			path: []string{"process", "convert-and-merge-pdfs"},
			want: []string{"Usage: pdftools process convert-and-merge-pdfs [flags] <output>", "--work-dir", "--listener", "-p, --page-size"},
		},
		{
			path:    []string{"merge", "pdf-files"},
			want:    []string{"--set-bookmarks", "--json-file"},
			wantNot: []string{"--page-size"},
		},
		{
			path:    []string{"version"},
			want:    []string{"Usage: pdftools version\n"},
			wantNot: []string{"Flags:"},
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " "), func(t *testing.T) {
			t.Parallel()

			cmd, _, err := lookupCommand(tt.path)
			if err != nil {
				t.Fatalf("lookupCommand() error = %v", err)
			}
			var buf bytes.Buffer
			printCommandUsage(&buf, cmd)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("help should contain %q, got:\n%s", want, buf.String())
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(buf.String(), not) {
					t.Errorf("help should not contain %q", not)
				}
			}
		})
	}
}

func TestRunMain_HelpGroup(t *testing.T) {
	t.Parallel()

	env, stdout, _ := newTestEnv(t)
	if code := run(env, "help", "convert"); code != ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"file-to-pdf", "files-to-pdf", "folder-to-pdfs"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("group help should list %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLookupCommand - Command resolution
// ---------------------------------------------------------------------------

func TestLookupCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		wantPath string
		wantRest int
		wantErr  error
	}{
		{"grouped", []string{"convert", "file-to-pdf", "a.docx"}, "convert file-to-pdf", 1, nil},
		{"top-level", []string{"doctor", "--json"}, "doctor", 1, nil},
		{"empty", nil, "", 0, ErrUsage},
		{"unknown", []string{"zip"}, "", 0, ErrUnknownCommand},
		{"missing subcommand", []string{"merge"}, "", 0, ErrUsage},
		{"flag instead of subcommand", []string{"watermark", "--text"}, "", 0, ErrUsage},
		{"unknown subcommand", []string{"watermark", "remove"}, "", 0, ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, rest, err := lookupCommand(tt.args)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupCommand() error = %v", err)
			}
			if cmd.path() != tt.wantPath || len(rest) != tt.wantRest {
				t.Errorf("got %q with %d args, want %q with %d", cmd.path(), len(rest), tt.wantPath, tt.wantRest)
			}
		})
	}
}
