// Package office converts word-processor documents to PDF through LibreOffice.
//
// Two converters are provided:
//   - Soffice runs "soffice --headless --convert-to pdf" once per document.
//   - Unoconvert sends each document to a running unoserver Listener, which
//     avoids paying the office suite startup cost for every file in a batch.
//
// Both satisfy Converter. A Listener is a scoped resource: acquire it with
// StartListener (or WithListener) and always Close it.
package office

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-pdftools/internal/fileutil"
	"github.com/alnah/go-pdftools/internal/process"
)

// Sentinel errors for office conversions.
var (
	ErrBinaryNotFound  = errors.New("office: converter binary not found")
	ErrConversion      = errors.New("office: converter failed")
	ErrNoOutput        = errors.New("office: converter produced no output")
	ErrListenerTimeout = errors.New("office: listener did not accept connections in time")
	ErrListenerExited  = errors.New("office: listener exited during startup")
)

// Default binaries, looked up on PATH.
const (
	DefaultSofficeBin    = "soffice"
	DefaultUnoserverBin  = "unoserver"
	DefaultUnoconvertBin = "unoconvert"
)

// maxDiagnostics bounds the converter output kept in error messages.
const maxDiagnostics = 2048

// Converter turns the document at in into a PDF at out.
type Converter interface {
	Convert(ctx context.Context, in, out string) error
}

// Compile-time interface checks.
var (
	_ Converter = (*Soffice)(nil)
	_ Converter = (*Unoconvert)(nil)
)

// Runner executes an external command to completion and returns its combined
// output. Tests replace it to avoid spawning LibreOffice.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command in its own process group. Cancelling ctx kills
// the whole group so office helpers do not outlive the request.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary comes from config
	process.Configure(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// LookPath resolves bin on PATH, mapping a miss to ErrBinaryNotFound.
func LookPath(bin string) (string, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrBinaryNotFound, bin)
	}
	return path, nil
}

// Soffice converts one document per soffice invocation.
type Soffice struct {
	Bin string // default "soffice"
	Run Runner // default ExecRunner
}

// Convert runs soffice with a private profile directory so concurrent or
// crashed instances never lock each other out.
func (s *Soffice) Convert(ctx context.Context, in, out string) error {
	bin, err := LookPath(orDefault(s.Bin, DefaultSofficeBin))
	if err != nil {
		return err
	}

	profile, err := os.MkdirTemp("", "pdftools-profile-*")
	if err != nil {
		return fmt.Errorf("creating office profile: %w", err)
	}
	defer os.RemoveAll(profile)

	// soffice names its output after the input; collect it next to out so the
	// final move is a rename on the same filesystem.
	outDir, err := os.MkdirTemp(filepath.Dir(out), ".pdftools-soffice-*")
	if err != nil {
		return fmt.Errorf("creating office output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		"-env:UserInstallation=" + fileURL(profile),
		"--headless",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		in,
	}
	if diag, err := s.runner()(ctx, bin, args...); err != nil {
		return convError(ctx, in, err, diag)
	}

	produced := filepath.Join(outDir, fileutil.SwapExt(filepath.Base(in), ".pdf"))
	if !fileutil.FileExists(produced) {
		// soffice exits 0 when it cannot load a document.
		return fmt.Errorf("%w: %s", ErrNoOutput, filepath.Base(in))
	}
	if err := os.Rename(produced, out); err != nil {
		return fmt.Errorf("moving office output: %w", err)
	}
	return nil
}

func (s *Soffice) runner() Runner {
	if s.Run != nil {
		return s.Run
	}
	return ExecRunner
}

// Unoconvert converts documents through a running unoserver.
type Unoconvert struct {
	Bin  string // default "unoconvert"
	Host string
	Port int
	Run  Runner // default ExecRunner
}

// Convert asks the listener at Host:Port to convert in to out.
func (u *Unoconvert) Convert(ctx context.Context, in, out string) error {
	bin, err := LookPath(orDefault(u.Bin, DefaultUnoconvertBin))
	if err != nil {
		return err
	}

	args := []string{
		"--host", orDefault(u.Host, DefaultHost),
		"--port", strconv.Itoa(orDefaultInt(u.Port, DefaultPort)),
		"--convert-to", "pdf",
		in, out,
	}
	run := u.Run
	if run == nil {
		run = ExecRunner
	}
	if diag, err := run(ctx, bin, args...); err != nil {
		return convError(ctx, in, err, diag)
	}

	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrNoOutput, filepath.Base(in))
	}
	return nil
}

// convError wraps a failed run. A cancelled context wins over the exit status
// because the process was killed on our behalf.
func convError(ctx context.Context, in string, err error, diag []byte) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	msg := strings.TrimSpace(string(diag))
	if len(msg) > maxDiagnostics {
		msg = msg[:maxDiagnostics] + "..."
	}
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrConversion, filepath.Base(in), err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrConversion, filepath.Base(in), err, msg)
}

// fileURL renders an absolute path as a file:// URL understood by soffice.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// limitedBuffer keeps the first n bytes written to it.
type limitedBuffer struct {
	buf bytes.Buffer
	n   int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.n - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string { return strings.TrimSpace(b.buf.String()) }
