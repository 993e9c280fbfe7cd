package office

// Notes:
// - unoserver is replaced by small shell scripts. Readiness is simulated by
//   a net.Listener owned by the test on the configured port.
// - Process lifecycle tests need /bin/sh and POSIX signals; they are skipped
//   on Windows.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// fakeServer writes an executable shell script to a temp dir.
func fakeServer(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "unoserver")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil { // #nosec G306 -- test script must be executable
		t.Fatal(err)
	}
	return path
}

// freePort returns a port with nothing listening on it.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

// occupiedPort returns a port accepting connections until the test ends.
func occupiedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// TestWaitForPort - Readiness polling
// ---------------------------------------------------------------------------

func TestWaitForPort(t *testing.T) {
	t.Parallel()

	t.Run("ready port returns nil", func(t *testing.T) {
		t.Parallel()

		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(occupiedPort(t)))
		if err := waitForPort(context.Background(), addr, time.Second, 50*time.Millisecond, nil); err != nil {
			t.Errorf("waitForPort() error = %v", err)
		}
	})

	t.Run("closed port times out", func(t *testing.T) {
		t.Parallel()

		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(freePort(t)))
		start := time.Now()
		err := waitForPort(context.Background(), addr, 300*time.Millisecond, 50*time.Millisecond, nil)
		if !errors.Is(err, ErrListenerTimeout) {
			t.Fatalf("error = %v, want ErrListenerTimeout", err)
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("timeout took %s, want about 300ms", elapsed)
		}
	})

	t.Run("exited process stops polling", func(t *testing.T) {
		t.Parallel()

		exited := make(chan struct{})
		close(exited)
		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(freePort(t)))
		err := waitForPort(context.Background(), addr, 5*time.Second, 50*time.Millisecond, exited)
		if !errors.Is(err, errExited) {
			t.Errorf("error = %v, want errExited", err)
		}
	})

	t.Run("cancelled context stops polling", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(freePort(t)))
		err := waitForPort(ctx, addr, 5*time.Second, 50*time.Millisecond, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestStartListener - Process lifecycle
// ---------------------------------------------------------------------------

func TestStartListener_BinaryMissing(t *testing.T) {
	t.Parallel()

	_, err := StartListener(context.Background(), ListenerConfig{Bin: "pdftools-no-such-unoserver"})
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("error = %v, want ErrBinaryNotFound", err)
	}
}

func TestStartListener_ExitsEarly(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "echo 'cannot bind' >&2; exit 3")
	_, err := StartListener(context.Background(), ListenerConfig{
		Bin:            bin,
		Port:           freePort(t),
		StartupTimeout: 5 * time.Second,
		PollInterval:   50 * time.Millisecond,
	})
	if !errors.Is(err, ErrListenerExited) {
		t.Fatalf("error = %v, want ErrListenerExited", err)
	}
}

func TestStartListener_Timeout(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "exec sleep 30")
	start := time.Now()
	_, err := StartListener(context.Background(), ListenerConfig{
		Bin:            bin,
		Port:           freePort(t),
		StartupTimeout: 300 * time.Millisecond,
		StopTimeout:    time.Second,
		PollInterval:   50 * time.Millisecond,
	})
	if !errors.Is(err, ErrListenerTimeout) {
		t.Fatalf("error = %v, want ErrListenerTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("startup failure took %s; the process should be stopped promptly", elapsed)
	}
}

func TestStartListener_ReadyAndClose(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "exec sleep 30")
	l, err := StartListener(context.Background(), ListenerConfig{
		Bin:            bin,
		Port:           occupiedPort(t),
		StartupTimeout: 5 * time.Second,
		PollInterval:   50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("StartListener() error = %v", err)
	}

	conv := l.Converter("")
	if conv.Port != l.cfg.Port || conv.Host != DefaultHost {
		t.Errorf("Converter() = %+v, want bound to %s", conv, l.Addr())
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !isClosed(l.done) {
		t.Error("process should have exited after Close")
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestListener_Close_KillsStubbornProcess(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "trap '' TERM; sleep 30")
	l, err := startProcess(ListenerConfig{
		Bin:         bin,
		Port:        freePort(t),
		StopTimeout: 200 * time.Millisecond,
	}.withDefaults())
	if err != nil {
		t.Fatalf("startProcess() error = %v", err)
	}
	// Give the shell time to install its trap.
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	_ = l.Close()
	if !isClosed(l.done) {
		t.Fatal("process should be gone after Close")
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("Close returned after %s, before the stop timeout", elapsed)
	}
}

// An unoserver that dies during startup must not leave its children behind.
func TestStartListener_ExitsEarly_KillsOrphans(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skip("needs /proc to observe the child process")
	}
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	bin := fakeServer(t, "sleep 30 >/dev/null 2>&1 &\necho $! > '"+pidFile+"'\nexit 3")

	_, err := StartListener(context.Background(), ListenerConfig{
		Bin:            bin,
		Port:           freePort(t),
		StartupTimeout: 5 * time.Second,
		PollInterval:   50 * time.Millisecond,
	})
	if !errors.Is(err, ErrListenerExited) {
		t.Fatalf("error = %v, want ErrListenerExited", err)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("reading child pid: %v", err)
	}
	child, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("child pid %q: %v", data, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for processAlive(child) {
		if time.Now().After(deadline) {
			t.Fatalf("child %d still running after the listener failed", child)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// processAlive reports whether pid exists and is not a zombie.
func processAlive(pid int) bool {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return false
	}
	// The state follows the parenthesised command name.
	stat := string(data)
	i := strings.LastIndexByte(stat, ')')
	if i < 0 || i+2 >= len(stat) {
		return false
	}
	return stat[i+2] != 'Z'
}

// ---------------------------------------------------------------------------
// TestWithListener - Scoped acquisition
// ---------------------------------------------------------------------------

func TestWithListener_ReleasesOnPanic(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "exec sleep 30")
	cfg := ListenerConfig{
		Bin:            bin,
		Port:           occupiedPort(t),
		StartupTimeout: 5 * time.Second,
		PollInterval:   50 * time.Millisecond,
	}

	var seen *Listener
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = WithListener(context.Background(), cfg, func(l *Listener) error {
			seen = l
			panic("boom")
		})
	}()

	if seen == nil {
		t.Fatal("fn was not called")
	}
	if !isClosed(seen.done) {
		t.Error("listener should be closed after a panic in fn")
	}
}

func TestWithListener_PropagatesError(t *testing.T) {
	t.Parallel()

	bin := fakeServer(t, "exec sleep 30")
	cfg := ListenerConfig{
		Bin:            bin,
		Port:           occupiedPort(t),
		StartupTimeout: 5 * time.Second,
		PollInterval:   50 * time.Millisecond,
	}

	boom := errors.New("boom")
	var seen *Listener
	err := WithListener(context.Background(), cfg, func(l *Listener) error {
		seen = l
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if seen == nil || !isClosed(seen.done) {
		t.Error("listener should be closed when fn returns")
	}
}
