package office

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/alnah/go-pdftools/internal/process"
)

// Listener defaults.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 2002
	DefaultStartupTimeout = 15 * time.Second
	DefaultStopTimeout    = 10 * time.Second
	DefaultPollInterval   = 250 * time.Millisecond
)

// ListenerConfig configures a unoserver process.
type ListenerConfig struct {
	Bin            string // default "unoserver"
	Executable     string // office binary passed to --executable (optional)
	Host           string
	Port           int
	StartupTimeout time.Duration
	StopTimeout    time.Duration
	PollInterval   time.Duration
	Logger         *slog.Logger
}

func (c ListenerConfig) withDefaults() ListenerConfig {
	c.Bin = orDefault(c.Bin, DefaultUnoserverBin)
	c.Host = orDefault(c.Host, DefaultHost)
	c.Port = orDefaultInt(c.Port, DefaultPort)
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = DefaultStartupTimeout
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Listener is a running unoserver process.
type Listener struct {
	cfg    ListenerConfig
	cmd    *exec.Cmd
	stderr *limitedBuffer

	done    chan struct{}
	waitErr error

	closeOnce sync.Once
}

// StartListener starts unoserver and blocks until its port accepts
// connections. The process is stopped again if it does not become ready
// within cfg.StartupTimeout, exits early, or ctx is cancelled.
func StartListener(ctx context.Context, cfg ListenerConfig) (*Listener, error) {
	l, err := startProcess(cfg.withDefaults())
	if err != nil {
		return nil, err
	}

	if err := l.waitReady(ctx); err != nil {
		_ = l.Close()
		return nil, err
	}

	l.cfg.Logger.Debug("office listener ready", "addr", l.Addr(), "pid", l.cmd.Process.Pid)
	return l, nil
}

// WithListener runs fn with a started listener and closes it on every exit
// path, including a panic in fn.
func WithListener(ctx context.Context, cfg ListenerConfig, fn func(*Listener) error) (err error) {
	l, err := StartListener(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(l)
}

func startProcess(cfg ListenerConfig) (*Listener, error) {
	bin, err := LookPath(cfg.Bin)
	if err != nil {
		return nil, err
	}

	args := []string{"--interface", cfg.Host, "--port", strconv.Itoa(cfg.Port)}
	if cfg.Executable != "" {
		args = append(args, "--executable", cfg.Executable)
	}

	// Not CommandContext: the listener lives until Close, not until a request ends.
	cmd := exec.Command(bin, args...) // #nosec G204 -- binary comes from config
	process.Configure(cmd)
	stderr := &limitedBuffer{n: maxDiagnostics}
	cmd.Stdout = stderr
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", ErrListenerExited, cfg.Bin, err)
	}
	cfg.Logger.Debug("office listener started", "bin", bin, "pid", cmd.Process.Pid)

	l := &Listener{cfg: cfg, cmd: cmd, stderr: stderr, done: make(chan struct{})}
	go func() {
		l.waitErr = cmd.Wait()
		close(l.done)
	}()
	return l, nil
}

func (l *Listener) waitReady(ctx context.Context) error {
	err := waitForPort(ctx, l.Addr(), l.cfg.StartupTimeout, l.cfg.PollInterval, l.done)
	if errors.Is(err, errExited) {
		return fmt.Errorf("%w: %v: %s", ErrListenerExited, l.waitErr, l.stderr)
	}
	return err
}

// errExited is returned by waitForPort when the exited channel closes.
var errExited = errors.New("process exited")

// waitForPort polls addr every interval until a TCP connection succeeds,
// timeout elapses, ctx is done, or exited is closed.
func waitForPort(ctx context.Context, addr string, timeout, interval time.Duration, exited <-chan struct{}) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", addr, interval)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return errExited
		case <-deadline.C:
			return fmt.Errorf("%w: %s after %s", ErrListenerTimeout, addr, timeout)
		case <-ticker.C:
		}
	}
}

// Addr returns the host:port the listener serves.
func (l *Listener) Addr() string {
	return net.JoinHostPort(l.cfg.Host, strconv.Itoa(l.cfg.Port))
}

// Converter returns an Unoconvert bound to this listener.
func (l *Listener) Converter(bin string) *Unoconvert {
	return &Unoconvert{Bin: bin, Host: l.cfg.Host, Port: l.cfg.Port}
}

// Close stops the listener: a graceful terminate first, then a process group
// kill once StopTimeout has elapsed. Processes left in the group are killed
// even when unoserver itself has already exited. Safe to call more than once.
func (l *Listener) Close() error {
	l.closeOnce.Do(l.stop)
	return nil
}

func (l *Listener) stop() {
	pid := l.cmd.Process.Pid
	// unoserver's office child can outlive it; sweep the group on every path.
	defer process.KillProcessGroup(pid)

	select {
	case <-l.done:
		l.cfg.Logger.Debug("office listener already exited", "pid", pid)
		return
	default:
	}

	if err := process.Terminate(pid); err != nil {
		l.cfg.Logger.Debug("terminate office listener", "pid", pid, "error", err)
	}

	timer := time.NewTimer(l.cfg.StopTimeout)
	defer timer.Stop()

	select {
	case <-l.done:
		l.cfg.Logger.Debug("office listener stopped", "pid", pid)
	case <-timer.C:
		l.cfg.Logger.Warn("office listener ignored terminate, killing", "pid", pid, "timeout", l.cfg.StopTimeout)
		process.KillProcessGroup(pid)
		<-l.done
	}
}
