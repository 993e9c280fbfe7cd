package main

// Notes:
// - notifyContext: we only test the observable behavior (context creation,
//   cancellation via stop(), and parent context propagation). We do not test
//   actual OS signal delivery since it's non-deterministic.
// - runBlocking: we test result propagation and panic recovery.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Context creation and cancellation behavior
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("context starts not cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		defer stop()

		select {
		case <-ctx.Done():
			t.Fatal("context should not be cancelled initially")
		default:
		}
	})

	t.Run("stop function cancels context", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		stop()

		select {
		case <-ctx.Done():
		default:
			t.Fatal("context should be cancelled after stop()")
		}
	})

	t.Run("parent cancellation propagates", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("ctx.Err() = %v, want context.Canceled", ctx.Err())
		}
	})

	t.Run("shutdown signals include interrupt", func(t *testing.T) {
		t.Parallel()

		if len(shutdownSignals) == 0 {
			t.Fatal("shutdownSignals is empty")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunBlocking - Result propagation and panic recovery
// ---------------------------------------------------------------------------

func TestRunBlocking(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(context.Context) error
		wantErr error
	}{
		{"success", func(context.Context) error { return nil }, nil},
		{"error", func(context.Context) error { return sentinel }, sentinel},
		{"panic", func(context.Context) error { panic("bad state") }, errCommandPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runBlocking(context.Background(), tt.fn)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runBlocking() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
