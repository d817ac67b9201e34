package dlog

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

// captureStderr redirects os.Stderr to a pipe for the duration of fn and
// returns everything written to it.
func captureStderr(t *testing.T, fn func(*os.File)) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	fn(w)
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestInfofReachesOutputAfterCancel(t *testing.T) {
	out := captureStderr(t, func(w *os.File) {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(ctx, w, false)
		l.Infof("hello %s", "world")
		cancel()
		l.Wait()
	})
	if !strings.Contains(out, "FILTER|INFO|hello world") {
		t.Fatalf("got %q", out)
	}
}

func TestDebugfSuppressedWithoutDebug(t *testing.T) {
	out := captureStderr(t, func(w *os.File) {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(ctx, w, false)
		l.Debugf("should not appear")
		cancel()
		l.Wait()
	})
	if strings.Contains(out, "should not appear") {
		t.Fatalf("debug line leaked: %q", out)
	}
}

func TestDebugfEmittedWhenEnabled(t *testing.T) {
	out := captureStderr(t, func(w *os.File) {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(ctx, w, true)
		l.Debugf("rule: %s", "level(0) ^gcc")
		cancel()
		l.Wait()
	})
	if !strings.Contains(out, "FILTER|DEBUG|rule: level(0) ^gcc") {
		t.Fatalf("got %q", out)
	}
}

func TestWaitDoesNotHangWithoutActivity(t *testing.T) {
	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithCancel(context.Background())
		l := New(ctx, os.Stderr, false)
		cancel()
		l.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked with no activity")
	}
}
