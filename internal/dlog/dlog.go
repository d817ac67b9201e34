// Package dlog is ptee's logger: a non-blocking, buffered-channel writer to
// stderr, adapted from the teacher's internal/io/logger. ptee has a single
// role (there is no client/server split), so the CLIENT/SERVER tag the
// teacher prefixes every line with collapses to a fixed "FILTER" tag, and
// file-logrotation and ANSI colorization (both tied to the teacher's
// multi-day server deployment) are dropped entirely: ptee is a short-lived
// filter process with nothing to rotate.
package dlog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const tag = "FILTER"

const (
	infoStr  = "INFO"
	warnStr  = "WARN"
	errorStr = "ERROR"
	debugStr = "DEBUG"
)

// Logger is a non-blocking logger: Infof/Warnf/Errorf/Debugf enqueue a
// formatted line and return immediately; a single goroutine drains the
// queue to stderr. This mirrors the teacher's writeToStdout loop, minus the
// pause/resume and log-to-file machinery ptee has no use for.
type Logger struct {
	debug bool
	ch    chan string
	w     *bufio.Writer
	done  chan struct{}
}

// New starts a Logger writing to w (normally os.Stderr). debug enables
// Debugf output; Debugf is a no-op otherwise, matching the teacher's
// mode.Debug gate.
func New(ctx context.Context, w *os.File, debug bool) *Logger {
	l := &Logger{
		debug: debug,
		ch:    make(chan string, 256),
		w:     bufio.NewWriter(w),
		done:  make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *Logger) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case line := <-l.ch:
			l.w.WriteString(line)
		case <-time.After(100 * time.Millisecond):
			l.w.Flush()
		case <-ctx.Done():
			l.drain()
			l.w.Flush()
			return
		}
	}
}

func (l *Logger) drain() {
	for {
		select {
		case line := <-l.ch:
			l.w.WriteString(line)
		default:
			return
		}
	}
}

func (l *Logger) enqueue(severity, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s|%s|%s\n", tag, severity, msg)
	select {
	case l.ch <- line:
	default:
		// Queue full: drop rather than block the pipeline, matching the
		// teacher's "logging never blocks the data path" discipline.
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.enqueue(infoStr, format, args)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.enqueue(warnStr, format, args)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.enqueue(errorStr, format, args)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.enqueue(debugStr, format, args)
}

// Describe logs a multi-line description (e.g. the effective ruleset at
// startup) as a sequence of Debugf calls, one per line.
func (l *Logger) Describe(header string, lines []string) {
	if !l.debug || len(lines) == 0 {
		return
	}
	l.Debugf("%s:", header)
	for _, line := range lines {
		l.Debugf("  %s", strings.TrimRight(line, "\n"))
	}
}

// Wait blocks until the logger has drained and flushed following context
// cancellation, so main can rely on all log output having reached stderr
// before the process exits.
func (l *Logger) Wait() {
	<-l.done
}
