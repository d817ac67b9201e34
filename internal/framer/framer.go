// Package framer converts a raw byte stream into line-framing events:
// CompleteLine, PartialFlush, EndOfPartialRun and EndOfStream, enforcing a
// partial-line timeout on unterminated input.
//
// The read loop runs in its own goroutine, posting raw chunks to the event
// loop over a channel: a reader thread posts bytes, a single-threaded
// consumer applies the timer and produces events. This mirrors the
// reader-goroutine-plus-channel shape of the teacher's
// bufferedpipe.CopyBuffered, with a timer branch added for T_partial, which
// that helper never needed.
package framer

import (
	"context"
	"io"
	"time"

	"github.com/drmikehenry/ptee/internal/constants"
	"github.com/drmikehenry/ptee/internal/io/pool"
)

// EventKind tags the variant an Event carries.
type EventKind int

const (
	// CompleteLine carries one newline-terminated line with the newline
	// stripped.
	CompleteLine EventKind = iota
	// PartialFlush carries the current unterminated tail, emitted when
	// T_partial elapses with no newline.
	PartialFlush
	// EndOfPartialRun signals that a newline arrived after one or more
	// PartialFlush events; the next CompleteLine is the bypass line formed
	// from the flushed tail plus bytes since.
	EndOfPartialRun
	// EndOfStream signals input EOF.
	EndOfStream
)

// Event is one line-framing event.
type Event struct {
	Kind EventKind
	Text string
	// Bypass is set on a CompleteLine that followed one or more
	// PartialFlush events, and on an unterminated tail delivered at EOF; it
	// must be routed directly to Regular without regex evaluation.
	Bypass bool
}

// Framer reads from r and produces Events on the channel returned by Run.
type Framer struct {
	r       io.Reader
	timeout time.Duration
}

// New builds a Framer. A zero timeout disables the partial-line timeout
// feature entirely: the framer then waits indefinitely for a
// newline and never emits PartialFlush.
func New(r io.Reader, timeout time.Duration) *Framer {
	return &Framer{r: r, timeout: timeout}
}

type rawChunk struct {
	data []byte
	err  error
}

// Run starts the reader goroutine and returns a channel of Events. The
// channel is closed after EndOfStream is sent. Run does not block; the
// caller drains the returned channel.
func (f *Framer) Run(ctx context.Context) <-chan Event {
	raw := make(chan rawChunk, constants.RawChunkChannelSize)
	events := make(chan Event, constants.EventChannelSize)

	go f.readLoop(ctx, raw)
	go f.eventLoop(ctx, raw, events)

	return events
}

func (f *Framer) readLoop(ctx context.Context, raw chan<- rawChunk) {
	defer close(raw)
	for {
		bufp := pool.GetRawChunk()
		n, err := f.r.Read(*bufp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, (*bufp)[:n])
			select {
			case raw <- rawChunk{data: data}:
			case <-ctx.Done():
				pool.PutRawChunk(bufp)
				return
			}
		}
		pool.PutRawChunk(bufp)
		if err != nil {
			select {
			case raw <- rawChunk{err: err}:
			case <-ctx.Done():
			}
			return
		}
	}
}

func (f *Framer) eventLoop(ctx context.Context, raw <-chan rawChunk, events chan<- Event) {
	defer close(events)

	buf := make([]byte, 0, constants.LineBufferInitialCapacity)
	bypassPending := false

	emit := func(e Event) bool {
		select {
		case events <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// flushLine extracts and emits every complete line currently buffered,
	// leaving any unterminated tail in buf.
	flushLine := func() bool {
		for {
			idx := indexNewline(buf)
			if idx < 0 {
				return true
			}
			line := string(buf[:idx])
			buf = buf[idx+1:]

			bypass := bypassPending
			if bypassPending {
				if !emit(Event{Kind: EndOfPartialRun}) {
					return false
				}
				bypassPending = false
			}
			if !emit(Event{Kind: CompleteLine, Text: line, Bypass: bypass}) {
				return false
			}
		}
	}

	var timerCh <-chan time.Time
	var timer *time.Timer
	resetTimer := func() {
		if f.timeout <= 0 {
			return
		}
		if timer == nil {
			timer = time.NewTimer(f.timeout)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(f.timeout)
		}
		timerCh = timer.C
	}

	for {
		select {
		case chunk, open := <-raw:
			if !open {
				emit(Event{Kind: EndOfStream})
				return
			}
			if chunk.err != nil {
				if len(buf) > 0 {
					// A trailing, never-newline-terminated tail at EOF is
					// delivered as a bypass line: it was never subject to
					// classification while streaming, and line-framing
					// guarantees only ever applied to newline-terminated
					// input.
					if bypassPending {
						emit(Event{Kind: EndOfPartialRun})
					}
					emit(Event{Kind: CompleteLine, Text: string(buf), Bypass: true})
				}
				emit(Event{Kind: EndOfStream})
				return
			}
			buf = append(buf, chunk.data...)
			if !flushLine() {
				return
			}
			if len(buf) > 0 {
				resetTimer()
			} else if timer != nil {
				timerCh = nil
			}
		case <-timerCh:
			timerCh = nil
			if len(buf) > 0 {
				if !emit(Event{Kind: PartialFlush, Text: string(buf)}) {
					return
				}
				bypassPending = true
			}
		case <-ctx.Done():
			return
		}
	}
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}
