// Package render emits the classifier/status output to the primary sink and
// any auxiliary sinks, applying carriage-return overwrite semantics on
// terminals and strip semantics on plain streams.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/drmikehenry/ptee/internal/io/pool"
	"github.com/drmikehenry/ptee/internal/ptrerr"
)

// Renderer drives one primary sink plus zero or more auxiliary sinks. It is
// the sole owner of each sink's last-rendered-width bookkeeping.
type Renderer struct {
	primary *Sink
	aux     []*Sink

	// lastRenderedWidth is the printable column width of the status last
	// drawn to the primary sink, when it is a terminal.
	lastRenderedWidth int

	onAuxError func(name string, err error)
}

// New builds a Renderer around a primary sink and any auxiliary sinks. The
// fan-out order for auxiliary writes matches the order given here: writes
// for the same event are issued in declared order.
func New(primary *Sink, aux []*Sink) *Renderer {
	return &Renderer{primary: primary, aux: aux}
}

// terminalWidth samples the primary sink's width function, if any. A
// missing or failing width function means "unknown", disabling truncation.
func (r *Renderer) terminalWidth() (int, bool) {
	if r.primary.widthFn == nil {
		return 0, false
	}
	return r.primary.widthFn()
}

// DrawStatus renders a Context update: overwrite the live status line on
// the primary terminal, write it literally (no-strip) or not at all
// (strip) on plain sinks.
func (r *Renderer) DrawStatus(status string) error {
	if r.primary.kind == SinkTerminal && !r.primary.strip {
		display := status
		if w, ok := r.terminalWidth(); ok && runeLen(display) > w {
			display = truncateRunes(display, w)
		}
		wNew := runeLen(display)
		pad := r.lastRenderedWidth - wNew
		if pad < 0 {
			pad = 0
		}
		if err := r.writePrimary("\r" + display + strings.Repeat(" ", pad) + "\r"); err != nil {
			return err
		}
		r.lastRenderedWidth = wNew
	} else if !r.primary.strip {
		if err := r.writePrimary(status + "\r"); err != nil {
			return err
		}
	}

	for _, s := range r.aux {
		if !s.strip {
			if err := writeAux(s, status+"\r"); err != nil {
				r.reportAuxError(s, err)
			}
		}
	}
	return r.flushPrimary()
}

// clearLive erases any live status on the primary terminal, or is a no-op
// on plain sinks (they never had a live status to begin with).
func (r *Renderer) clearLive() error {
	if r.primary.kind == SinkTerminal && r.lastRenderedWidth > 0 {
		pad := strings.Repeat(" ", r.lastRenderedWidth)
		if err := r.writePrimary("\r" + pad + "\r"); err != nil {
			return err
		}
		r.lastRenderedWidth = 0
	}
	return nil
}

// CommitStatus implements the Regular-line behavior: clear any live status,
// write each level's context on its own line in ascending order, then the
// regular line itself.
func (r *Renderer) CommitStatus(levels []string, line string) error {
	if err := r.clearLive(); err != nil {
		return err
	}

	// A committed status block is built in a pooled bytes.Buffer rather
	// than a fresh strings.Builder, the same reuse discipline the teacher
	// applies to its own per-line allocations.
	b := pool.BytesBuffer.Get().(*bytes.Buffer)
	defer pool.RecycleBytesBuffer(b)
	for _, lvl := range levels {
		b.WriteString(lvl)
		b.WriteByte('\n')
	}
	b.WriteString(line)
	b.WriteByte('\n')
	block := b.String()

	if err := r.writePrimary(block); err != nil {
		return err
	}
	for _, s := range r.aux {
		if err := writeAux(s, block); err != nil {
			r.reportAuxError(s, err)
		}
	}
	return r.flushPrimary()
}

// Heading implements the Heading behavior: clear live status, print the
// heading, then redraw the current status if non-empty.
func (r *Renderer) Heading(text string, currentStatus string) error {
	if err := r.clearLive(); err != nil {
		return err
	}
	line := text + "\n"
	if err := r.writePrimary(line); err != nil {
		return err
	}
	for _, s := range r.aux {
		if err := writeAux(s, line); err != nil {
			r.reportAuxError(s, err)
		}
	}
	if err := r.flushPrimary(); err != nil {
		return err
	}
	if currentStatus != "" {
		return r.DrawStatus(currentStatus)
	}
	return nil
}

// EndOfStream clears any live status and flushes every sink. Called once
// draining begins.
func (r *Renderer) EndOfStream() error {
	if err := r.clearLive(); err != nil {
		return err
	}
	if err := r.primary.Flush(); err != nil {
		return ptrerr.Wrap(err, "primary sink flush failed")
	}
	for _, s := range r.aux {
		if err := s.Flush(); err != nil {
			r.reportAuxError(s, err)
		}
	}
	return nil
}

// Close releases the primary and all auxiliary sinks.
func (r *Renderer) Close() error {
	var firstErr error
	if err := r.primary.Close(); err != nil {
		firstErr = ptrerr.Wrap(err, "primary sink close failed")
	}
	for _, s := range r.aux {
		// Auxiliary close failures are non-fatal, per AuxiliarySinkError.
		s.Close()
	}
	return firstErr
}

func (r *Renderer) writePrimary(s string) error {
	if _, err := io.WriteString(r.primary.w, s); err != nil {
		return fmt.Errorf("%w: %v", ptrerr.ErrPrimarySink, err)
	}
	return nil
}

func (r *Renderer) flushPrimary() error {
	if err := r.primary.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ptrerr.ErrPrimarySink, err)
	}
	return nil
}

func writeAux(s *Sink, text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return err
	}
	return s.Flush()
}

// reportAuxError drops the failing sink from future fan-out and surfaces
// the failure; callers decide how to log it. The fan-out slice is replaced
// rather than edited in place, so a loop still ranging over the old slice
// reaches every remaining sink exactly once.
func (r *Renderer) reportAuxError(s *Sink, err error) {
	kept := make([]*Sink, 0, len(r.aux))
	for _, a := range r.aux {
		if a != s {
			kept = append(kept, a)
		}
	}
	r.aux = kept
	if r.onAuxError != nil {
		r.onAuxError(s.name, fmt.Errorf("%w: %s: %v", ptrerr.ErrAuxiliarySink, s.name, err))
	}
}

// OnAuxError installed by the pipeline to log a dropped auxiliary sink via
// its own logger rather than the renderer importing one directly.
func (r *Renderer) OnAuxError(f func(name string, err error)) {
	r.onAuxError = f
}

// runeLen is the naive display-width calculation: a straight rune count,
// not an East-Asian-width-aware one. This is an intentional legacy
// behavior, not an oversight — see DESIGN.md's Open Question resolution.
func runeLen(s string) int {
	return len([]rune(s))
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
