// Package pipeline wires the framer, classifier, status table and renderer
// together, owning the lifecycle state machine and the mutable state the
// other components are deliberately kept free of.
package pipeline

import (
	"context"
	"fmt"

	"github.com/drmikehenry/ptee/internal/classify"
	"github.com/drmikehenry/ptee/internal/dlog"
	"github.com/drmikehenry/ptee/internal/framer"
	"github.com/drmikehenry/ptee/internal/ptrerr"
	"github.com/drmikehenry/ptee/internal/render"
	"github.com/drmikehenry/ptee/internal/status"
)

// State is the pipeline's lifecycle state.
type State int

const (
	Idle State = iota
	Streaming
	Draining
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Streaming:
		return "Streaming"
	case Draining:
		return "Draining"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Pipeline is the single mutator of ContextTable, SkipState, and the
// renderer's last-rendered-width bookkeeping. It owns the classifier, the
// status table, and the renderer for the lifetime of one invocation.
type Pipeline struct {
	classifier *classify.Classifier
	table      *status.Table
	renderer   *render.Renderer
	log        *dlog.Logger

	state State
}

// New builds a Pipeline around an already-configured classifier and
// renderer. The caller is responsible for opening sinks before calling Run
// and closing them afterward (main.go's job, not the pipeline's, so that
// sink lifetime doesn't depend on streaming ever starting).
func New(c *classify.Classifier, r *render.Renderer, log *dlog.Logger) *Pipeline {
	p := &Pipeline{
		classifier: c,
		table:      status.New(),
		renderer:   r,
		log:        log,
		state:      Idle,
	}
	r.OnAuxError(func(name string, err error) {
		if p.log != nil {
			p.log.Errorf("auxiliary sink %q dropped: %v", name, err)
		}
	})
	return p
}

// State reports the pipeline's current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Run drains f's event channel to completion, driving the classifier,
// status table and renderer for every event, until EndOfStream or ctx is
// canceled. It returns the first PrimarySinkError encountered, if any, or
// ctx.Err() when ctx is canceled.
func (p *Pipeline) Run(ctx context.Context, f *framer.Framer) error {
	events := f.Run(ctx)

	// SIGINT/SIGTERM/SIGHUP: leave the terminal tidy before reporting
	// cancellation.
	shutdown := func() error {
		p.state = Draining
		if err := p.renderer.EndOfStream(); err != nil && p.log != nil {
			p.log.Errorf("status-clear on shutdown failed: %v", err)
		}
		p.state = Done
		return ctx.Err()
	}

	for {
		select {
		case e, open := <-events:
			if !open {
				// The framer also closes the channel when ctx is canceled.
				if ctx.Err() != nil {
					return shutdown()
				}
				return nil
			}
			if err := p.handle(e); err != nil {
				p.state = Failed
				return err
			}
		case <-ctx.Done():
			return shutdown()
		}
	}
}

func (p *Pipeline) handle(e framer.Event) error {
	if p.state == Idle {
		p.state = Streaming
	}

	switch e.Kind {
	case framer.CompleteLine:
		var class classify.LineClass
		var ok bool
		if e.Bypass {
			class, ok = classify.ClassifyBypass(), true
		} else {
			class, ok = p.classifier.Classify(e.Text)
		}
		if !ok {
			if p.log != nil {
				p.log.Debugf("skip: %q", e.Text)
			}
			return nil // consumed by a skip countdown
		}
		if p.log != nil {
			p.log.Debugf("%v: %q", class, e.Text)
		}
		return p.applyClass(class, e.Text)

	case framer.PartialFlush:
		return p.renderer.DrawStatus(p.composeWithPartial(e.Text))

	case framer.EndOfPartialRun:
		return nil

	case framer.EndOfStream:
		p.state = Draining
		if err := p.renderer.EndOfStream(); err != nil {
			return err
		}
		p.state = Done
		return nil
	}
	return nil
}

// composeWithPartial renders the live status with the in-flight partial
// tail appended as a trailing, unjoined segment: a stalled prompt is shown
// immediately without being mistaken for a committed context entry.
func (p *Pipeline) composeWithPartial(tail string) string {
	base := p.table.String()
	if base == "" {
		return tail
	}
	return base + tail
}

func (p *Pipeline) applyClass(class classify.LineClass, line string) error {
	switch class.Kind {
	case classify.Context:
		p.table.Set(class.Level, line)
		if p.table.Empty() {
			return nil
		}
		return p.renderer.DrawStatus(p.table.String())

	case classify.Heading:
		return p.renderer.Heading(line, p.table.String())

	case classify.Regular:
		levels := p.table.Levels()
		return p.renderer.CommitStatus(levels, line)

	default:
		return fmt.Errorf("%w: unknown line class %v", ptrerr.ErrConfig, class)
	}
}

// Close releases the renderer's sinks.
func (p *Pipeline) Close() error {
	return p.renderer.Close()
}
