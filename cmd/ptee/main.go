// Package main provides ptee, a line-oriented terminal filter that renders
// a continuously-overwritten status line from "context" input lines while
// "regular" lines scroll normally above it, optionally duplicating a plain
// (stripped) copy of the stream to named output files.
//
// See cmd/dcat and cmd/dgrep in the teacher repo for the flag-parsing and
// lifecycle style this entry point follows.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/drmikehenry/ptee/internal/codec"
	"github.com/drmikehenry/ptee/internal/config"
	"github.com/drmikehenry/ptee/internal/dlog"
	"github.com/drmikehenry/ptee/internal/framer"
	"github.com/drmikehenry/ptee/internal/io/signal"
	"github.com/drmikehenry/ptee/internal/pipeline"
	"github.com/drmikehenry/ptee/internal/ptrerr"
	"github.com/drmikehenry/ptee/internal/render"
	"github.com/drmikehenry/ptee/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, _, err := config.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.DisplayVersion {
		version.Print()
		return 0
	}

	enc, err := codec.Lookup(cfg.Encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	classifier, described, err := cfg.BuildClassifier()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, cancel = signal.Notify(ctx)
	defer cancel()

	log := dlog.New(ctx, os.Stderr, cfg.Debug)
	log.Describe("effective ruleset", described)

	stripPolicy := render.Auto
	if cfg.Strip {
		stripPolicy = render.AlwaysStrip
	} else if cfg.NoStrip {
		stripPolicy = render.NeverStrip
	}

	isTerm := render.IsTerminalFD(os.Stdout)
	primary := render.NewPrimary(codec.EncodeWriter(os.Stdout, enc), isTerm, stripPolicy, terminalWidth)

	var aux []*render.Sink
	for _, path := range cfg.OutFiles {
		sink, err := render.NewAuxiliary(path, stripPolicy)
		if err != nil {
			log.Errorf("failed to open auxiliary sink %q: %v", path, err)
			continue
		}
		aux = append(aux, sink)
	}

	renderer := render.New(primary, aux)
	p := pipeline.New(classifier, renderer, log)

	in := codec.DecodeReader(os.Stdin, enc)
	f := framer.New(in, cfg.PartialLineTimeout)

	runErr := p.Run(ctx, f)

	closeErr := p.Close()
	cancel()
	log.Wait()

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, runErr)
		return exitCodeFor(runErr)
	}
	if closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
		return exitCodeFor(closeErr)
	}
	return 0
}

// terminalWidth samples the terminal's current column width via the usual
// platform query, re-sampled at each status draw.
func terminalWidth() (int, bool) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, ptrerr.ErrConfig):
		return 2
	case errors.Is(err, ptrerr.ErrPrimarySink):
		return 1
	case errors.Is(err, ptrerr.ErrInput):
		return 1
	default:
		return 1
	}
}
