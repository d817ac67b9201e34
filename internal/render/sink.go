package render

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
	"github.com/mattn/go-isatty"
)

// Kind tags whether a sink is an interactive terminal or a plain stream.
type Kind int

const (
	// SinkTerminal is an interactive terminal: overwrite semantics apply.
	SinkTerminal Kind = iota
	// SinkStream is anything else (file, pipe): no overwrite, strip applies.
	SinkStream
)

// StripPolicy controls whether overwritten status noise is stripped from a
// sink's output.
type StripPolicy int

const (
	// Auto strips iff the sink's Kind is SinkStream.
	Auto StripPolicy = iota
	// AlwaysStrip forces stripping on every sink, including the terminal.
	AlwaysStrip
	// NeverStrip forces no-strip mode on every sink.
	NeverStrip
)

// Sink is one output destination: the primary terminal/stdout, or an
// auxiliary file given on the command line.
type Sink struct {
	name     string
	kind     Kind
	w        *bufio.Writer
	closer   io.Closer // non-nil when the sink owns a file/compressor to close
	primary  bool
	strip    bool // resolved effective strip mode for this sink
	widthFn  func() (int, bool)
}

// effectiveMode resolves Kind against a StripPolicy to a boolean.
func effectiveMode(kind Kind, policy StripPolicy) bool {
	switch policy {
	case AlwaysStrip:
		return true
	case NeverStrip:
		return false
	default:
		return kind == SinkStream
	}
}

// NewPrimary builds the primary sink around stdout (or any writer standing
// in for it in tests). isTerminal is resolved once at startup via
// github.com/mattn/go-isatty, the ecosystem's usual TERM/isatty check for
// determining a stream's SinkKind.
func NewPrimary(w io.Writer, isTerminal bool, policy StripPolicy, widthFn func() (int, bool)) *Sink {
	kind := SinkStream
	if isTerminal {
		kind = SinkTerminal
	}
	return &Sink{
		name:    "stdout",
		kind:    kind,
		w:       bufio.NewWriter(w),
		primary: true,
		strip:   effectiveMode(kind, policy),
		widthFn: widthFn,
	}
}

// NewAuxiliary opens an OUTFILE sink. Files are always SinkStream — OUTFILEs
// are plain files, never terminals. A name ending in
// ".zst" is written through a streaming zstd encoder instead of plain bytes,
// the generalization of "duplication to files" documented in SPEC_FULL.md's
// DOMAIN STACK section (grounded on the teacher's own use of
// github.com/DataDog/zstd to compress its rotated log archives).
func NewAuxiliary(path string, policy StripPolicy) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	var w io.Writer = f
	var closer io.Closer = f
	if strings.HasSuffix(path, ".zst") {
		zw := zstd.NewWriter(f)
		w = zw
		closer = multiCloser{zw, f}
	}

	return &Sink{
		name:   path,
		kind:   SinkStream,
		w:      bufio.NewWriter(w),
		closer: closer,
		strip:  effectiveMode(SinkStream, policy),
	}, nil
}

// NewTestSink wraps an arbitrary writer as a non-terminal auxiliary sink,
// for use by tests that don't want to touch the filesystem.
func NewTestSink(name string, w io.Writer, policy StripPolicy) *Sink {
	return &Sink{
		name:  name,
		kind:  SinkStream,
		w:     bufio.NewWriter(w),
		strip: effectiveMode(SinkStream, policy),
	}
}

func (s *Sink) Flush() error {
	return s.w.Flush()
}

// Close flushes and releases any owned file/compressor resources.
func (s *Sink) Close() error {
	ferr := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && ferr == nil {
			return cerr
		}
	}
	return ferr
}

type multiCloser struct {
	zw io.Closer
	f  io.Closer
}

func (m multiCloser) Close() error {
	if err := m.zw.Close(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}

// IsTerminalFD reports whether the given *os.File is attached to a
// terminal, using the ecosystem's idiomatic isatty check. Callers use this
// to resolve the isTerminal argument to NewPrimary.
func IsTerminalFD(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
