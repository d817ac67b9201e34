// Package constants collects the tunable sizes and timeouts shared across
// ptee's components, in the teacher repo's style of keeping these as named
// constants rather than scattering magic numbers through the packages.
package constants

import "time"

const (
	// DefaultPartialLineTimeout is the default T_partial: how long the
	// framer waits for more bytes before flushing an unterminated line.
	DefaultPartialLineTimeout = 2 * time.Second

	// ReadChunkSize is the size of each raw read from the input stream.
	ReadChunkSize = 64 * 1024

	// LineBufferInitialCapacity is the initial capacity given to the
	// framer's line buffer, sized for a typical log line.
	LineBufferInitialCapacity = 4096

	// RawChunkChannelSize is the buffer depth of the channel carrying raw
	// byte chunks from the reader goroutine to the framer's event loop.
	RawChunkChannelSize = 16

	// EventChannelSize is the buffer depth of the channel carrying framer
	// events into the pipeline.
	EventChannelSize = 64
)
