package pool

import (
	"sync"

	"github.com/drmikehenry/ptee/internal/constants"
)

// RawChunkPool provides a pool of fixed-size buffers for the framer's raw
// stdin reads, avoiding a fresh allocation on every chunk.
var RawChunkPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.ReadChunkSize)
		return &buf
	},
}

// GetRawChunk gets a read-chunk-sized buffer from the pool.
func GetRawChunk() *[]byte {
	return RawChunkPool.Get().(*[]byte)
}

// PutRawChunk returns a raw chunk buffer to the pool.
func PutRawChunk(buf *[]byte) {
	if buf != nil {
		*buf = (*buf)[:cap(*buf)]
	}
	RawChunkPool.Put(buf)
}
