// Package pool reuses render buffers across events.
package pool

import (
	"bytes"
	"sync"
)

// maxPooled is the largest buffer capacity kept for reuse. A panel with a
// full sidebar renders well below it.
const maxPooled = 256 * 1024

var buffers = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := buffers.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. Oversized buffers are dropped.
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooled {
		return
	}
	buffers.Put(buf)
}
