package platform

import (
	"io"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// CopyStream copies src to dst through a pooled buffer. It is the portable
// path and the one used when reads must pass through a wrapper such as a
// rate limiter.
func CopyStream(dst io.Writer, src io.Reader) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	// Hide ReaderFrom/WriterTo so the buffer is always used.
	n, err := io.CopyBuffer(struct{ io.Writer }{dst}, struct{ io.Reader }{src}, *bufp)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}
