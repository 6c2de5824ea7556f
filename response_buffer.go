package mdserve

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when a write would grow the response buffer past its limit.
var ErrBufferFull = errors.New("buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is a [ResponseWriter] that holds the status, headers and body in memory until it is flushed.
type ResponseBuffer struct {
	resp    http.ResponseWriter
	limit   int
	buf     *bytes.Buffer
	header  http.Header
	status  int
	wrote   bool
	flushed bool
}

// NewResponseWriter wraps resp in a buffered response writer. A negative limit disables the buffer limit.
func NewResponseWriter(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		limit:  limit,
		buf:    buf,
		header: http.Header{},
		status: http.StatusOK,
	}
}

// Header returns the buffered headers. Until the first flush these are not visible on the underlying writer.
func (w *ResponseBuffer) Header() http.Header {
	if w.flushed {
		return w.resp.Header()
	}

	return w.header
}

// WriteHeader records the status code. Only the first call has effect, like the standard library.
func (w *ResponseBuffer) WriteHeader(statusCode int) {
	if w.wrote {
		return
	}

	w.wrote = true
	w.status = statusCode
}

// Write appends to the buffer, failing with [ErrBufferFull] when the write does not fit the limit.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, errors.Wrapf(ErrBufferFull, "write of %d bytes exceeds limit %d", len(p), w.limit)
	}

	w.WriteHeader(http.StatusOK)

	return w.buf.Write(p)
}

// Reset discards everything that was written so far: body, headers and status.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("mdserve: cannot reset response, already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.status = http.StatusOK
	w.wrote = false
}

// FlushError writes the buffered response to the underlying writer and flushes it. It is called by
// [http.ResponseController.Flush].
func (w *ResponseBuffer) FlushError() error {
	if err := w.FlushBuffer(); err != nil {
		return err
	}

	return http.NewResponseController(w.resp).Flush()
}

// FlushBuffer writes the status, headers and buffered body to the underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.flushed {
		dst := w.resp.Header()
		for k, v := range w.header {
			dst[k] = v
		}

		w.resp.WriteHeader(w.status)
		w.flushed = true
	}

	if w.buf.Len() == 0 {
		return nil
	}

	if _, err := w.resp.Write(w.buf.Bytes()); err != nil {
		return errors.Wrap(err, "write buffered response")
	}

	w.buf.Reset()

	return nil
}

// Unwrap returns the underlying writer, for use by [http.ResponseController].
func (w *ResponseBuffer) Unwrap() http.ResponseWriter {
	return w.resp
}

// Free returns the buffer to the pool. The writer must not be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	bufPool.Put(w.buf)
	w.buf = nil
}

var _ ResponseWriter = &ResponseBuffer{}
