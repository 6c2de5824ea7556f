package mdserve

import (
	"io"

	"github.com/cockroachdb/errors"
)

// ReadUnit is the fixed amount by which a [Buffer] grows when a write does not fit.
const ReadUnit = 1024

// Buffer accumulates the Markdown source of one request. Unlike bytes.Buffer it grows linearly, one
// [ReadUnit] at a time, which bounds unused capacity to a single unit.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, max(capacity, 0))}
}

// Bytes returns the accumulated content. The slice is only valid until the next write.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Cap returns the current capacity.
func (b *Buffer) Cap() int { return cap(b.data) }

// Write appends p, growing the buffer as needed. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	for off := 0; off < len(p); {
		if b.spare() == 0 {
			b.grow()
		}

		n := copy(b.data[len(b.data):cap(b.data)], p[off:])
		b.data = b.data[:len(b.data)+n]
		off += n
	}

	return len(p), nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// ReadFrom reads r until EOF straight into the spare capacity of the buffer.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if b.spare() == 0 {
			b.grow()
		}

		n, err := r.Read(b.data[len(b.data):cap(b.data)])
		b.data = b.data[:len(b.data)+n]
		total += int64(n)

		switch {
		case errors.Is(err, io.EOF):
			return total, nil
		case err != nil:
			return total, errors.Wrap(err, "read into buffer")
		}
	}
}

func (b *Buffer) spare() int { return cap(b.data) - len(b.data) }

func (b *Buffer) grow() {
	data := make([]byte, len(b.data), cap(b.data)+ReadUnit)
	copy(data, b.data)
	b.data = data
}

var (
	_ io.Writer       = &Buffer{}
	_ io.ReaderFrom   = &Buffer{}
	_ io.StringWriter = &Buffer{}
)
