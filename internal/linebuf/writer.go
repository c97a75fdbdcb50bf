// Package linebuf provides line-buffered IO utilities.
package linebuf

import (
	"bytes"
	"io"
	"sync"
)

// Writer returns an io.Writer that invokes emit
// for every complete line written to it,
// trailing newline included.
//
// Writes that end mid-line are buffered
// until the rest of the line arrives.
// The returned done function flushes
// any unterminated final line and must be called
// once no further writes are expected.
func Writer(emit func(line []byte)) (_ io.Writer, done func()) {
	w := writer{emit: emit}
	return &w, w.flush
}

type writer struct {
	emit func([]byte)

	mu      sync.Mutex // guards partial
	partial bytes.Buffer
}

func (w *writer) Write(bs []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	written := len(bs)
	for {
		idx := bytes.IndexByte(bs, '\n')
		if idx < 0 {
			// No newline yet. Hold on to the remainder.
			w.partial.Write(bs)
			return written, nil
		}

		var line []byte
		line, bs = bs[:idx+1], bs[idx+1:]

		if w.partial.Len() > 0 {
			// Complete a line started by an earlier write.
			w.partial.Write(line)
			line = w.partial.Bytes()
		}
		w.emit(line)
		w.partial.Reset()
	}
}

func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.partial.Len() > 0 {
		w.emit(w.partial.Bytes())
		w.partial.Reset()
	}
}
