// Package console is the diagnostic console the CSV lines are echoed to.
package console

import (
	"io"
	"sync"
)

// Console accepts whole lines. WriteLine never fails the caller.
type Console interface {
	WriteLine(text string)
}

// Writer is a Console over an io.Writer, typically os.Stdout. Lines from
// concurrent callers are never interleaved.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
	buf []byte
}

func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) WriteLine(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf[:0], text...)
	w.buf = append(w.buf, '\n')
	_, _ = w.out.Write(w.buf)
}
