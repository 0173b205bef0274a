package runlog

import (
	"fmt"
	"io"
)

// WriterSink writes serial-format record lines to an io.Writer,
// typically the serial console or stdout.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit writes one serial line.
func (s *WriterSink) Emit(rec Record) error {
	if _, err := io.WriteString(s.w, rec.SerialLine()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
