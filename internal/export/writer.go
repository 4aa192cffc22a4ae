package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer writes the pathway table as tab-separated lines. Cells are written
// verbatim: tabs and newlines inside values are not escaped.
type Writer struct {
	w    *bufio.Writer
	rows int
}

// NewWriter returns a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.line(Header)
}

// Write writes one pathway row.
func (w *Writer) Write(r *Row) error {
	if err := w.line(r.Fields()); err != nil {
		return fmt.Errorf("writing row %s: %w", r.ID, err)
	}
	w.rows++
	return nil
}

// Rows reports how many pathway rows have been written.
func (w *Writer) Rows() int { return w.rows }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) line(cells []string) error {
	if _, err := w.w.WriteString(strings.Join(cells, "\t")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}
