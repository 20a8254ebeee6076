// Package recordcsv encodes and decodes rows in the CSV record dialect read by
// the page-graph loader.
//
// A row is a sequence of comma separated fields terminated by a newline.
// Integers are decimal, booleans are T or F, strings carry a leading quote
// and percent-escape the characters that would break framing. Vectors are
// written as v{...} and nested records as s{...}.
package recordcsv

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

// ErrEncoding is returned when a row cannot be serialized.
var ErrEncoding = errors.New("row encoding failed")

// Writer builds one row at a time into an internal buffer. The first error is
// sticky; once set, further writes are ignored and Bytes reports it.
type Writer struct {
	buf   bytes.Buffer
	first bool
	depth int
	err   error
}

// NewWriter returns a Writer positioned at the start of a row.
func NewWriter() *Writer {
	return &Writer{first: true}
}

// Reset discards the current row.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.first = true
	w.depth = 0
	w.err = nil
}

func (w *Writer) comma() {
	if !w.first {
		w.buf.WriteByte(',')
	}
	w.first = false
}

// WriteLong writes an integer field.
func (w *Writer) WriteLong(v int64) {
	if w.err != nil {
		return
	}
	w.comma()
	w.buf.WriteString(strconv.FormatInt(v, 10))
}

// WriteInt writes an integer field.
func (w *Writer) WriteInt(v int) {
	w.WriteLong(int64(v))
}

// WriteBool writes T or F.
func (w *Writer) WriteBool(v bool) {
	if w.err != nil {
		return
	}
	w.comma()
	if v {
		w.buf.WriteByte('T')
	} else {
		w.buf.WriteByte('F')
	}
}

// WriteString writes a quoted, escaped string field. Text that is not valid
// UTF-8 fails the row.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if !utf8.ValidString(s) {
		w.err = fmt.Errorf("%w: invalid UTF-8 in %q", ErrEncoding, s)
		return
	}
	w.comma()
	w.buf.WriteByte('\'')
	w.buf.WriteString(escape(s))
}

// StartVector opens a v{ container.
func (w *Writer) StartVector() {
	w.open("v{")
}

// EndVector closes the innermost vector.
func (w *Writer) EndVector() {
	w.close()
}

// StartRecord opens an s{ container for a record nested in a vector or field.
func (w *Writer) StartRecord() {
	w.open("s{")
}

// EndRecord closes the innermost nested record.
func (w *Writer) EndRecord() {
	w.close()
}

func (w *Writer) open(token string) {
	if w.err != nil {
		return
	}
	w.comma()
	w.buf.WriteString(token)
	w.first = true
	w.depth++
}

func (w *Writer) close() {
	if w.err != nil {
		return
	}
	if w.depth == 0 {
		w.err = fmt.Errorf("%w: unbalanced container close", ErrEncoding)
		return
	}
	w.buf.WriteByte('}')
	w.first = false
	w.depth--
}

// Bytes terminates the row and returns it. Nothing is returned when any
// write failed, so callers never see a partial row.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.depth != 0 {
		return nil, fmt.Errorf("%w: %d unclosed containers", ErrEncoding, w.depth)
	}
	row := make([]byte, w.buf.Len()+1)
	copy(row, w.buf.Bytes())
	row[len(row)-1] = '\n'
	return row, nil
}

// Line formats a plain two-field row, used where the loader expects bare
// integers rather than a framed record.
func Line(id, value int) []byte {
	b := make([]byte, 0, 24)
	b = strconv.AppendInt(b, int64(id), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(value), 10)
	return append(b, '\n')
}

func escape(s string) string {
	var sb bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			sb.WriteString("%00")
		case '\n':
			sb.WriteString("%0A")
		case '\r':
			sb.WriteString("%0D")
		case ',':
			sb.WriteString("%2C")
		case '}':
			sb.WriteString("%7D")
		case '%':
			sb.WriteString("%25")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
