package recordcsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSyntax is returned when a row does not follow the dialect.
var ErrSyntax = errors.New("malformed row")

// Reader yields rows from a stream, one line each.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r. Rows may be long (label lists), so the scanner buffer
// grows up to 64 MiB.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &Reader{sc: sc}
}

// Next returns the fields of the next row, or io.EOF.
func (r *Reader) Next() (*Fields, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", r.line+1, err)
		}
		return nil, io.EOF
	}
	r.line++
	return &Fields{s: r.sc.Text(), first: true, line: r.line}, nil
}

// Fields decodes the fields of one row in order. Like Writer, the first
// error is sticky and reported by Err.
type Fields struct {
	s     string
	pos   int
	first bool
	line  int
	err   error
}

// ParseFields decodes a single row held in memory, without its newline.
func ParseFields(row string) *Fields {
	return &Fields{s: strings.TrimSuffix(row, "\n"), first: true}
}

func (f *Fields) fail(format string, args ...any) {
	if f.err == nil {
		f.err = fmt.Errorf("%w: line %d col %d: %s", ErrSyntax, f.line, f.pos+1, fmt.Sprintf(format, args...))
	}
}

func (f *Fields) sep() {
	if f.err != nil {
		return
	}
	if f.first {
		f.first = false
		return
	}
	if f.pos < len(f.s) && f.s[f.pos] == ',' {
		f.pos++
		return
	}
	f.fail("expected ','")
}

func (f *Fields) token() string {
	start := f.pos
	for f.pos < len(f.s) && f.s[f.pos] != ',' && f.s[f.pos] != '}' {
		f.pos++
	}
	return f.s[start:f.pos]
}

// Long reads an integer field.
func (f *Fields) Long() int64 {
	f.sep()
	if f.err != nil {
		return 0
	}
	tok := f.token()
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		f.fail("bad integer %q", tok)
		return 0
	}
	return v
}

// Int reads an integer field.
func (f *Fields) Int() int {
	return int(f.Long())
}

// Bool reads a T or F field.
func (f *Fields) Bool() bool {
	f.sep()
	if f.err != nil {
		return false
	}
	switch tok := f.token(); tok {
	case "T":
		return true
	case "F":
		return false
	default:
		f.fail("bad boolean %q", tok)
		return false
	}
}

// String reads a quoted string field.
func (f *Fields) String() string {
	f.sep()
	if f.err != nil {
		return ""
	}
	tok := f.token()
	if !strings.HasPrefix(tok, "'") {
		f.fail("string without leading quote")
		return ""
	}
	s, err := unescape(tok[1:])
	if err != nil {
		f.fail("%v", err)
		return ""
	}
	return s
}

// StartVector consumes v{.
func (f *Fields) StartVector() {
	f.open("v{")
}

// StartRecord consumes s{.
func (f *Fields) StartRecord() {
	f.open("s{")
}

func (f *Fields) open(token string) {
	f.sep()
	if f.err != nil {
		return
	}
	if !strings.HasPrefix(f.s[f.pos:], token) {
		f.fail("expected %q", token)
		return
	}
	f.pos += len(token)
	f.first = true
}

// More reports whether the current container has another element.
func (f *Fields) More() bool {
	return f.err == nil && f.pos < len(f.s) && f.s[f.pos] != '}'
}

// EndVector consumes the closing brace of a vector.
func (f *Fields) EndVector() {
	f.close()
}

// EndRecord consumes the closing brace of a nested record.
func (f *Fields) EndRecord() {
	f.close()
}

func (f *Fields) close() {
	if f.err != nil {
		return
	}
	if f.pos >= len(f.s) || f.s[f.pos] != '}' {
		f.fail("expected '}'")
		return
	}
	f.pos++
	f.first = false
}

// Err reports the first decoding error, including trailing garbage once the
// caller has read every field it expects.
func (f *Fields) Err() error {
	if f.err == nil && f.pos != len(f.s) {
		f.fail("unexpected trailing data")
	}
	return f.err
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			sb.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated escape")
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", fmt.Errorf("bad escape %q", s[i:i+3])
		}
		sb.WriteByte(byte(v))
		i += 2
	}
	return sb.String(), nil
}
