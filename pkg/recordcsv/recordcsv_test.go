package recordcsv

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		want  string
	}{
		{
			name: "flat record",
			write: func(w *Writer) {
				w.WriteInt(1)
				w.WriteInt(0)
				w.WriteString("A")
				w.WriteInt(3)
			},
			want: "1,0,'A,3\n",
		},
		{
			name: "int vector",
			write: func(w *Writer) {
				w.WriteInt(1)
				w.StartVector()
				w.WriteInt(10)
				w.WriteInt(11)
				w.EndVector()
			},
			want: "1,v{10,11}\n",
		},
		{
			name: "empty vector",
			write: func(w *Writer) {
				w.WriteInt(7)
				w.StartVector()
				w.EndVector()
			},
			want: "7,v{}\n",
		},
		{
			name: "vector of records",
			write: func(w *Writer) {
				w.WriteInt(1)
				w.StartVector()
				w.StartRecord()
				w.WriteInt(20)
				w.StartVector()
				w.WriteInt(0)
				w.WriteInt(3)
				w.EndVector()
				w.EndRecord()
				w.StartRecord()
				w.WriteInt(21)
				w.StartVector()
				w.EndVector()
				w.EndRecord()
				w.EndVector()
			},
			want: "1,v{s{20,v{0,3}},s{21,v{}}}\n",
		},
		{
			name: "booleans and escapes",
			write: func(w *Writer) {
				w.WriteInt(5)
				w.WriteString("a,b}c%d\ne")
				w.WriteBool(true)
				w.WriteBool(false)
			},
			want: "5,'a%2Cb%7Dc%25d%0Ae,T,F\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.write(w)
			got, err := w.Bytes()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestWriter_InvalidUTF8IsAllOrNothing(t *testing.T) {
	w := NewWriter()
	w.WriteInt(1)
	w.WriteString("ok")
	w.WriteString("bad\xff")
	w.WriteInt(2)

	row, err := w.Bytes()
	assert.Nil(t, row)
	assert.True(t, errors.Is(err, ErrEncoding))

	w.Reset()
	w.WriteInt(3)
	row, err = w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "3\n", string(row))
}

func TestWriter_Unbalanced(t *testing.T) {
	w := NewWriter()
	w.WriteInt(1)
	w.StartVector()
	_, err := w.Bytes()
	assert.ErrorIs(t, err, ErrEncoding)

	w.Reset()
	w.EndVector()
	_, err = w.Bytes()
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestLine(t *testing.T) {
	assert.Equal(t, "2,1\n", string(Line(2, 1)))
}

func TestReader_LinkList(t *testing.T) {
	r := NewReader(strings.NewReader("1,v{s{20,v{0,3}},s{21,v{}}}\n9,v{}\n"))

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Int())

	type link struct {
		id        int
		sentences []int
	}
	var links []link
	f.StartVector()
	for f.More() {
		f.StartRecord()
		l := link{id: f.Int()}
		f.StartVector()
		for f.More() {
			l.sentences = append(l.sentences, f.Int())
		}
		f.EndVector()
		f.EndRecord()
		links = append(links, l)
	}
	f.EndVector()
	require.NoError(t, f.Err())
	assert.Equal(t, []link{{20, []int{0, 3}}, {21, nil}}, links)

	f, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 9, f.Int())
	f.StartVector()
	assert.False(t, f.More())
	f.EndVector()
	require.NoError(t, f.Err())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFields_StringsAndBools(t *testing.T) {
	w := NewWriter()
	w.WriteInt(4)
	w.WriteString("Dog, the %animal}")
	w.WriteString("")
	w.WriteBool(true)
	row, err := w.Bytes()
	require.NoError(t, err)

	f := ParseFields(string(row))
	assert.Equal(t, 4, f.Int())
	assert.Equal(t, "Dog, the %animal}", f.String())
	assert.Equal(t, "", f.String())
	assert.True(t, f.Bool())
	require.NoError(t, f.Err())
}

func TestFields_Malformed(t *testing.T) {
	tests := []struct {
		name string
		row  string
		read func(f *Fields)
	}{
		{"bad integer", "x,1", func(f *Fields) { f.Int(); f.Int() }},
		{"missing quote", "1,abc", func(f *Fields) { f.Int(); _ = f.String() }},
		{"bad bool", "1,Y", func(f *Fields) { f.Int(); f.Bool() }},
		{"unclosed vector", "1,v{2", func(f *Fields) { f.Int(); f.StartVector(); f.Int(); f.EndVector() }},
		{"trailing data", "1,2", func(f *Fields) { f.Int() }},
		{"bad escape", "'a%zz", func(f *Fields) { _ = f.String() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFields(tt.row)
			tt.read(f)
			assert.ErrorIs(t, f.Err(), ErrSyntax)
		})
	}
}
