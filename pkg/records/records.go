// Package records reads and writes the part files produced by the page
// sorting and page depth stages. A part file is a stream of msgpack encoded
// key/value pairs ordered by key, where the key is the page id.
package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dtnitsch/wiki-page-summary/models"
)

type detailPair struct {
	Key   int                 `msgpack:"key"`
	Value models.DetailRecord `msgpack:"value"`
}

type depthPair struct {
	Key   int                `msgpack:"key"`
	Value models.DepthRecord `msgpack:"value"`
}

type reader struct {
	path string
	f    *os.File
	dec  *msgpack.Decoder
	n    int
}

func open(path string) (*reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open part file: %w", err)
	}
	dec := msgpack.GetDecoder()
	dec.Reset(bufio.NewReaderSize(f, 1<<20))
	return &reader{path: path, f: f, dec: dec}, nil
}

func (r *reader) decode(v any) error {
	if r.dec == nil {
		return io.EOF
	}
	if err := r.dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("failed to decode record %d of %s: %w", r.n+1, r.path, err)
	}
	r.n++
	return nil
}

// Close releases the file. It is safe to call more than once.
func (r *reader) Close() error {
	if r.dec != nil {
		msgpack.PutDecoder(r.dec)
		r.dec = nil
	}
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// DetailReader iterates the detail records of one part file.
type DetailReader struct {
	*reader
}

// OpenDetails opens a page-detail part file.
func OpenDetails(path string) (*DetailReader, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	return &DetailReader{r}, nil
}

// Next returns the next record, or io.EOF.
func (r *DetailReader) Next() (*models.DetailRecord, error) {
	var p detailPair
	if err := r.decode(&p); err != nil {
		return nil, err
	}
	if p.Key != p.Value.ID {
		return nil, fmt.Errorf("record %d of %s: key %d does not match page id %d", r.n, r.path, p.Key, p.Value.ID)
	}
	return &p.Value, nil
}

// DepthReader iterates the depth records of one part file.
type DepthReader struct {
	*reader
}

// OpenDepths opens a page-depth part file.
func OpenDepths(path string) (*DepthReader, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	return &DepthReader{r}, nil
}

// Next returns the next record, or io.EOF.
func (r *DepthReader) Next() (*models.DepthRecord, error) {
	var p depthPair
	if err := r.decode(&p); err != nil {
		return nil, err
	}
	if p.Key != p.Value.ID {
		return nil, fmt.Errorf("record %d of %s: key %d does not match page id %d", r.n, r.path, p.Key, p.Value.ID)
	}
	return &p.Value, nil
}
