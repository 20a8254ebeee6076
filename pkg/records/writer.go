package records

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dtnitsch/wiki-page-summary/models"
)

// PartName is the file name written for a single-partition stage output.
const PartName = "part-00000"

type writer struct {
	f   *os.File
	buf *bufio.Writer
	enc *msgpack.Encoder
}

func create(path string) (*writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create part file: %w", err)
	}
	buf := bufio.NewWriter(f)
	return &writer{f: f, buf: buf, enc: msgpack.NewEncoder(buf)}, nil
}

func (w *writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("failed to flush part file: %w", err)
	}
	return w.f.Close()
}

// DetailWriter appends detail pairs to a part file.
type DetailWriter struct {
	*writer
}

// CreateDetails creates (or truncates) a page-detail part file.
func CreateDetails(path string) (*DetailWriter, error) {
	w, err := create(path)
	if err != nil {
		return nil, err
	}
	return &DetailWriter{w}, nil
}

// Write appends one record keyed by its id. Callers are responsible for
// writing in ascending id order.
func (w *DetailWriter) Write(rec *models.DetailRecord) error {
	return w.enc.Encode(&detailPair{Key: rec.ID, Value: *rec})
}

// DepthWriter appends depth pairs to a part file.
type DepthWriter struct {
	*writer
}

// CreateDepths creates (or truncates) a page-depth part file.
func CreateDepths(path string) (*DepthWriter, error) {
	w, err := create(path)
	if err != nil {
		return nil, err
	}
	return &DepthWriter{w}, nil
}

// Write appends one record keyed by its id.
func (w *DepthWriter) Write(rec *models.DepthRecord) error {
	return w.enc.Encode(&depthPair{Key: rec.ID, Value: *rec})
}

// WriteDetailPart sorts recs by id and writes them as dir/part-00000.
// Duplicate ids are rejected.
func WriteDetailPart(dir string, recs []models.DetailRecord) (string, error) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	for i := 1; i < len(recs); i++ {
		if recs[i].ID == recs[i-1].ID {
			return "", fmt.Errorf("duplicate page id %d", recs[i].ID)
		}
	}

	path := filepath.Join(dir, PartName)
	w, err := CreateDetails(path)
	if err != nil {
		return "", err
	}
	for i := range recs {
		if err := w.Write(&recs[i]); err != nil {
			_ = w.Close()
			return "", fmt.Errorf("failed to write page %d: %w", recs[i].ID, err)
		}
	}
	return path, w.Close()
}

// WriteDepthPart sorts recs by id and writes them as dir/part-00000.
// Duplicate ids are rejected.
func WriteDepthPart(dir string, recs []models.DepthRecord) (string, error) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	for i := 1; i < len(recs); i++ {
		if recs[i].ID == recs[i-1].ID {
			return "", fmt.Errorf("duplicate page id %d", recs[i].ID)
		}
	}

	path := filepath.Join(dir, PartName)
	w, err := CreateDepths(path)
	if err != nil {
		return "", err
	}
	for i := range recs {
		if err := w.Write(&recs[i]); err != nil {
			_ = w.Close()
			return "", fmt.Errorf("failed to write page %d: %w", recs[i].ID, err)
		}
	}
	return path, w.Close()
}
