// Package sink writes rows to one append-only file per output channel.
package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/dtnitsch/wiki-page-summary/pkg/projection"
)

const bufferSize = 256 * 1024

type file struct {
	name  string
	f     *os.File
	w     *bufio.Writer
	rows  int64
	bytes int64
}

// Sink holds the open output files of a run.
type Sink struct {
	dir    string
	files  map[projection.Channel]*file
	order  []projection.Channel
	closed bool
}

// FileStats describes what was written to one file.
type FileStats struct {
	Channel   projection.Channel
	File      string
	Rows      int64
	SizeBytes int64
}

// Open creates one file per channel in dir. If any file cannot be created,
// the ones already opened are closed before the error is returned.
func Open(dir string, channels []projection.Channel) (*Sink, error) {
	s := &Sink{dir: dir, files: make(map[projection.Channel]*file, len(channels))}
	for _, ch := range channels {
		if _, ok := s.files[ch]; ok {
			continue
		}
		name := ch.FileName()
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("error creating %s: %w", name, err)
		}
		s.files[ch] = &file{name: name, f: f, w: bufio.NewWriterSize(f, bufferSize)}
		s.order = append(s.order, ch)
	}
	return s, nil
}

// Write appends one encoded row to the channel's file.
func (s *Sink) Write(ch projection.Channel, row []byte) error {
	if s.closed {
		return fmt.Errorf("write to %s after close", ch.FileName())
	}
	f, ok := s.files[ch]
	if !ok {
		return fmt.Errorf("channel %s is not open", ch.FileName())
	}
	n, err := f.w.Write(row)
	f.bytes += int64(n)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", f.name, err)
	}
	f.rows++
	return nil
}

// Stats lists per-file counts in the order the files were opened.
func (s *Sink) Stats() []FileStats {
	out := make([]FileStats, 0, len(s.order))
	for _, ch := range s.order {
		f := s.files[ch]
		out = append(out, FileStats{Channel: ch, File: f.name, Rows: f.rows, SizeBytes: f.bytes})
	}
	return out
}

// Close flushes and closes every file, even when some of them fail, and
// returns all failures together. Closing twice is a no-op.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var result *multierror.Error
	for _, ch := range s.order {
		f := s.files[ch]
		if err := f.w.Flush(); err != nil {
			result = multierror.Append(result, fmt.Errorf("error flushing %s: %w", f.name, err))
		}
		if err := f.f.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("error closing %s: %w", f.name, err))
		}
	}
	return result.ErrorOrNil()
}
