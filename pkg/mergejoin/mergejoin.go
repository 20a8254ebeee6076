// Package mergejoin joins the sorted page-detail stream with the sparse,
// sorted page-depth stream in a single forward pass.
package mergejoin

import (
	"errors"
	"fmt"
	"io"

	"github.com/dtnitsch/wiki-page-summary/models"
)

// ErrSequenceOrder is returned when either stream is out of ascending order
// or repeats a key. There is no way to resynchronize a merge after that.
var ErrSequenceOrder = errors.New("sequence order violation")

// DetailSource yields detail records in ascending id order and io.EOF at
// the end.
type DetailSource interface {
	Next() (*models.DetailRecord, error)
}

// DepthSource yields depth records in ascending id order and io.EOF at the
// end.
type DepthSource interface {
	Next() (*models.DepthRecord, error)
}

// Joined is a detail record paired with its resolved depth, or
// models.UnknownDepth.
type Joined struct {
	Detail *models.DetailRecord
	Depth  int
}

// Stats counts what a pass consumed.
type Stats struct {
	Details      int64
	DepthMatched int64
	// DepthSkipped counts depth records with no detail record of the same id.
	DepthSkipped int64
}

// depthCursor keeps exactly one lookahead depth record.
type depthCursor struct {
	src     DepthSource
	head    *models.DepthRecord
	matched bool
	done    bool
	started bool
	last    int
}

func (c *depthCursor) advance() error {
	rec, err := c.src.Next()
	if errors.Is(err, io.EOF) {
		c.head = nil
		c.done = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read depth record: %w", err)
	}
	if c.started && rec.ID <= c.last {
		return fmt.Errorf("%w: depth id %d follows %d", ErrSequenceOrder, rec.ID, c.last)
	}
	c.started = true
	c.last = rec.ID
	c.head = rec
	c.matched = false
	return nil
}

// seek moves the cursor to the first record with id >= key, returning how
// many records it discarded on the way.
func (c *depthCursor) seek(key int) (int64, error) {
	var skipped int64
	for !c.done && (c.head == nil || c.head.ID < key) {
		if c.head != nil && !c.matched {
			skipped++
		}
		if err := c.advance(); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// Process consumes details to exhaustion, calling emit once per detail record
// in input order. An error from emit stops the pass and is returned as is.
func Process(details DetailSource, depths DepthSource, emit func(Joined) error) (Stats, error) {
	var (
		stats   Stats
		cursor  = &depthCursor{src: depths}
		started bool
		last    int
	)

	for {
		detail, err := details.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read detail record: %w", err)
		}
		if started && detail.ID <= last {
			return stats, fmt.Errorf("%w: detail id %d follows %d", ErrSequenceOrder, detail.ID, last)
		}
		started = true
		last = detail.ID

		skipped, err := cursor.seek(detail.ID)
		stats.DepthSkipped += skipped
		if err != nil {
			return stats, err
		}

		depth := models.UnknownDepth
		if cursor.head != nil && cursor.head.ID == detail.ID {
			cursor.matched = true
			stats.DepthMatched++
			if cursor.head.Depth != nil {
				depth = *cursor.head.Depth
			}
		}

		stats.Details++
		if err := emit(Joined{Detail: detail, Depth: depth}); err != nil {
			return stats, err
		}
	}

	// Whatever is left in the depth stream has no detail record.
	for !cursor.done {
		if cursor.head != nil && !cursor.matched {
			stats.DepthSkipped++
		}
		if err := cursor.advance(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
