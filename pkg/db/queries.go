package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/labels"
)

// ErrPageNotFound is returned when a page id is not in the loaded graph.
var ErrPageNotFound = errors.New("page not found")

// Page is one loaded page.csv row.
type Page struct {
	ID    int
	Type  models.PageType
	Title string
	Depth int
}

// Link is an inbound or outbound link and the sentences it occurs in.
type Link struct {
	PageID          int
	SentenceIndexes []int
}

// Load is one recorded bulk load.
type Load struct {
	LoadID    int64
	RunID     string
	OutputDir string
	LoadedAt  time.Time
	PageCount int64
}

// GetPage retrieves a page by id.
func (db *DB) GetPage(id int) (*Page, error) {
	var p Page
	var typ int
	err := db.QueryRow(`
		SELECT page_id, type, title, depth
		FROM pages
		WHERE page_id = ?
	`, id).Scan(&p.ID, &typ, &p.Title, &p.Depth)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %d: %w", id, ErrPageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	p.Type = models.ParsePageType(typ)
	return &p, nil
}

// Edges returns the ids related to a page in file order.
func (db *DB) Edges(id int, relation string) ([]int, error) {
	return db.intList(`
		SELECT other_id FROM page_edges
		WHERE relation = ? AND page_id = ?
		ORDER BY position
	`, relation, id)
}

// SentenceSplits returns the sentence offsets of a page.
func (db *DB) SentenceSplits(id int) ([]int, error) {
	return db.intList(`
		SELECT char_offset FROM sentence_splits
		WHERE page_id = ?
		ORDER BY position
	`, id)
}

func (db *DB) intList(query string, args ...any) ([]int, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

// Links returns a page's links in one direction.
func (db *DB) Links(id int, direction string) ([]Link, error) {
	rows, err := db.Query(`
		SELECT linked_id, sentence_indexes
		FROM page_links
		WHERE direction = ? AND page_id = ?
		ORDER BY position
	`, direction, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var indexes string
		if err := rows.Scan(&l.PageID, &indexes); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		if err := json.Unmarshal([]byte(indexes), &l.SentenceIndexes); err != nil {
			return nil, fmt.Errorf("failed to parse sentence indexes of link %d: %w", l.PageID, err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// RedirectTarget returns the page a redirect points at.
func (db *DB) RedirectTarget(id int) (int, bool, error) {
	var target int
	err := db.QueryRow("SELECT target_id FROM redirect_targets WHERE page_id = ?", id).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get redirect target: %w", err)
	}
	return target, true, nil
}

// Labels returns a page's labels, most frequent first. limit <= 0 returns all.
func (db *DB) Labels(id, limit int) ([]labels.Label, error) {
	query := `
		SELECT label, occ_count, doc_count, from_redirect, from_title
		FROM page_labels
		WHERE page_id = ?
		ORDER BY rank
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	defer rows.Close()

	var out []labels.Label
	for rows.Next() {
		var l labels.Label
		if err := rows.Scan(&l.Text, &l.OccCount, &l.DocCount, &l.FromRedirect, &l.FromTitle); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CountPagesByType counts loaded pages per page type.
func (db *DB) CountPagesByType() (map[models.PageType]int64, error) {
	rows, err := db.Query("SELECT type, COUNT(*) FROM pages GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	defer rows.Close()

	counts := map[models.PageType]int64{}
	for rows.Next() {
		var typ int
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[models.ParsePageType(typ)] = n
	}
	return counts, rows.Err()
}

// ListLoads retrieves loads ordered by most recent first
func (db *DB) ListLoads(limit int) ([]Load, error) {
	query := `
		SELECT load_id, run_id, output_dir, loaded_at, page_count
		FROM loads
		ORDER BY load_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}
	defer rows.Close()

	var loads []Load
	for rows.Next() {
		var l Load
		if err := rows.Scan(&l.LoadID, &l.RunID, &l.OutputDir, &l.LoadedAt, &l.PageCount); err != nil {
			return nil, fmt.Errorf("failed to scan load: %w", err)
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
