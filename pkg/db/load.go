package db

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dtnitsch/wiki-page-summary/pkg/projection"
	"github.com/dtnitsch/wiki-page-summary/pkg/recordcsv"
)

// Edge relations stored in page_edges.
const (
	RelationArticleParent  = "article_parent"
	RelationCategoryParent = "category_parent"
	RelationChildArticle   = "child_article"
	RelationChildCategory  = "child_category"
	RelationRedirectSource = "redirect_source"
)

// Link directions stored in page_links.
const (
	LinkIn  = "in"
	LinkOut = "out"
)

var edgeRelations = map[projection.Channel]string{
	projection.ChannelArticleParents:          RelationArticleParent,
	projection.ChannelCategoryParents:         RelationCategoryParent,
	projection.ChannelChildArticles:           RelationChildArticle,
	projection.ChannelChildCategories:         RelationChildCategory,
	projection.ChannelRedirectSourcesByTarget: RelationRedirectSource,
}

// LoadStats counts the rows read from each file.
type LoadStats struct {
	LoadID int64
	Rows   map[string]int64
}

// loader inserts the rows of one load inside a single transaction.
type loader struct {
	tx    *sql.Tx
	stmts map[string]*sql.Stmt
}

func (l *loader) exec(query string, args ...any) error {
	stmt, ok := l.stmts[query]
	if !ok {
		var err error
		stmt, err = l.tx.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		l.stmts[query] = stmt
	}
	_, err := stmt.Exec(args...)
	return err
}

func (l *loader) close() {
	for _, stmt := range l.stmts {
		_ = stmt.Close()
	}
}

// Load replaces the page graph with the CSV projections in dir. Everything
// happens in one transaction, so a malformed file leaves the previous graph
// untouched.
func (db *DB) Load(dir, runID string) (*LoadStats, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin load: %w", err)
	}
	l := &loader{tx: tx, stmts: map[string]*sql.Stmt{}}
	stats, err := l.load(dir, runID)
	l.close()
	if err != nil {
		_ = tx.Rollback() // the load error is the one that matters
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit load: %w", err)
	}
	return stats, nil
}

func (l *loader) load(dir, runID string) (*LoadStats, error) {
	for _, table := range graphTables {
		if _, err := l.tx.Exec("DELETE FROM " + table); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stats := &LoadStats{Rows: map[string]int64{}}
	for _, ch := range projection.Channels() {
		n, err := l.loadFile(filepath.Join(dir, ch.FileName()), l.rowFunc(ch))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ch.FileName(), err)
		}
		stats.Rows[ch.FileName()] = n
	}

	res, err := l.tx.Exec(`
		INSERT INTO loads (run_id, output_dir, page_count)
		VALUES (?, ?, ?)
	`, runID, dir, stats.Rows[projection.ChannelPage.FileName()])
	if err != nil {
		return nil, fmt.Errorf("failed to record load: %w", err)
	}
	stats.LoadID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get load ID: %w", err)
	}
	return stats, nil
}

func (l *loader) loadFile(path string, insert func(*recordcsv.Fields) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	r := recordcsv.NewReader(bufio.NewReaderSize(f, 256*1024))
	var n int64
	for {
		fields, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := insert(fields); err != nil {
			return n, err
		}
		n++
	}
}

func (l *loader) rowFunc(ch projection.Channel) func(*recordcsv.Fields) error {
	switch ch {
	case projection.ChannelPage:
		return l.insertPage
	case projection.ChannelPageLinkIn:
		return func(f *recordcsv.Fields) error { return l.insertLinks(LinkIn, f) }
	case projection.ChannelPageLinkOut:
		return func(f *recordcsv.Fields) error { return l.insertLinks(LinkOut, f) }
	case projection.ChannelRedirectTargetsBySource:
		return l.insertRedirectTarget
	case projection.ChannelSentenceSplits:
		return l.insertSentenceSplits
	case projection.ChannelPageLabel:
		return l.insertLabels
	default:
		relation := edgeRelations[ch]
		return func(f *recordcsv.Fields) error { return l.insertEdges(relation, f) }
	}
}

func (l *loader) insertPage(f *recordcsv.Fields) error {
	id, typ, title, depth := f.Int(), f.Int(), f.String(), f.Int()
	if err := f.Err(); err != nil {
		return err
	}
	if err := l.exec(`INSERT INTO pages (page_id, type, title, depth) VALUES (?, ?, ?, ?)`, id, typ, title, depth); err != nil {
		return fmt.Errorf("failed to insert page %d: %w", id, err)
	}
	return nil
}

func readIDs(f *recordcsv.Fields) []int {
	var ids []int
	f.StartVector()
	for f.More() {
		ids = append(ids, f.Int())
	}
	f.EndVector()
	return ids
}

func (l *loader) insertEdges(relation string, f *recordcsv.Fields) error {
	id := f.Int()
	others := readIDs(f)
	if err := f.Err(); err != nil {
		return err
	}
	for pos, other := range others {
		if err := l.exec(`
			INSERT INTO page_edges (relation, page_id, position, other_id)
			VALUES (?, ?, ?, ?)
		`, relation, id, pos, other); err != nil {
			return fmt.Errorf("failed to insert %s edge of page %d: %w", relation, id, err)
		}
	}
	return nil
}

func (l *loader) insertSentenceSplits(f *recordcsv.Fields) error {
	id := f.Int()
	offsets := readIDs(f)
	if err := f.Err(); err != nil {
		return err
	}
	for pos, offset := range offsets {
		if err := l.exec(`INSERT INTO sentence_splits (page_id, position, char_offset) VALUES (?, ?, ?)`, id, pos, offset); err != nil {
			return fmt.Errorf("failed to insert sentence split of page %d: %w", id, err)
		}
	}
	return nil
}

func (l *loader) insertLinks(direction string, f *recordcsv.Fields) error {
	id := f.Int()
	var links []Link
	f.StartVector()
	for f.More() {
		f.StartRecord()
		link := Link{PageID: f.Int(), SentenceIndexes: readIDs(f)}
		f.EndRecord()
		links = append(links, link)
	}
	f.EndVector()
	if err := f.Err(); err != nil {
		return err
	}

	for pos, link := range links {
		indexes := link.SentenceIndexes
		if indexes == nil {
			indexes = []int{}
		}
		encoded, err := json.Marshal(indexes)
		if err != nil {
			return fmt.Errorf("failed to marshal sentence indexes: %w", err)
		}
		if err := l.exec(`
			INSERT INTO page_links (direction, page_id, position, linked_id, sentence_indexes)
			VALUES (?, ?, ?, ?, ?)
		`, direction, id, pos, link.PageID, string(encoded)); err != nil {
			return fmt.Errorf("failed to insert link of page %d: %w", id, err)
		}
	}
	return nil
}

func (l *loader) insertRedirectTarget(f *recordcsv.Fields) error {
	id, target := f.Int(), f.Int()
	if err := f.Err(); err != nil {
		return err
	}
	if err := l.exec(`INSERT INTO redirect_targets (page_id, target_id) VALUES (?, ?)`, id, target); err != nil {
		return fmt.Errorf("failed to insert redirect target of page %d: %w", id, err)
	}
	return nil
}

func (l *loader) insertLabels(f *recordcsv.Fields) error {
	id := f.Int()
	type row struct {
		text           string
		occ, doc       int64
		redirect, name bool
	}
	var rows []row
	f.StartVector()
	for f.More() {
		f.StartRecord()
		rows = append(rows, row{text: f.String(), occ: f.Long(), doc: f.Long(), redirect: f.Bool(), name: f.Bool()})
		f.EndRecord()
	}
	f.EndVector()
	if err := f.Err(); err != nil {
		return err
	}

	for rank, r := range rows {
		if err := l.exec(`
			INSERT INTO page_labels (page_id, rank, label, occ_count, doc_count, from_redirect, from_title)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, rank, r.text, r.occ, r.doc, r.redirect, r.name); err != nil {
			return fmt.Errorf("failed to insert label of page %d: %w", id, err)
		}
	}
	return nil
}
