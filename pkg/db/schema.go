package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Pages: one row per page.csv line. type is the page type ordinal.
CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY,
    type INTEGER NOT NULL,
    title TEXT NOT NULL,
    depth INTEGER NOT NULL DEFAULT -1
);

CREATE INDEX IF NOT EXISTS idx_pages_type ON pages(type);
CREATE INDEX IF NOT EXISTS idx_pages_title ON pages(title);

-- Page edges: parent/child and redirect id lists, kept in file order.
-- other_id is not a foreign key, edges may point outside the loaded pages.
CREATE TABLE IF NOT EXISTS page_edges (
    relation TEXT NOT NULL,      -- article_parent, category_parent, child_article, child_category, redirect_source
    page_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    other_id INTEGER NOT NULL,
    PRIMARY KEY (relation, page_id, position)
);

CREATE INDEX IF NOT EXISTS idx_edges_other ON page_edges(relation, other_id);

-- Page links: inbound and outbound links with their sentence indexes as a JSON array.
CREATE TABLE IF NOT EXISTS page_links (
    direction TEXT NOT NULL,     -- in, out
    page_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    linked_id INTEGER NOT NULL,
    sentence_indexes TEXT NOT NULL,
    PRIMARY KEY (direction, page_id, position)
);

CREATE TABLE IF NOT EXISTS sentence_splits (
    page_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    char_offset INTEGER NOT NULL,
    PRIMARY KEY (page_id, position)
);

CREATE TABLE IF NOT EXISTS redirect_targets (
    page_id INTEGER PRIMARY KEY,
    target_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_redirect_targets_target ON redirect_targets(target_id);

-- Page labels: ranked anchor texts, rank 0 is the most frequent.
CREATE TABLE IF NOT EXISTS page_labels (
    page_id INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    label TEXT NOT NULL,
    occ_count INTEGER NOT NULL,
    doc_count INTEGER NOT NULL,
    from_redirect BOOLEAN NOT NULL DEFAULT 0,
    from_title BOOLEAN NOT NULL DEFAULT 0,
    PRIMARY KEY (page_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_page_labels_label ON page_labels(label);

-- Loads: one row per bulk load of a finished summary directory.
CREATE TABLE IF NOT EXISTS loads (
    load_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    output_dir TEXT NOT NULL,
    loaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    page_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_loads_loaded ON loads(loaded_at DESC);
`

// graphTables are cleared before every load; loads keeps its history.
var graphTables = []string{
	"pages",
	"page_edges",
	"page_links",
	"sentence_splits",
	"redirect_targets",
	"page_labels",
}
