package models

// PageRef points at another page by id, carrying its title for convenience.
type PageRef struct {
	ID    int    `msgpack:"id" yaml:"id"`
	Title string `msgpack:"title" yaml:"title"`
}

// LinkSummary is one link between two pages and the sentences it occurs in.
// For inbound links ID is the source page, for outbound links the target.
type LinkSummary struct {
	ID              int   `msgpack:"id" yaml:"id"`
	SentenceIndexes []int `msgpack:"sentenceIndexes" yaml:"sentence_indexes,omitempty"`
}

// LabelSummary holds link-anchor statistics for one label of a page.
type LabelSummary struct {
	DocCount int64 `msgpack:"docCount" yaml:"doc_count"`
	OccCount int64 `msgpack:"occCount" yaml:"occ_count"`
}

// DetailRecord is the authoritative description of a single page, as produced
// by the page sorting stage.
type DetailRecord struct {
	ID        int    `msgpack:"id" yaml:"id"`
	Namespace int    `msgpack:"namespace" yaml:"namespace"` // MediaWiki namespace key
	Title     string `msgpack:"title" yaml:"title"`

	// RedirectsTo is set only when the page is a redirect.
	RedirectsTo *PageRef `msgpack:"redirectsTo" yaml:"redirects_to,omitempty"`

	ParentCategories []PageRef `msgpack:"parentCategories" yaml:"parent_categories,omitempty"`
	ChildArticles    []PageRef `msgpack:"childArticles" yaml:"child_articles,omitempty"`
	ChildCategories  []PageRef `msgpack:"childCategories" yaml:"child_categories,omitempty"`
	Redirects        []PageRef `msgpack:"redirects" yaml:"redirects,omitempty"`

	LinksIn  []LinkSummary `msgpack:"linksIn" yaml:"links_in,omitempty"`
	LinksOut []LinkSummary `msgpack:"linksOut" yaml:"links_out,omitempty"`

	SentenceSplits []int                   `msgpack:"sentenceSplits" yaml:"sentence_splits,omitempty"`
	Labels         map[string]LabelSummary `msgpack:"labels" yaml:"labels,omitempty"`
}

// IsRedirect reports whether the page redirects to another page.
func (d *DetailRecord) IsRedirect() bool {
	return d.RedirectsTo != nil
}

// RedirectTitles returns the titles of every page that redirects here.
func (d *DetailRecord) RedirectTitles() []string {
	titles := make([]string, 0, len(d.Redirects))
	for _, r := range d.Redirects {
		titles = append(titles, r.Title)
	}
	return titles
}

// DepthRecord is the sparse annotation giving a page's distance from the root
// category. Depth may be nil even when the record exists.
type DepthRecord struct {
	ID    int  `msgpack:"id" yaml:"id"`
	Depth *int `msgpack:"depth" yaml:"depth"`
}

// UnknownDepth is written for pages without a resolved depth.
const UnknownDepth = -1
