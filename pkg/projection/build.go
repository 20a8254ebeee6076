// Package projection turns a classified, depth-joined page into the rows of
// the page-graph relations.
package projection

import (
	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/classify"
	"github.com/dtnitsch/wiki-page-summary/pkg/labels"
)

// Page is a detail record with its resolved shape and depth.
type Page struct {
	Detail *models.DetailRecord
	Shape  classify.Shape
	Depth  int
}

// Classified resolves the shape of a detail record.
func Classified(d *models.DetailRecord, depth int) Page {
	return Page{
		Detail: d,
		Shape:  classify.ShapeOf(models.NamespaceOf(d.Namespace), d.IsRedirect()),
		Depth:  depth,
	}
}

// Type is the page type written to page.csv.
func (p Page) Type() models.PageType {
	return p.Shape.Type()
}

// Output is a row bound to its channel.
type Output struct {
	Channel Channel
	Row     Row
}

// RowSet is everything written for one page, page row first.
type RowSet struct {
	Rows []Output
	// Unsupported is set when the page's shape is recognized but has no
	// projection beyond its page row.
	Unsupported bool
}

func (s *RowSet) add(ch Channel, r Row) {
	s.Rows = append(s.Rows, Output{Channel: ch, Row: r})
}

// Build produces the rows for one page.
func Build(p Page) RowSet {
	d := p.Detail
	var set RowSet

	set.add(ChannelPage, PageRow{ID: d.ID, Type: p.Type(), Title: d.Title, Depth: p.Depth})

	switch p.Shape {
	case classify.ShapeArticle:
		buildArticle(&set, d)
	case classify.ShapeRedirect:
		set.add(ChannelRedirectTargetsBySource, RedirectTargetRow{ID: d.ID, Target: d.RedirectsTo.ID})
	case classify.ShapeCategory:
		set.add(ChannelCategoryParents, IDListRow{ID: d.ID, IDs: refIDs(d.ParentCategories)})
		set.add(ChannelChildArticles, IDListRow{ID: d.ID, IDs: refIDs(d.ChildArticles)})
		set.add(ChannelChildCategories, IDListRow{ID: d.ID, IDs: refIDs(d.ChildCategories)})
	case classify.ShapeCategoryRedirect:
		set.Unsupported = true
	}
	return set
}

func buildArticle(set *RowSet, d *models.DetailRecord) {
	set.add(ChannelArticleParents, IDListRow{ID: d.ID, IDs: refIDs(d.ParentCategories)})
	set.add(ChannelPageLinkIn, LinkLocationRow{ID: d.ID, Links: linkLocations(d.LinksIn)})
	set.add(ChannelPageLinkOut, LinkLocationRow{ID: d.ID, Links: linkLocations(d.LinksOut)})
	set.add(ChannelRedirectSourcesByTarget, IDListRow{ID: d.ID, IDs: refIDs(d.Redirects)})
	set.add(ChannelSentenceSplits, IDListRow{ID: d.ID, IDs: append([]int(nil), d.SentenceSplits...)})
	set.add(ChannelPageLabel, LabelListRow{
		ID:     d.ID,
		Labels: labels.Rank(d.Labels, d.Title, d.RedirectTitles()),
	})
}

func refIDs(refs []models.PageRef) []int {
	ids := make([]int, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

func linkLocations(links []models.LinkSummary) []LinkLocation {
	out := make([]LinkLocation, len(links))
	for i, l := range links {
		out[i] = LinkLocation{
			LinkID:          l.ID,
			SentenceIndexes: append([]int(nil), l.SentenceIndexes...),
		}
	}
	return out
}
