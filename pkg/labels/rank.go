// Package labels ranks the anchor-text labels of a page.
package labels

import (
	"sort"

	"github.com/dtnitsch/wiki-page-summary/models"
)

// Label is one ranked label of a page.
type Label struct {
	Text     string
	OccCount int64
	DocCount int64

	// FromRedirect is set when a page redirecting here carries this title.
	FromRedirect bool
	// FromTitle is set when the label is exactly the page title.
	FromTitle bool
}

// Less orders two labels. It must define a total order over distinct texts.
type Less func(a, b Label) bool

// ByFrequency sorts by occurrence count, then document count, both
// descending, and finally by text ascending.
var ByFrequency Less = func(a, b Label) bool {
	if a.OccCount != b.OccCount {
		return a.OccCount > b.OccCount
	}
	if a.DocCount != b.DocCount {
		return a.DocCount > b.DocCount
	}
	return a.Text < b.Text
}

// Rank converts a page's label statistics into ranked labels using ByFrequency.
func Rank(stats map[string]models.LabelSummary, title string, redirectTitles []string) []Label {
	return RankBy(stats, title, redirectTitles, ByFrequency)
}

// RankBy is Rank with an explicit ordering.
func RankBy(stats map[string]models.LabelSummary, title string, redirectTitles []string, less Less) []Label {
	redirects := make(map[string]struct{}, len(redirectTitles))
	for _, t := range redirectTitles {
		redirects[t] = struct{}{}
	}

	ranked := make([]Label, 0, len(stats))
	for text, s := range stats {
		_, fromRedirect := redirects[text]
		ranked = append(ranked, Label{
			Text:         text,
			OccCount:     s.OccCount,
			DocCount:     s.DocCount,
			FromRedirect: fromRedirect,
			FromTitle:    text == title,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	return ranked
}
