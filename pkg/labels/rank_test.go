package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/wiki-page-summary/models"
)

func texts(ls []Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Text
	}
	return out
}

func TestRank_Order(t *testing.T) {
	tests := []struct {
		name  string
		stats map[string]models.LabelSummary
		want  []string
	}{
		{
			name: "occurrence then text tie-break",
			stats: map[string]models.LabelSummary{
				"A": {OccCount: 5, DocCount: 3},
				"B": {OccCount: 5, DocCount: 3},
				"C": {OccCount: 7, DocCount: 1},
			},
			want: []string{"C", "A", "B"},
		},
		{
			name: "document count breaks occurrence ties",
			stats: map[string]models.LabelSummary{
				"x": {OccCount: 2, DocCount: 1},
				"y": {OccCount: 2, DocCount: 2},
				"z": {OccCount: 1, DocCount: 9},
			},
			want: []string{"y", "x", "z"},
		},
		{
			name:  "no labels",
			stats: map[string]models.LabelSummary{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.stats, "", nil)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestRank_Deterministic(t *testing.T) {
	stats := map[string]models.LabelSummary{}
	for _, s := range []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p"} {
		stats[s] = models.LabelSummary{OccCount: 1, DocCount: 1}
	}
	first := texts(Rank(stats, "", nil))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, texts(Rank(stats, "", nil)))
	}
	assert.Equal(t, []string{"e", "i", "o", "p", "q", "r", "t", "u", "w", "y"}, first)
}

func TestRank_Flags(t *testing.T) {
	stats := map[string]models.LabelSummary{
		"Canine": {OccCount: 4, DocCount: 2},
		"Dog":    {OccCount: 9, DocCount: 8},
		"dog":    {OccCount: 1, DocCount: 1},
	}

	got := Rank(stats, "Dog", []string{"Canine"})
	require.Len(t, got, 3)

	byText := map[string]Label{}
	for _, l := range got {
		byText[l.Text] = l
	}

	assert.True(t, byText["Canine"].FromRedirect)
	assert.False(t, byText["Canine"].FromTitle)
	assert.True(t, byText["Dog"].FromTitle)
	assert.False(t, byText["Dog"].FromRedirect)
	assert.False(t, byText["dog"].FromTitle, "title match is exact")
	assert.Equal(t, []string{"Dog", "Canine", "dog"}, texts(got))
}

func TestRankBy_CustomOrder(t *testing.T) {
	stats := map[string]models.LabelSummary{
		"b": {OccCount: 1},
		"a": {OccCount: 2},
	}
	alpha := func(a, b Label) bool { return a.Text < b.Text }
	assert.Equal(t, []string{"a", "b"}, texts(RankBy(stats, "", nil, alpha)))
}
