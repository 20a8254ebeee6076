package projection

import (
	"github.com/dtnitsch/wiki-page-summary/models"
	"github.com/dtnitsch/wiki-page-summary/pkg/labels"
	"github.com/dtnitsch/wiki-page-summary/pkg/recordcsv"
)

// Row is one output line. Every row starts with the id of the page it
// describes.
type Row interface {
	PageID() int
	Encode(w *recordcsv.Writer) ([]byte, error)
}

// PageRow is the single page.csv row every page gets.
type PageRow struct {
	ID    int
	Type  models.PageType
	Title string
	Depth int
}

func (r PageRow) PageID() int { return r.ID }

func (r PageRow) Encode(w *recordcsv.Writer) ([]byte, error) {
	w.Reset()
	w.WriteInt(r.ID)
	w.WriteInt(r.Type.Ordinal())
	w.WriteString(r.Title)
	w.WriteInt(r.Depth)
	return w.Bytes()
}

// IDListRow relates a page to an ordered list of page ids (parents,
// children, redirect sources) or integers (sentence offsets).
type IDListRow struct {
	ID  int
	IDs []int
}

func (r IDListRow) PageID() int { return r.ID }

func (r IDListRow) Encode(w *recordcsv.Writer) ([]byte, error) {
	w.Reset()
	w.WriteInt(r.ID)
	w.StartVector()
	for _, id := range r.IDs {
		w.WriteInt(id)
	}
	w.EndVector()
	return w.Bytes()
}

// LinkLocation is a linked page and the sentences the link appears in.
type LinkLocation struct {
	LinkID          int
	SentenceIndexes []int
}

// LinkLocationRow lists the inbound or outbound links of a page.
type LinkLocationRow struct {
	ID    int
	Links []LinkLocation
}

func (r LinkLocationRow) PageID() int { return r.ID }

func (r LinkLocationRow) Encode(w *recordcsv.Writer) ([]byte, error) {
	w.Reset()
	w.WriteInt(r.ID)
	w.StartVector()
	for _, l := range r.Links {
		w.StartRecord()
		w.WriteInt(l.LinkID)
		w.StartVector()
		for _, s := range l.SentenceIndexes {
			w.WriteInt(s)
		}
		w.EndVector()
		w.EndRecord()
	}
	w.EndVector()
	return w.Bytes()
}

// LabelListRow holds the ranked labels of an article.
type LabelListRow struct {
	ID     int
	Labels []labels.Label
}

func (r LabelListRow) PageID() int { return r.ID }

func (r LabelListRow) Encode(w *recordcsv.Writer) ([]byte, error) {
	w.Reset()
	w.WriteInt(r.ID)
	w.StartVector()
	for _, l := range r.Labels {
		w.StartRecord()
		w.WriteString(l.Text)
		w.WriteLong(l.OccCount)
		w.WriteLong(l.DocCount)
		w.WriteBool(l.FromRedirect)
		w.WriteBool(l.FromTitle)
		w.EndRecord()
	}
	w.EndVector()
	return w.Bytes()
}

// RedirectTargetRow points a redirect at its target. It is written as a bare
// "source,target" line rather than a framed record.
type RedirectTargetRow struct {
	ID     int
	Target int
}

func (r RedirectTargetRow) PageID() int { return r.ID }

func (r RedirectTargetRow) Encode(_ *recordcsv.Writer) ([]byte, error) {
	return recordcsv.Line(r.ID, r.Target), nil
}
