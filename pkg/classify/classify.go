// Package classify maps a page's namespace and redirect status to its type.
package classify

import "github.com/dtnitsch/wiki-page-summary/models"

// Shape names the (namespace, redirect) combination of a page.
type Shape int

const (
	ShapeArticle Shape = iota
	ShapeRedirect
	ShapeCategory
	// ShapeCategoryRedirect has no defined handling: the page is typed
	// invalid and only its page row is written.
	ShapeCategoryRedirect
	ShapeTemplate
	ShapeOther
)

func (s Shape) String() string {
	switch s {
	case ShapeArticle:
		return "article"
	case ShapeRedirect:
		return "redirect"
	case ShapeCategory:
		return "category"
	case ShapeCategoryRedirect:
		return "category_redirect"
	case ShapeTemplate:
		return "template"
	default:
		return "other"
	}
}

// Unsupported reports whether the shape is recognized but not projected.
func (s Shape) Unsupported() bool {
	return s == ShapeCategoryRedirect
}

// ShapeOf returns the shape of a page.
func ShapeOf(ns models.Namespace, hasRedirectTarget bool) Shape {
	switch ns {
	case models.NamespaceMain:
		if hasRedirectTarget {
			return ShapeRedirect
		}
		return ShapeArticle
	case models.NamespaceCategory:
		if hasRedirectTarget {
			return ShapeCategoryRedirect
		}
		return ShapeCategory
	case models.NamespaceTemplate:
		return ShapeTemplate
	default:
		return ShapeOther
	}
}

// Type returns the page type written for a shape.
func (s Shape) Type() models.PageType {
	switch s {
	case ShapeArticle:
		return models.PageTypeArticle
	case ShapeRedirect:
		return models.PageTypeRedirect
	case ShapeCategory:
		return models.PageTypeCategory
	case ShapeTemplate:
		return models.PageTypeTemplate
	default:
		return models.PageTypeInvalid
	}
}

// Classify is the page type of a page with the given namespace and redirect
// status. Disambiguation pages are not distinguished from articles.
func Classify(ns models.Namespace, hasRedirectTarget bool) models.PageType {
	return ShapeOf(ns, hasRedirectTarget).Type()
}
