package models

// Namespace is the coarse MediaWiki namespace a page lives in.
type Namespace int

const (
	NamespaceOther Namespace = iota
	NamespaceMain
	NamespaceCategory
	NamespaceTemplate
)

// MediaWiki namespace keys as they appear in DetailRecord.Namespace.
const (
	MainKey     = 0
	TemplateKey = 10
	CategoryKey = 14
)

// NamespaceOf maps a raw namespace key to a Namespace.
func NamespaceOf(key int) Namespace {
	switch key {
	case MainKey:
		return NamespaceMain
	case CategoryKey:
		return NamespaceCategory
	case TemplateKey:
		return NamespaceTemplate
	default:
		return NamespaceOther
	}
}

func (n Namespace) String() string {
	switch n {
	case NamespaceMain:
		return "main"
	case NamespaceCategory:
		return "category"
	case NamespaceTemplate:
		return "template"
	default:
		return "other"
	}
}

// PageType is the classification written to page.csv as its ordinal.
// The ordinals match the page-graph loader's enum, where 3 stands for
// disambiguation pages; that value is never produced here.
type PageType int

const (
	PageTypeArticle  PageType = 0
	PageTypeCategory PageType = 1
	PageTypeRedirect PageType = 2
	PageTypeTemplate PageType = 4
	PageTypeInvalid  PageType = 5
)

// PageTypes lists every type this tool emits.
var PageTypes = []PageType{
	PageTypeArticle,
	PageTypeCategory,
	PageTypeRedirect,
	PageTypeTemplate,
	PageTypeInvalid,
}

func (t PageType) String() string {
	switch t {
	case PageTypeArticle:
		return "article"
	case PageTypeCategory:
		return "category"
	case PageTypeRedirect:
		return "redirect"
	case PageTypeTemplate:
		return "template"
	default:
		return "invalid"
	}
}

// Ordinal is the value stored in the type column.
func (t PageType) Ordinal() int {
	return int(t)
}

// ParsePageType is the inverse of Ordinal. Unknown ordinals map to invalid.
func ParsePageType(ordinal int) PageType {
	for _, t := range PageTypes {
		if int(t) == ordinal {
			return t
		}
	}
	return PageTypeInvalid
}
