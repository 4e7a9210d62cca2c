package bookmark

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher reports whether a resource matches a search query.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	folder cases.Caser
	needle string
}

// NewMatcher returns a Matcher for query. The query is trimmed; an empty
// query matches everything.
func NewMatcher(query string) *Matcher {
	folder := cases.Fold()
	return &Matcher{
		folder: folder,
		needle: folder.String(strings.TrimSpace(query)),
	}
}

// Empty reports whether the trimmed query is empty.
func (m *Matcher) Empty() bool { return m.needle == "" }

// Match reports whether the query is a case-insensitive substring of the
// resource's title, url, or category path.
func (m *Matcher) Match(r IndexedResource) bool {
	if m.needle == "" {
		return true
	}
	return m.contains(r.Title) || m.contains(r.URL) || m.contains(r.CategoryPath())
}

func (m *Matcher) contains(s string) bool {
	return strings.Contains(m.folder.String(s), m.needle)
}

// Search returns the resources in index matching query, in index order.
func Search(index []IndexedResource, query string) []IndexedResource {
	m := NewMatcher(query)
	out := make([]IndexedResource, 0)
	for _, r := range index {
		if m.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
