package bookmark

import "strings"

// PathSeparator joins ancestor titles for display and search.
const PathSeparator = " > "

// IndexedResource is a link lifted out of the hierarchy together with the
// titles of the folders above it.
type IndexedResource struct {
	Title        string   `json:"title" yaml:"title"`
	URL          string   `json:"url" yaml:"url"`
	Icon         string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	AddedAt      *int64   `json:"addDate,omitempty" yaml:"add_date,omitempty"`
	AncestorPath []string `json:"ancestor_path" yaml:"ancestor_path"`
}

// CategoryPath returns the ancestor titles joined with PathSeparator.
func (r IndexedResource) CategoryPath() string {
	return strings.Join(r.AncestorPath, PathSeparator)
}

// Flatten walks nodes depth-first and returns one IndexedResource per link,
// in pre-order with sibling order preserved.
func Flatten(nodes []*Node) []IndexedResource {
	out := make([]IndexedResource, 0, CountLinks(nodes))
	return flatten(out, nodes, nil)
}

func flatten(out []IndexedResource, nodes []*Node, path []string) []IndexedResource {
	for _, n := range nodes {
		switch n.Kind {
		case KindLink:
			r := IndexedResource{
				Title:        n.Title,
				URL:          n.URL,
				Icon:         n.Icon,
				AncestorPath: append([]string{}, path...),
			}
			if n.AddedAt != nil {
				r.AddedAt = int64Ptr(*n.AddedAt)
			}
			out = append(out, r)
		case KindFolder:
			out = flatten(out, n.Children, append(path[:len(path):len(path)], n.Title))
		}
	}
	return out
}
