package bookmark

// CategoryStats counts the contents of one top-level folder.
type CategoryStats struct {
	Title   string `json:"title" yaml:"title"`
	Folders int    `json:"folders" yaml:"folders"`
	Links   int    `json:"links" yaml:"links"`
}

// Stats summarises a hierarchy.
type Stats struct {
	Folders    int             `json:"folders" yaml:"folders"`
	Links      int             `json:"links" yaml:"links"`
	MaxDepth   int             `json:"max_depth" yaml:"max_depth"`
	Categories []CategoryStats `json:"categories" yaml:"categories"`
}

// Analyze counts folders and links in nodes. MaxDepth is the deepest folder
// nesting: a top-level folder has depth 1.
func Analyze(nodes []*Node) Stats {
	s := Stats{Categories: []CategoryStats{}}
	s.Folders, s.Links, s.MaxDepth = count(nodes, 0)
	for _, n := range nodes {
		if !n.IsFolder() {
			continue
		}
		folders, links, _ := count(n.Children, 0)
		s.Categories = append(s.Categories, CategoryStats{Title: n.Title, Folders: folders, Links: links})
	}
	return s
}

func count(nodes []*Node, depth int) (folders, links, maxDepth int) {
	maxDepth = depth
	for _, n := range nodes {
		switch n.Kind {
		case KindLink:
			links++
		case KindFolder:
			f, l, d := count(n.Children, depth+1)
			folders += f + 1
			links += l
			maxDepth = max(maxDepth, d)
		}
	}
	return folders, links, maxDepth
}
