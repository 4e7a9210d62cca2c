package nav

import "github.com/hpungsan/pintree/internal/bookmark"

// Display is everything a renderer needs to draw the current state.
type Display struct {
	Phase     Phase  `json:"phase"`
	Searching bool   `json:"searching"`
	Query     string `json:"query,omitempty"`

	// Menus: titles selectable at each level, and the current pick.
	Primaries   []string `json:"primaries"`
	Secondaries []string `json:"secondaries"`
	Tertiaries  []string `json:"tertiaries"`
	Breadcrumbs []string `json:"breadcrumbs"`

	// Content of the deepest selected folder when not searching.
	Folders []*bookmark.Node `json:"folders"`
	Links   []*bookmark.Node `json:"links"`

	Results []bookmark.IndexedResource `json:"results"`
	// Empty is set when no link is reachable from the content area, or
	// when a search matches nothing.
	Empty bool `json:"empty"`
}

// View derives the display for s. Searching overrides the content area but
// leaves the menus reflecting the navigation position.
func View(s State, h []*bookmark.Node, index []bookmark.IndexedResource) Display {
	d := Display{
		Phase:       s.Phase(),
		Searching:   s.Searching(),
		Query:       s.Query,
		Primaries:   folderTitles(h),
		Secondaries: []string{},
		Tertiaries:  []string{},
		Breadcrumbs: s.Breadcrumbs(),
		Folders:     []*bookmark.Node{},
		Links:       []*bookmark.Node{},
		Results:     []bookmark.IndexedResource{},
	}
	if s.Primary != nil {
		d.Secondaries = folderTitles(s.Primary.Children)
	}
	if s.Secondary != nil {
		d.Tertiaries = folderTitles(s.Secondary.Children)
	}

	if d.Searching {
		d.Results = bookmark.Search(index, s.Query)
		d.Empty = len(d.Results) == 0
		return d
	}

	children := h
	if cur := s.Current(); cur != nil {
		children = cur.Children
	}
	for _, n := range children {
		switch n.Kind {
		case bookmark.KindFolder:
			d.Folders = append(d.Folders, n)
		case bookmark.KindLink:
			d.Links = append(d.Links, n)
		}
	}
	// Subfolders without links do not count as content.
	d.Empty = bookmark.CountLinks(children) == 0
	return d
}

func folderTitles(nodes []*bookmark.Node) []string {
	out := []string{}
	for _, n := range nodes {
		if n.IsFolder() {
			out = append(out, n.Title)
		}
	}
	return out
}
