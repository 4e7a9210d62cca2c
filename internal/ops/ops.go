package ops

import (
	"time"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/session"
)

// Pagination limits
const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampLimit applies the default and maximum to a requested page size.
func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}

// LinkItem is a link as presented to clients.
type LinkItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Icon        string     `json:"icon"`
	Emoji       string     `json:"emoji"`
	Host        string     `json:"host,omitempty"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	AddedAt     *time.Time `json:"added_at,omitempty"`
}

func newLinkItem(title, url, icon string, added *int64, path []string) LinkItem {
	item := LinkItem{
		Title:       title,
		URL:         url,
		Icon:        bookmark.ResolveIcon(url, icon),
		Emoji:       bookmark.Emoji(url),
		Host:        bookmark.Hostname(url),
		Description: bookmark.Describe(title),
	}
	if len(path) > 0 {
		item.Category = bookmark.IndexedResource{AncestorPath: path}.CategoryPath()
	}
	if added != nil && *added > 0 {
		t := time.UnixMilli(*added).UTC()
		item.AddedAt = &t
	}
	return item
}

// LinkItemFromNode presents a link node.
func LinkItemFromNode(n *bookmark.Node) LinkItem {
	return newLinkItem(n.Title, n.URL, n.Icon, n.AddedAt, nil)
}

// LinkItemFromResource presents an indexed link, including its category path.
func LinkItemFromResource(r bookmark.IndexedResource) LinkItem {
	return newLinkItem(r.Title, r.URL, r.Icon, r.AddedAt, r.AncestorPath)
}

// FolderItem summarises a folder without its subtree.
type FolderItem struct {
	Title   string `json:"title"`
	Folders int    `json:"folders"`
	Links   int    `json:"links"`
}

// ViewOutput is the JSON form of nav.Display.
type ViewOutput struct {
	SnapshotID  string       `json:"snapshot_id"`
	Phase       nav.Phase    `json:"phase"`
	Searching   bool         `json:"searching"`
	Query       string       `json:"query,omitempty"`
	Primaries   []string     `json:"primaries"`
	Secondaries []string     `json:"secondaries"`
	Tertiaries  []string     `json:"tertiaries"`
	Breadcrumbs []string     `json:"breadcrumbs"`
	Folders     []FolderItem `json:"folders"`
	Links       []LinkItem   `json:"links"`
	Results     []LinkItem   `json:"results"`
	Empty       bool         `json:"empty"`
}

// NewViewOutput converts a display for clients.
func NewViewOutput(snap *session.Snapshot, d nav.Display) ViewOutput {
	out := ViewOutput{
		SnapshotID:  snap.ID,
		Phase:       d.Phase,
		Searching:   d.Searching,
		Query:       d.Query,
		Primaries:   d.Primaries,
		Secondaries: d.Secondaries,
		Tertiaries:  d.Tertiaries,
		Breadcrumbs: d.Breadcrumbs,
		Folders:     make([]FolderItem, 0, len(d.Folders)),
		Links:       make([]LinkItem, 0, len(d.Links)),
		Results:     make([]LinkItem, 0, len(d.Results)),
		Empty:       d.Empty,
	}
	for _, f := range d.Folders {
		st := bookmark.Analyze(f.Children)
		out.Folders = append(out.Folders, FolderItem{Title: f.Title, Folders: st.Folders, Links: st.Links})
	}
	for _, l := range d.Links {
		out.Links = append(out.Links, LinkItemFromNode(l))
	}
	for _, r := range d.Results {
		out.Results = append(out.Results, LinkItemFromResource(r))
	}
	return out
}
