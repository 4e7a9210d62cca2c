package bookmark

import "time"

// Kind tags a Node as a folder or a link.
type Kind string

const (
	KindFolder Kind = "folder"
	KindLink   Kind = "link"
)

// Node is one entry of a bookmark tree: either a folder or a link.
// Fields that do not apply to the node's Kind are left zero.
type Node struct {
	Kind  Kind   `json:"type" yaml:"type"`
	Title string `json:"title" yaml:"title"`

	// URL and Icon are set for links only. Icon may be empty.
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`

	// AddedAt is the Unix timestamp in milliseconds the entry was added (nullable)
	AddedAt *int64 `json:"addDate,omitempty" yaml:"add_date,omitempty"`

	// Children is set for folders only, in source order.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewFolder returns a folder node holding the given children.
func NewFolder(title string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Kind: KindFolder, Title: title, Children: children}
}

// NewLink returns a link node.
func NewLink(title, url string) *Node {
	return &Node{Kind: KindLink, Title: title, URL: url}
}

// IsFolder reports whether n is a folder.
func (n *Node) IsFolder() bool { return n != nil && n.Kind == KindFolder }

// IsLink reports whether n is a link.
func (n *Node) IsLink() bool { return n != nil && n.Kind == KindLink }

// Added returns the time the entry was added, if known.
func (n *Node) Added() (time.Time, bool) {
	if n == nil || n.AddedAt == nil || *n.AddedAt <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(*n.AddedAt), true
}

// Folders returns the folder children of n in order.
func (n *Node) Folders() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.IsFolder() {
			out = append(out, c)
		}
	}
	return out
}

// Links returns the link children of n in order.
func (n *Node) Links() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.IsLink() {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy of n. Nodes of unknown kind are copied as-is.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.AddedAt != nil {
		v := *n.AddedAt
		c.AddedAt = &v
	}
	if n.Children != nil {
		c.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c.Children = append(c.Children, child.Clone())
		}
	}
	return &c
}

// FindFolder returns the first folder in nodes whose title equals title.
// Titles are not unique; the first match in order wins.
func FindFolder(nodes []*Node, title string) *Node {
	for _, n := range nodes {
		if n.IsFolder() && n.Title == title {
			return n
		}
	}
	return nil
}

// CountLinks returns the number of link nodes reachable from nodes.
func CountLinks(nodes []*Node) int {
	count := 0
	for _, n := range nodes {
		switch n.Kind {
		case KindLink:
			count++
		case KindFolder:
			count += CountLinks(n.Children)
		}
	}
	return count
}

func int64Ptr(v int64) *int64 { return &v }
