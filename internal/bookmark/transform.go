package bookmark

import (
	"fmt"
	"slices"
	"strings"
)

// Mode selects how the raw export hierarchy is reshaped for display.
type Mode string

const (
	// ModeIdentity keeps the hierarchy as exported.
	ModeIdentity Mode = "identity"
	// ModeCategoryLift promotes the child folders of wrapper containers to the top level.
	ModeCategoryLift Mode = "category-lift"
	// ModeLevelPromote discards the top level and promotes second-level folders.
	ModeLevelPromote Mode = "level-promote"
)

// Modes lists every supported Mode.
var Modes = []Mode{ModeIdentity, ModeCategoryLift, ModeLevelPromote}

// ParseMode parses a mode name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Modes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown transform mode %q", s)
}

// LinkPlacement decides where links sitting next to folders end up.
type LinkPlacement string

const (
	// PlacementInline leaves links at the level they land on.
	PlacementInline LinkPlacement = "inline"
	// PlacementBucket moves links of mixed folders into a trailing sub-folder.
	PlacementBucket LinkPlacement = "bucket"
)

// ParseLinkPlacement parses a placement name. Matching is case-insensitive.
func ParseLinkPlacement(s string) (LinkPlacement, error) {
	p := LinkPlacement(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlacementInline, PlacementBucket:
		return p, nil
	}
	return "", fmt.Errorf("unknown link placement %q", s)
}

// DefaultLooseLinksTitle names the synthetic folder collecting loose links.
const DefaultLooseLinksTitle = "Unsorted"

// BrowserWrapperTitles are the container folders browsers put at the root
// of an export.
var BrowserWrapperTitles = []string{"Bookmarks bar", "Other bookmarks", "其他书签"}

// TransformOptions configures Transform. The zero value is identity with
// inline links.
type TransformOptions struct {
	Mode Mode

	// WrapperTitles selects the root folders category-lift treats as
	// wrappers. Empty means every root folder is a wrapper.
	WrapperTitles []string

	LinkPlacement   LinkPlacement
	LooseLinksTitle string
	SortByDate      bool
}

func (o TransformOptions) looseTitle() string {
	if strings.TrimSpace(o.LooseLinksTitle) == "" {
		return DefaultLooseLinksTitle
	}
	return o.LooseLinksTitle
}

// Transform reshapes the decoded roots into the display hierarchy.
// The input is never modified; the result shares no nodes with it.
// The top level of the result holds folders only: links that would land
// there are collected into a trailing folder titled LooseLinksTitle.
func Transform(roots []*Node, opts TransformOptions) []*Node {
	var top, loose []*Node

	switch opts.Mode {
	case ModeCategoryLift:
		top, loose = categoryLift(roots, opts.WrapperTitles)
	case ModeLevelPromote:
		top, loose = levelPromote(roots)
	default:
		top, loose = identity(roots)
	}

	if opts.LinkPlacement == PlacementBucket {
		for _, f := range top {
			bucketLinks(f, opts.looseTitle())
		}
	}
	if len(loose) > 0 {
		top = append(top, NewFolder(opts.looseTitle(), loose...))
	}
	if opts.SortByDate {
		sortByDate(top)
	}
	return top
}

func identity(roots []*Node) (top, loose []*Node) {
	top = []*Node{}
	for _, n := range roots {
		switch n.Kind {
		case KindFolder:
			top = append(top, cloneKnown(n))
		case KindLink:
			loose = append(loose, n.Clone())
		}
	}
	return top, loose
}

func categoryLift(roots []*Node, wrapperTitles []string) (top, loose []*Node) {
	isWrapper := func(n *Node) bool {
		if !n.IsFolder() {
			return false
		}
		return len(wrapperTitles) == 0 || slices.Contains(wrapperTitles, n.Title)
	}
	if !slices.ContainsFunc(roots, isWrapper) {
		return identity(roots)
	}

	top = []*Node{}
	for _, n := range roots {
		switch {
		case isWrapper(n):
			for _, c := range n.Children {
				switch c.Kind {
				case KindFolder:
					top = append(top, cloneKnown(c))
				case KindLink:
					loose = append(loose, c.Clone())
				}
			}
		case n.IsFolder():
			top = append(top, cloneKnown(n))
		case n.IsLink():
			loose = append(loose, n.Clone())
		}
	}
	return top, loose
}

func levelPromote(roots []*Node) (top, loose []*Node) {
	top = []*Node{}
	for _, root := range roots {
		if root.IsLink() {
			loose = append(loose, root.Clone())
			continue
		}
		if !root.IsFolder() {
			continue
		}
		for _, second := range root.Children {
			switch second.Kind {
			case KindLink:
				loose = append(loose, second.Clone())
			case KindFolder:
				promoted := NewFolder(second.Title)
				if second.AddedAt != nil {
					promoted.AddedAt = int64Ptr(*second.AddedAt)
				}
				for _, c := range second.Children {
					switch c.Kind {
					case KindFolder:
						promoted.Children = append(promoted.Children, cloneKnown(c))
					case KindLink:
						promoted.Children = append(promoted.Children, c.Clone())
					}
				}
				top = append(top, promoted)
			}
		}
	}
	return top, loose
}

// cloneKnown deep-copies a folder, discarding nodes of unknown kind.
func cloneKnown(n *Node) *Node {
	c := NewFolder(n.Title)
	if n.AddedAt != nil {
		c.AddedAt = int64Ptr(*n.AddedAt)
	}
	for _, child := range n.Children {
		switch child.Kind {
		case KindFolder:
			c.Children = append(c.Children, cloneKnown(child))
		case KindLink:
			c.Children = append(c.Children, child.Clone())
		}
	}
	return c
}

// bucketLinks moves the links of every folder that also holds folders into
// a trailing sub-folder.
func bucketLinks(f *Node, title string) {
	folders := f.Folders()
	for _, sub := range folders {
		bucketLinks(sub, title)
	}
	links := f.Links()
	if len(folders) == 0 || len(links) == 0 {
		return
	}
	f.Children = append(folders, NewFolder(title, links...))
}

// sortByDate stable-sorts every level by AddedAt, newest first.
// Missing dates sort as zero.
func sortByDate(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		da, db := addedOrZero(a), addedOrZero(b)
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	for _, n := range nodes {
		if n.IsFolder() {
			sortByDate(n.Children)
		}
	}
}

func addedOrZero(n *Node) int64 {
	if n.AddedAt == nil {
		return 0
	}
	return *n.AddedAt
}
