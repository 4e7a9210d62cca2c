// Package nav implements the three-level category navigation as a pure
// state machine over a transformed bookmark hierarchy.
package nav

import (
	"slices"
	"strings"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
)

// Level names a navigation level.
type Level string

const (
	LevelPrimary   Level = "primary"
	LevelSecondary Level = "secondary"
	LevelTertiary  Level = "tertiary"
)

// Phase is the navigation position derived from a State.
type Phase string

const (
	PhaseHome      Phase = "home"
	PhasePrimary   Phase = "primary_selected"
	PhaseSecondary Phase = "secondary_selected"
	PhaseTertiary  Phase = "tertiary_selected"
)

// State is the current navigation position plus the search query.
// Selected nodes point into the hierarchy the state was built from.
// A set level always has its parent level set.
type State struct {
	Primary   *bookmark.Node
	Secondary *bookmark.Node
	Tertiary  *bookmark.Node
	Query     string
}

// Phase returns the deepest selected level.
func (s State) Phase() Phase {
	switch {
	case s.Tertiary != nil:
		return PhaseTertiary
	case s.Secondary != nil:
		return PhaseSecondary
	case s.Primary != nil:
		return PhasePrimary
	}
	return PhaseHome
}

// Searching reports whether a non-blank query is active.
func (s State) Searching() bool {
	return strings.TrimSpace(s.Query) != ""
}

// Current returns the deepest selected folder, or nil at home.
func (s State) Current() *bookmark.Node {
	switch {
	case s.Tertiary != nil:
		return s.Tertiary
	case s.Secondary != nil:
		return s.Secondary
	}
	return s.Primary
}

// Breadcrumbs returns the titles of the selected levels, outermost first.
func (s State) Breadcrumbs() []string {
	crumbs := []string{}
	for _, n := range []*bookmark.Node{s.Primary, s.Secondary, s.Tertiary} {
		if n == nil {
			break
		}
		crumbs = append(crumbs, n.Title)
	}
	return crumbs
}

// Initial returns the state shown after a successful load.
func Initial(h []*bookmark.Node) State {
	return Home(h)
}

// Home clears the selection and query, then selects the first top-level
// folder if there is one.
func Home(h []*bookmark.Node) State {
	var s State
	for _, n := range h {
		if n.IsFolder() {
			s.Primary = n
			break
		}
	}
	return s
}

// SelectPrimary selects the top-level folder titled title and clears the
// deeper levels. The query is kept. On a miss the previous state is
// returned with a NOT_FOUND error.
func SelectPrimary(s State, h []*bookmark.Node, title string) (State, error) {
	n := bookmark.FindFolder(h, title)
	if n == nil {
		return s, errors.NewNotFound(string(LevelPrimary), title)
	}
	return State{Primary: n, Query: s.Query}, nil
}

// SelectSecondary selects a child folder of the primary selection.
func SelectSecondary(s State, title string) (State, error) {
	if s.Primary == nil {
		return s, errors.NewInvalidRequest("cannot select a secondary category without a primary")
	}
	n := bookmark.FindFolder(s.Primary.Children, title)
	if n == nil {
		return s, errors.NewNotFound(string(LevelSecondary), title)
	}
	return State{Primary: s.Primary, Secondary: n, Query: s.Query}, nil
}

// SelectTertiary selects a child folder of the secondary selection.
func SelectTertiary(s State, title string) (State, error) {
	if s.Secondary == nil {
		return s, errors.NewInvalidRequest("cannot select a tertiary category without a secondary")
	}
	n := bookmark.FindFolder(s.Secondary.Children, title)
	if n == nil {
		return s, errors.NewNotFound(string(LevelTertiary), title)
	}
	next := s
	next.Tertiary = n
	return next, nil
}

// Open selects folder one level below the current position. folder must
// be a direct child of the current level, compared by identity, so a
// folder sharing its title with an earlier sibling is still reachable.
func Open(s State, h []*bookmark.Node, folder *bookmark.Node) (State, error) {
	if folder == nil || !folder.IsFolder() {
		return s, errors.NewInvalidRequest("only folders can be opened")
	}
	var siblings []*bookmark.Node
	var level Level
	switch s.Phase() {
	case PhaseHome:
		siblings, level = h, LevelPrimary
	case PhasePrimary:
		siblings, level = s.Primary.Children, LevelSecondary
	case PhaseSecondary:
		siblings, level = s.Secondary.Children, LevelTertiary
	default:
		return s, errors.NewInvalidRequest("already at the deepest category")
	}
	if !slices.Contains(siblings, folder) {
		return s, errors.NewNotFound(string(level), folder.Title)
	}
	next := s
	switch level {
	case LevelPrimary:
		next = State{Primary: folder, Query: s.Query}
	case LevelSecondary:
		next.Secondary = folder
	case LevelTertiary:
		next.Tertiary = folder
	}
	return next, nil
}

// Up drops the deepest selected level below the primary. The primary is
// never cleared and the query is kept.
func Up(s State) State {
	switch {
	case s.Tertiary != nil:
		s.Tertiary = nil
	case s.Secondary != nil:
		s.Secondary = nil
	}
	return s
}

// CyclePrimary moves the primary selection delta folders along the top
// level, wrapping at either end. The current primary is located by
// identity so duplicate titles cycle correctly. Deeper levels are
// cleared and the query is kept.
func CyclePrimary(s State, h []*bookmark.Node, delta int) State {
	folders := make([]*bookmark.Node, 0, len(h))
	idx := 0
	for _, n := range h {
		if !n.IsFolder() {
			continue
		}
		if n == s.Primary {
			idx = len(folders)
		}
		folders = append(folders, n)
	}
	if len(folders) == 0 {
		return s
	}
	idx = ((idx+delta)%len(folders) + len(folders)) % len(folders)
	return State{Primary: folders[idx], Query: s.Query}
}

// SetQuery replaces the search query. Navigation is untouched.
func SetQuery(s State, q string) State {
	s.Query = q
	return s
}

// ClearQuery drops the search query, returning to the navigation position
// held before searching.
func ClearQuery(s State) State {
	s.Query = ""
	return s
}
