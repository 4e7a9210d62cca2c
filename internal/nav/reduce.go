package nav

import (
	"fmt"
	"strings"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
)

// Action is a navigation input.
type Action interface {
	apply(s State, h []*bookmark.Node) (State, error)
}

type (
	SelectPrimaryAction   struct{ Title string }
	SelectSecondaryAction struct{ Title string }
	SelectTertiaryAction  struct{ Title string }
	SearchAction          struct{ Query string }
	GoHomeAction          struct{}
	OpenAction            struct{ Folder *bookmark.Node }
	BackAction            struct{}
	CyclePrimaryAction    struct{ Delta int }
)

func (a SelectPrimaryAction) apply(s State, h []*bookmark.Node) (State, error) {
	return SelectPrimary(s, h, a.Title)
}

func (a SelectSecondaryAction) apply(s State, _ []*bookmark.Node) (State, error) {
	return SelectSecondary(s, a.Title)
}

func (a SelectTertiaryAction) apply(s State, _ []*bookmark.Node) (State, error) {
	return SelectTertiary(s, a.Title)
}

func (a SearchAction) apply(s State, _ []*bookmark.Node) (State, error) {
	if strings.TrimSpace(a.Query) == "" {
		return ClearQuery(s), nil
	}
	return SetQuery(s, a.Query), nil
}

func (GoHomeAction) apply(_ State, h []*bookmark.Node) (State, error) {
	return Home(h), nil
}

func (a OpenAction) apply(s State, h []*bookmark.Node) (State, error) {
	return Open(s, h, a.Folder)
}

func (BackAction) apply(s State, _ []*bookmark.Node) (State, error) {
	return Up(s), nil
}

func (a CyclePrimaryAction) apply(s State, h []*bookmark.Node) (State, error) {
	return CyclePrimary(s, h, a.Delta), nil
}

// Reduce applies a to s. Errors leave the state unchanged.
func Reduce(s State, h []*bookmark.Node, a Action) (State, error) {
	if a == nil {
		return s, errors.NewInvalidRequest("action is required")
	}
	return a.apply(s, h)
}

// Action kinds accepted by ParseAction.
const (
	KindSelectPrimary   = "select_primary"
	KindSelectSecondary = "select_secondary"
	KindSelectTertiary  = "select_tertiary"
	KindSearch          = "search"
	KindGoHome          = "go_home"
)

// ParseAction builds an Action from its wire form.
func ParseAction(kind, title, query string) (Action, error) {
	switch kind {
	case KindSelectPrimary:
		return SelectPrimaryAction{Title: title}, nil
	case KindSelectSecondary:
		return SelectSecondaryAction{Title: title}, nil
	case KindSelectTertiary:
		return SelectTertiaryAction{Title: title}, nil
	case KindSearch:
		return SearchAction{Query: query}, nil
	case KindGoHome:
		return GoHomeAction{}, nil
	}
	return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown action: %q", kind))
}

// IsLookupMiss reports whether err is a title lookup that matched nothing.
func IsLookupMiss(err error) bool {
	return errors.Is(err, errors.ErrNotFound)
}
