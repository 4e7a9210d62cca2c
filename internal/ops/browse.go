package ops

import (
	"context"

	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/session"
)

// BrowseInput contains parameters for the Browse operation.
// Empty levels are not selected; Primary defaults to the first category.
type BrowseInput struct {
	Primary   string
	Secondary string
	Tertiary  string
	Query     string
}

// Miss records a selection that matched no folder.
type Miss struct {
	Level nav.Level `json:"level"`
	Title string    `json:"title"`
}

// BrowseOutput contains the result of the Browse operation.
type BrowseOutput struct {
	ViewOutput
	Misses []Miss `json:"misses"`
}

// Browse derives a view by replaying the given selections from the initial
// state. It does not touch the session's navigation state. A miss stops
// descent at the level that missed.
func Browse(ctx context.Context, sess *session.Session, input BrowseInput) (*BrowseOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("browse")
	}
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}

	state, misses := Replay(snap, input)
	d := nav.View(state, snap.Hierarchy, snap.Index)
	return &BrowseOutput{ViewOutput: NewViewOutput(snap, d), Misses: misses}, nil
}

// Replay builds the navigation state described by input.
func Replay(snap *session.Snapshot, input BrowseInput) (nav.State, []Miss) {
	h := snap.Hierarchy
	state := nav.Initial(h)
	misses := []Miss{}

	steps := []struct {
		level  nav.Level
		title  string
		action nav.Action
	}{
		{nav.LevelPrimary, input.Primary, nav.SelectPrimaryAction{Title: input.Primary}},
		{nav.LevelSecondary, input.Secondary, nav.SelectSecondaryAction{Title: input.Secondary}},
		{nav.LevelTertiary, input.Tertiary, nav.SelectTertiaryAction{Title: input.Tertiary}},
	}
	for _, step := range steps {
		if step.title == "" {
			continue
		}
		next, err := nav.Reduce(state, h, step.action)
		if err != nil {
			misses = append(misses, Miss{Level: step.level, Title: step.title})
			break
		}
		state = next
	}

	state, _ = nav.Reduce(state, h, nav.SearchAction{Query: input.Query})
	return state, misses
}
