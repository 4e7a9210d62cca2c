package ops

import (
	"context"

	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/session"
)

// NavigateInput contains parameters for the Navigate operation.
type NavigateInput struct {
	Action string // select_primary, select_secondary, select_tertiary, search, go_home
	Title  string
	Query  string
}

// NavigateOutput contains the result of the Navigate operation.
type NavigateOutput struct {
	ViewOutput
	LookupMiss bool   `json:"lookup_miss"`
	Miss       string `json:"miss,omitempty"`
}

// Navigate applies one action to the session's navigation state.
func Navigate(ctx context.Context, sess *session.Session, input NavigateInput) (*NavigateOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("navigate")
	}
	action, err := nav.ParseAction(input.Action, input.Title, input.Query)
	if err != nil {
		return nil, err
	}
	switch action.(type) {
	case nav.SelectPrimaryAction, nav.SelectSecondaryAction, nav.SelectTertiaryAction:
		if input.Title == "" {
			return nil, errors.NewInvalidRequest("title is required for " + input.Action)
		}
	}

	res, err := sess.Dispatch(action)
	if err != nil {
		return nil, err
	}
	d := nav.View(res.State, res.Snapshot.Hierarchy, res.Snapshot.Index)
	return &NavigateOutput{
		ViewOutput: NewViewOutput(res.Snapshot, d),
		LookupMiss: res.LookupMiss,
		Miss:       res.Miss,
	}, nil
}

// Current returns the view for the session's navigation state.
func Current(ctx context.Context, sess *session.Session) (*ViewOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("view")
	}
	state, snap, err := sess.Current()
	if err != nil {
		return nil, err
	}
	out := NewViewOutput(snap, nav.View(state, snap.Hierarchy, snap.Index))
	return &out, nil
}
