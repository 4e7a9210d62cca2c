package ops

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/nav"
)

func TestNavigate_Sequence(t *testing.T) {
	sess := newTestSession(t, testDoc)
	ctx := context.Background()

	out, err := Navigate(ctx, sess, NavigateInput{Action: nav.KindSelectSecondary, Title: "Go"})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Dev", "Go"}, out.Breadcrumbs); diff != "" {
		t.Errorf("Breadcrumbs (-want +got):\n%s", diff)
	}

	out, err = Navigate(ctx, sess, NavigateInput{Action: nav.KindSelectTertiary, Title: "Missing"})
	if err != nil {
		t.Fatalf("Navigate returned error for a miss: %v", err)
	}
	if !out.LookupMiss {
		t.Error("LookupMiss = false")
	}
	if diff := cmp.Diff([]string{"Dev", "Go"}, out.Breadcrumbs); diff != "" {
		t.Errorf("state changed on miss (-want +got):\n%s", diff)
	}

	out, err = Navigate(ctx, sess, NavigateInput{Action: nav.KindSearch, Query: "blog"})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if !out.Searching || len(out.Results) != 1 {
		t.Errorf("search view = %+v", out)
	}

	out, err = Navigate(ctx, sess, NavigateInput{Action: nav.KindSearch, Query: ""})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if out.Searching || out.Phase != nav.PhaseSecondary {
		t.Errorf("clearing the query did not restore position: %+v", out)
	}

	out, err = Navigate(ctx, sess, NavigateInput{Action: nav.KindGoHome})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Dev"}, out.Breadcrumbs); diff != "" {
		t.Errorf("Breadcrumbs after home (-want +got):\n%s", diff)
	}
}

func TestNavigate_Invalid(t *testing.T) {
	sess := newTestSession(t, testDoc)

	tests := []NavigateInput{
		{Action: "teleport"},
		{Action: nav.KindSelectPrimary},
	}
	for _, in := range tests {
		if _, err := Navigate(context.Background(), sess, in); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("Navigate(%+v) err = %v, want INVALID_REQUEST", in, err)
		}
	}
}
