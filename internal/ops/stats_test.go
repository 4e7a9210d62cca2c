package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/logging"
	"github.com/hpungsan/pintree/internal/session"
)

func TestStats(t *testing.T) {
	sess := newTestSession(t, testDoc)

	out, err := Stats(context.Background(), sess)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if out.Folders != 5 || out.Links != 4 {
		t.Errorf("Folders = %d, Links = %d; want 5, 4", out.Folders, out.Links)
	}
	// Dev > Go > Tools
	if out.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", out.MaxDepth)
	}
	if out.Issues != 1 {
		t.Errorf("Issues = %d, want 1", out.Issues)
	}
	if out.LoadedAt.IsZero() {
		t.Error("LoadedAt should be set")
	}
}

func TestStats_NotLoaded(t *testing.T) {
	sess := session.New(session.Options{
		Source:    "x.json",
		Transform: bookmark.TransformOptions{},
		Fetch: func(ctx context.Context, src string, timeout time.Duration) ([]byte, error) {
			return nil, nil
		},
	}, logging.Nop())

	if _, err := Stats(context.Background(), sess); !errors.Is(err, errors.ErrNotReady) {
		t.Errorf("err = %v, want NOT_READY", err)
	}
}
