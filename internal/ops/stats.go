package ops

import (
	"context"
	"time"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/session"
)

// StatsOutput contains the result of the Stats operation.
type StatsOutput struct {
	SnapshotID string    `json:"snapshot_id"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
	Issues     int       `json:"issues"`
	bookmark.Stats
}

// Stats summarises the current snapshot.
func Stats(ctx context.Context, sess *session.Session) (*StatsOutput, error) {
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}
	return &StatsOutput{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		Issues:     len(snap.Issues),
		Stats:      snap.Stats,
	}, nil
}
