package ops

import (
	"context"
	"time"

	"github.com/hpungsan/pintree/internal/session"
)

// ReloadOutput contains the result of the Reload operation.
type ReloadOutput struct {
	SnapshotID string    `json:"snapshot_id"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
	Folders    int       `json:"folders"`
	Links      int       `json:"links"`
	Issues     int       `json:"issues"`
}

// Reload reloads the source and resets navigation.
func Reload(ctx context.Context, sess *session.Session) (*ReloadOutput, error) {
	snap, err := sess.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &ReloadOutput{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		LoadedAt:   snap.LoadedAt,
		Folders:    snap.Stats.Folders,
		Links:      snap.Stats.Links,
		Issues:     len(snap.Issues),
	}, nil
}
