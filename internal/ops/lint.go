package ops

import (
	"context"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/session"
)

// LintIssue is one malformed entry found in the source document.
type LintIssue struct {
	Code    errors.ErrorCode   `json:"code"`
	Kind    bookmark.IssueKind `json:"kind"`
	Path    []string           `json:"path"`
	Message string             `json:"message"`
	Dropped bool               `json:"dropped"`
}

// LintOutput contains the result of the Lint operation.
type LintOutput struct {
	SnapshotID string      `json:"snapshot_id"`
	Source     string      `json:"source"`
	Count      int         `json:"count"`
	Dropped    int         `json:"dropped"`
	Issues     []LintIssue `json:"issues"`
}

// Lint reports the entries that were dropped or degraded while decoding.
func Lint(ctx context.Context, sess *session.Session) (*LintOutput, error) {
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}

	out := &LintOutput{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		Count:      len(snap.Issues),
		Issues:     make([]LintIssue, 0, len(snap.Issues)),
	}
	for _, is := range snap.Issues {
		reason := string(is.Kind)
		if is.Detail != "" {
			reason += ": " + is.Detail
		}
		e := errors.NewMalformedEntry(is.Path, reason)
		out.Issues = append(out.Issues, LintIssue{
			Code:    e.Code,
			Kind:    is.Kind,
			Path:    is.Path,
			Message: e.Message,
			Dropped: is.Dropped,
		})
		if is.Dropped {
			out.Dropped++
		}
	}
	return out, nil
}
