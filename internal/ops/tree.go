package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/session"
)

// Tree output formats.
const (
	TreeFormatJSON     = "json"
	TreeFormatMarkdown = "markdown"
)

// TreeInput contains parameters for the Tree operation.
type TreeInput struct {
	Depth  int    // folder levels to include; 0 means all
	Format string // json (default) or markdown
}

// TreeOutput contains the result of the Tree operation.
// Exactly one of Nodes and Markdown is set.
type TreeOutput struct {
	SnapshotID string           `json:"snapshot_id"`
	Depth      int              `json:"depth"`
	Nodes      []*bookmark.Node `json:"nodes,omitempty"`
	Markdown   string           `json:"markdown,omitempty"`
}

// Tree returns the transformed hierarchy, optionally cut at a depth.
func Tree(ctx context.Context, sess *session.Session, input TreeInput) (*TreeOutput, error) {
	if input.Depth < 0 {
		return nil, errors.NewInvalidRequest("depth must not be negative")
	}
	format := input.Format
	if format == "" {
		format = TreeFormatJSON
	}
	if format != TreeFormatJSON && format != TreeFormatMarkdown {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown tree format: %q", input.Format))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("tree")
	}

	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}

	nodes := Prune(snap.Hierarchy, input.Depth)
	out := &TreeOutput{SnapshotID: snap.ID, Depth: input.Depth}
	if format == TreeFormatMarkdown {
		out.Markdown = bookmark.Outline(nodes)
	} else {
		out.Nodes = nodes
	}
	return out, nil
}

// Prune copies nodes keeping at most depth levels of folders; folders on the
// last kept level lose their children. depth 0 copies everything.
func Prune(nodes []*bookmark.Node, depth int) []*bookmark.Node {
	out := make([]*bookmark.Node, 0, len(nodes))
	for _, n := range nodes {
		c := n.Clone()
		if c.IsFolder() {
			switch {
			case depth == 1:
				c.Children = []*bookmark.Node{}
			case depth > 1:
				c.Children = Prune(n.Children, depth-1)
			}
		}
		out = append(out, c)
	}
	return out
}
