package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
)

func TestTree_Full(t *testing.T) {
	sess := newTestSession(t, testDoc)

	out, err := Tree(context.Background(), sess, TreeInput{})
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if out.Markdown != "" {
		t.Error("Markdown set for json format")
	}
	if got := bookmark.CountLinks(out.Nodes); got != 4 {
		t.Errorf("CountLinks = %d, want 4", got)
	}
}

func TestTree_Depth(t *testing.T) {
	sess := newTestSession(t, testDoc)

	out, err := Tree(context.Background(), sess, TreeInput{Depth: 1})
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if len(out.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(out.Nodes))
	}
	for _, n := range out.Nodes {
		if len(n.Children) != 0 {
			t.Errorf("%q kept %d children at depth 1", n.Title, len(n.Children))
		}
	}

	// Pruning copies; the snapshot is untouched.
	snap, _ := sess.Snapshot()
	if bookmark.CountLinks(snap.Hierarchy) != 4 {
		t.Error("Prune modified the snapshot")
	}
}

func TestTree_Markdown(t *testing.T) {
	sess := newTestSession(t, testDoc)

	out, err := Tree(context.Background(), sess, TreeInput{Depth: 2, Format: TreeFormatMarkdown})
	if err != nil {
		t.Fatalf("Tree failed: %v", err)
	}
	if out.Nodes != nil {
		t.Error("Nodes set for markdown format")
	}
	for _, want := range []string{"## Dev", "### Go", "- [GitHub](https://github.com)"} {
		if !strings.Contains(out.Markdown, want) {
			t.Errorf("markdown missing %q:\n%s", want, out.Markdown)
		}
	}
	if strings.Contains(out.Markdown, "Tools") {
		t.Errorf("depth 2 should cut below Go:\n%s", out.Markdown)
	}
}

func TestTree_InvalidInput(t *testing.T) {
	sess := newTestSession(t, testDoc)

	for _, in := range []TreeInput{{Depth: -1}, {Format: "xml"}} {
		if _, err := Tree(context.Background(), sess, in); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("Tree(%+v) err = %v, want INVALID_REQUEST", in, err)
		}
	}
}
