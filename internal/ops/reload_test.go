package ops

import (
	"context"
	"testing"
)

func TestReload(t *testing.T) {
	sess := newTestSession(t, testDoc)
	before, _ := sess.Snapshot()

	out, err := Reload(context.Background(), sess)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if out.SnapshotID == before.ID {
		t.Error("Reload kept the old snapshot ID")
	}
	if out.Links != 4 {
		t.Errorf("Links = %d, want 4", out.Links)
	}
	// Dev, Go, Tools, Reading, and the loose-links folder
	if out.Folders != 5 {
		t.Errorf("Folders = %d, want 5", out.Folders)
	}
	if out.Issues != 1 {
		t.Errorf("Issues = %d, want 1", out.Issues)
	}
	if out.Source != "/data/bookmarks.json" {
		t.Errorf("Source = %q", out.Source)
	}
}
