package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hpungsan/pintree/internal/bookmark"
)

func linkTitles(nodes []*bookmark.Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.Title)
	}
	return out
}

func TestView_Navigation(t *testing.T) {
	h := hierarchy()
	idx := bookmark.Flatten(h)
	s, _ := SelectPrimary(Initial(h), h, "X")

	d := View(s, h, idx)

	if d.Searching || d.Empty {
		t.Errorf("Searching=%v Empty=%v, want false/false", d.Searching, d.Empty)
	}
	if diff := cmp.Diff([]string{"X", "W", "X"}, d.Primaries); diff != "" {
		t.Errorf("Primaries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Y"}, d.Secondaries); diff != "" {
		t.Errorf("Secondaries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Y"}, linkTitles(d.Folders)); diff != "" {
		t.Errorf("Folders (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x-link"}, linkTitles(d.Links)); diff != "" {
		t.Errorf("Links (-want +got):\n%s", diff)
	}
	if len(d.Tertiaries) != 0 {
		t.Errorf("Tertiaries = %v, want none", d.Tertiaries)
	}
}

func TestView_EmptyFolder(t *testing.T) {
	h := hierarchy()
	s, _ := SelectPrimary(State{}, h, "W")

	d := View(s, h, bookmark.Flatten(h))

	if !d.Empty {
		t.Error("Empty = false for an empty folder")
	}
}

func TestView_FolderWithoutLinkDescendants(t *testing.T) {
	h := []*bookmark.Node{
		bookmark.NewFolder("A", bookmark.NewFolder("B")),
	}

	d := View(Initial(h), h, bookmark.Flatten(h))

	if diff := cmp.Diff([]string{"B"}, linkTitles(d.Folders)); diff != "" {
		t.Errorf("Folders (-want +got):\n%s", diff)
	}
	if !d.Empty {
		t.Error("Empty = false for a folder with no link descendants")
	}
}

func TestView_Search(t *testing.T) {
	h := hierarchy()
	idx := bookmark.Flatten(h)
	s, _ := SelectPrimary(Initial(h), h, "W")
	s = SetQuery(s, "DEEP")

	d := View(s, h, idx)

	if !d.Searching {
		t.Fatal("Searching = false")
	}
	if len(d.Results) != 1 || d.Results[0].Title != "deep" {
		t.Errorf("Results = %+v, want [deep]", d.Results)
	}
	if len(d.Folders) != 0 || len(d.Links) != 0 {
		t.Error("navigation content shown while searching")
	}
	if diff := cmp.Diff([]string{"W"}, d.Breadcrumbs); diff != "" {
		t.Errorf("Breadcrumbs (-want +got):\n%s", diff)
	}

	none := View(SetQuery(s, "no such thing"), h, idx)
	if !none.Empty || len(none.Results) != 0 {
		t.Errorf("no-match search: Empty=%v Results=%v", none.Empty, none.Results)
	}
}

func TestView_HomeWithoutFolders(t *testing.T) {
	d := View(Initial(nil), nil, nil)
	if d.Phase != PhaseHome || !d.Empty {
		t.Errorf("View(empty) = %+v, want home and empty", d)
	}
}
