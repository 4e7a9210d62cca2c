package bookmark

import (
	"strings"
	"testing"
)

func TestOutline(t *testing.T) {
	tree := []*Node{
		NewFolder("Dev",
			NewLink("Go [docs]", "https://go.dev"),
			NewFolder("L2", NewFolder("L3", NewFolder("L4", NewLink("deep", "https://deep.test")))),
		),
	}

	got := Outline(tree)

	for _, want := range []string{
		"## Dev\n",
		"- [Go \\[docs\\]](https://go.dev)\n",
		"### L2\n",
		"#### L3\n",
		"- **L4**\n",
		"  - [deep](https://deep.test)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Outline missing %q in:\n%s", want, got)
		}
	}
}

func TestOutline_Empty(t *testing.T) {
	if got := Outline(nil); got != "" {
		t.Errorf("Outline(nil) = %q, want empty", got)
	}
}
