package bookmark

import (
	"fmt"
	"strings"
)

// Outline renders folders as nested markdown: headings for the first levels,
// indented bullets below that, and links as markdown links.
func Outline(folders []*Node) string {
	var b strings.Builder
	for _, n := range folders {
		writeOutline(&b, n, 1)
	}
	return b.String()
}

const maxHeadingLevel = 3

func writeOutline(b *strings.Builder, n *Node, level int) {
	switch n.Kind {
	case KindLink:
		indent := strings.Repeat("  ", max(0, level-maxHeadingLevel-1))
		fmt.Fprintf(b, "%s- [%s](%s)\n", indent, escapeMarkdown(n.Title), n.URL)
	case KindFolder:
		if level <= maxHeadingLevel {
			fmt.Fprintf(b, "\n%s %s\n\n", strings.Repeat("#", level+1), escapeMarkdown(n.Title))
		} else {
			fmt.Fprintf(b, "%s- **%s**\n", strings.Repeat("  ", level-maxHeadingLevel-1), escapeMarkdown(n.Title))
		}
		for _, c := range n.Children {
			writeOutline(b, c, level+1)
		}
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`, "`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
