package annotate

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"

	"github.com/chmouel/gitls/internal/lister"
)

// DefaultTabWidth is the tab stop used when no width is configured.
const DefaultTabWidth = 8

// VisibleWidth measures the rendered width of a line: color escapes are
// ignored and tabs expand to the next tab stop.
func VisibleWidth(line string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	if !strings.ContainsRune(line, '\t') {
		return ansi.PrintableRuneWidth(line)
	}

	col := 0
	for _, r := range lister.StripANSI(line) {
		if r == '\t' {
			col = (col/tabWidth + 1) * tabWidth
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

// MaxVisibleWidth returns the widest visible line of a batch. Annotations
// for the batch all start at this width plus a fixed gap.
func MaxVisibleWidth(lines []string, tabWidth int) int {
	widest := 0
	for _, line := range lines {
		if w := VisibleWidth(line, tabWidth); w > widest {
			widest = w
		}
	}
	return widest
}
