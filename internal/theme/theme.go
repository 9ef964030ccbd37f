// Package theme provides the color palette used to render status annotations.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Key identifies a semantic color slot for one annotation segment.
type Key string

// Semantic color keys. The composer emits segments tagged with these; the
// theme decides what they look like at render time.
const (
	KeyNone      Key = ""
	KeyUntracked Key = "untracked"
	KeyIgnored   Key = "ignored"
	KeyStaged    Key = "staged"
	KeyModified  Key = "modified"
	KeyDeleted   Key = "deleted"
	KeyUnmerged  Key = "unmerged"
	KeyBranch    Key = "branch"
	KeyAhead     Key = "ahead"
	KeyBehind    Key = "behind"
	KeyDrift     Key = "drift"
	KeyDirCounts Key = "dir_counts"
	KeyEscape    Key = "escape"
)

// ForceColors pins the render profile so styles emit ANSI sequences even
// when stdout is not a terminal. lipgloss detects its profile from the
// output device, which would silently downgrade "always" mode to plain
// text under a pipe.
func ForceColors() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}

// Theme maps semantic keys to lipgloss styles. Built once at startup and
// passed explicitly; never mutated afterwards.
type Theme struct {
	styles  map[Key]lipgloss.Style
	enabled bool
}

// Default returns the stock palette, mirroring the colors git itself uses
// for the matching status classes.
func Default(enabled bool) *Theme {
	colors := map[Key]string{
		KeyUntracked: "1",   // red
		KeyIgnored:   "8",   // bright black
		KeyStaged:    "2",   // green
		KeyModified:  "1",   // red
		KeyDeleted:   "1",   // red
		KeyUnmerged:  "5",   // magenta
		KeyBranch:    "6",   // cyan
		KeyAhead:     "2",   // green
		KeyBehind:    "3",   // yellow
		KeyDrift:     "3",   // yellow
		KeyDirCounts: "4",   // blue
		KeyEscape:    "5",   // magenta
	}
	return build(colors, enabled)
}

// WithOverrides builds a theme from the default palette with per-key color
// overrides applied. Override values are lipgloss color strings (ANSI index
// or hex); unknown keys are ignored.
func WithOverrides(overrides map[string]string, enabled bool) *Theme {
	t := Default(enabled)
	for name, value := range overrides {
		key := Key(name)
		if _, ok := t.styles[key]; !ok || value == "" {
			continue
		}
		t.styles[key] = lipgloss.NewStyle().Foreground(lipgloss.Color(value))
	}
	return t
}

func build(colors map[Key]string, enabled bool) *Theme {
	styles := make(map[Key]lipgloss.Style, len(colors))
	for key, color := range colors {
		styles[key] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return &Theme{styles: styles, enabled: enabled}
}

// Enabled reports whether the theme renders colors at all.
func (t *Theme) Enabled() bool { return t.enabled }

// Render colorizes text according to the key. With colors disabled, or for
// KeyNone, the text passes through unchanged.
func (t *Theme) Render(key Key, text string) string {
	if !t.enabled || key == KeyNone || text == "" {
		return text
	}
	style, ok := t.styles[key]
	if !ok {
		return text
	}
	return style.Render(text)
}
