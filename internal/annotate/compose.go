// Package annotate correlates listing entries with their git status and
// composes the annotation labels attached to each line.
package annotate

import (
	"fmt"

	"github.com/chmouel/gitls/internal/models"
	"github.com/chmouel/gitls/internal/theme"
)

// Segment is one colorized piece of an annotation label. Labels are built
// as ordered segments and rendered to colored text at the very last step.
type Segment struct {
	Text string
	Key  theme.Key
}

// Render flattens segments into the final label string.
func Render(segments []Segment, t *theme.Theme) string {
	if len(segments) == 0 {
		return ""
	}
	var out string
	for _, seg := range segments {
		out += t.Render(seg.Key, seg.Text)
	}
	return out
}

// unmergedPhrases maps the conflict status codes to their descriptions.
var unmergedPhrases = map[string]string{
	"DD": "both deleted",
	"AU": "added by us",
	"UD": "deleted by them",
	"UA": "added by them",
	"DU": "deleted by us",
	"AA": "both added",
	"UU": "both modified",
}

// ComposeFile maps a file's status code and its line deltas to label
// segments. A nil return means clean: no annotation is emitted at all.
func ComposeFile(code models.StatusCode, cached, worktree models.LineDelta) []Segment {
	switch code.String() {
	case "??":
		return braced(Segment{Text: "untracked", Key: theme.KeyUntracked})
	case "!!":
		return braced(Segment{Text: "ignored", Key: theme.KeyIgnored})
	}
	if phrase, ok := unmergedPhrases[code.String()]; ok {
		return braced(Segment{Text: "unmerged, " + phrase, Key: theme.KeyUnmerged})
	}

	indexSeg, okIndex := indexSegment(code.Index, cached)
	worktreeSeg, okWorktree := worktreeSegment(code.Worktree, worktree)

	switch {
	case okIndex && okWorktree:
		return braced(indexSeg, Segment{Text: "+"}, worktreeSeg)
	case okIndex:
		return braced(indexSeg)
	case okWorktree:
		return braced(worktreeSeg)
	}
	return nil
}

func indexSegment(c byte, delta models.LineDelta) (Segment, bool) {
	switch c {
	case 0, ' ':
		return Segment{}, false
	case 'M':
		return Segment{Text: "staged" + deltaSuffix(delta), Key: theme.KeyStaged}, true
	case 'A':
		return Segment{Text: "added", Key: theme.KeyStaged}, true
	case 'D':
		return Segment{Text: "deleted", Key: theme.KeyDeleted}, true
	case 'R':
		return Segment{Text: "renamed", Key: theme.KeyStaged}, true
	case 'C':
		return Segment{Text: "copied", Key: theme.KeyStaged}, true
	default:
		// Unknown sub-code: surfaced literally for diagnostics.
		return Segment{Text: fmt.Sprintf("\\%c", c), Key: theme.KeyEscape}, true
	}
}

func worktreeSegment(c byte, delta models.LineDelta) (Segment, bool) {
	switch c {
	case 0, ' ':
		return Segment{}, false
	case 'M':
		return Segment{Text: "modified locally" + deltaSuffix(delta), Key: theme.KeyModified}, true
	case 'A':
		return Segment{Text: "added locally", Key: theme.KeyModified}, true
	case 'D':
		return Segment{Text: "deleted locally", Key: theme.KeyDeleted}, true
	default:
		return Segment{Text: fmt.Sprintf("\\%c", c), Key: theme.KeyEscape}, true
	}
}

// deltaSuffix renders the ", N lines" and mode-change tail of a phrase.
func deltaSuffix(delta models.LineDelta) string {
	var suffix string
	if total := delta.Total(); total > 0 {
		suffix = fmt.Sprintf(", %d line", total)
		if total != 1 {
			suffix += "s"
		}
	}
	if delta.ExecAdded {
		suffix += ", +x"
	}
	if delta.ExecRemoved {
		suffix += ", -x"
	}
	return suffix
}

// ComposeDir maps a plain (non-repository) directory's own status code and
// aggregate summary to label segments. Only untracked/ignored membership is
// derived from the code; internal changes surface through the summary.
func ComposeDir(code models.StatusCode, summary models.DirSummary) []Segment {
	switch code.String() {
	case "??":
		return braced(Segment{Text: "untracked", Key: theme.KeyUntracked})
	case "!!":
		return braced(Segment{Text: "ignored", Key: theme.KeyIgnored})
	}
	return summarySegments(summary)
}

// ComposeRepo maps a repository/submodule descriptor to label segments:
// "(branch relation, drift)" plus an optional "{N staged, N modified}"
// group and an added marker for freshly staged submodules.
func ComposeRepo(info *models.RepoInfo, summary models.DirSummary, added bool) []Segment {
	segments := []Segment{{Text: "("}}
	segments = append(segments, Segment{Text: info.Branch, Key: theme.KeyBranch})

	var parts []Segment
	if part, ok := relationSegment(info.Relation); ok {
		parts = append(parts, part)
	}
	if part, ok := driftSegment(info.WorktreeDrift, ""); ok {
		parts = append(parts, part)
	}
	if part, ok := driftSegment(info.IndexDrift, "staged "); ok {
		parts = append(parts, part)
	}
	if added {
		parts = append(parts, Segment{Text: "added", Key: theme.KeyStaged})
	}

	for i, part := range parts {
		if i == 0 {
			segments = append(segments, Segment{Text: " "})
		} else {
			segments = append(segments, Segment{Text: ", "})
		}
		segments = append(segments, part)
	}
	segments = append(segments, Segment{Text: ")"})

	if group := summarySegments(summary); group != nil {
		segments = append(segments, Segment{Text: " "})
		segments = append(segments, group...)
	}

	return segments
}

func relationSegment(rel models.Relation) (Segment, bool) {
	switch rel.Kind {
	case models.RelationAhead:
		return Segment{Text: fmt.Sprintf("ahead %d", rel.Ahead), Key: theme.KeyAhead}, true
	case models.RelationBehind:
		return Segment{Text: fmt.Sprintf("behind %d", rel.Behind), Key: theme.KeyBehind}, true
	case models.RelationAheadBehind:
		return Segment{Text: fmt.Sprintf("ahead %d, behind %d", rel.Ahead, rel.Behind), Key: theme.KeyBehind}, true
	case models.RelationNoUpstream:
		return Segment{Text: "no upstream", Key: theme.KeyDrift}, true
	case models.RelationDetached:
		return Segment{Text: "detached", Key: theme.KeyDrift}, true
	}
	return Segment{}, false
}

func driftSegment(drift models.Drift, prefix string) (Segment, bool) {
	switch drift.Kind {
	case models.DriftForward:
		return Segment{Text: fmt.Sprintf("%s%d forward", prefix, drift.Count), Key: theme.KeyDrift}, true
	case models.DriftBack:
		return Segment{Text: fmt.Sprintf("%s%d back", prefix, drift.Count), Key: theme.KeyDrift}, true
	case models.DriftNewRef:
		return Segment{Text: prefix + "new ref", Key: theme.KeyDrift}, true
	}
	// DriftAdded renders through the added marker instead.
	return Segment{}, false
}

func summarySegments(summary models.DirSummary) []Segment {
	if summary.Empty() {
		return nil
	}
	segments := []Segment{{Text: "{", Key: theme.KeyDirCounts}}
	if summary.Staged > 0 {
		segments = append(segments, Segment{Text: fmt.Sprintf("%d staged", summary.Staged), Key: theme.KeyStaged})
	}
	if summary.Modified > 0 {
		if summary.Staged > 0 {
			segments = append(segments, Segment{Text: ", ", Key: theme.KeyDirCounts})
		}
		segments = append(segments, Segment{Text: fmt.Sprintf("%d modified", summary.Modified), Key: theme.KeyModified})
	}
	return append(segments, Segment{Text: "}", Key: theme.KeyDirCounts})
}

func braced(segments ...Segment) []Segment {
	out := make([]Segment, 0, len(segments)+2)
	out = append(out, Segment{Text: "{"})
	out = append(out, segments...)
	return append(out, Segment{Text: "}"})
}
