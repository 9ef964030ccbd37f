package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chmouel/gitls/internal/models"
	"github.com/chmouel/gitls/internal/theme"
)

// plain renders segments without colors so tests compare bare text.
func plain(segments []Segment) string {
	return Render(segments, theme.Default(false))
}

func code(s string) models.StatusCode {
	return models.ParseStatusCode(s)
}

func TestComposeFile(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		cached   models.LineDelta
		worktree models.LineDelta
		want     string
	}{
		{
			name: "untracked",
			code: "??",
			want: "{untracked}",
		},
		{
			name: "ignored",
			code: "!!",
			want: "{ignored}",
		},
		{
			name:   "staged with line count",
			code:   "M ",
			cached: models.LineDelta{Added: 5, Deleted: 2},
			want:   "{staged, 7 lines}",
		},
		{
			name:   "single line is singular",
			code:   "M ",
			cached: models.LineDelta{Added: 1},
			want:   "{staged, 1 line}",
		},
		{
			name:     "added plus modified locally",
			code:     "AM",
			worktree: models.LineDelta{Added: 1},
			want:     "{added+modified locally, 1 line}",
		},
		{
			name:     "staged and modified locally",
			code:     "MM",
			cached:   models.LineDelta{Added: 2},
			worktree: models.LineDelta{Deleted: 1},
			want:     "{staged, 2 lines+modified locally, 1 line}",
		},
		{
			name: "deleted locally",
			code: " D",
			want: "{deleted locally}",
		},
		{
			name: "staged deletion",
			code: "D ",
			want: "{deleted}",
		},
		{
			name: "renamed",
			code: "R ",
			want: "{renamed}",
		},
		{
			name:     "exec bit gained",
			code:     " M",
			worktree: models.LineDelta{ExecAdded: true},
			want:     "{modified locally, +x}",
		},
		{
			name:     "exec bit lost with lines",
			code:     " M",
			worktree: models.LineDelta{Added: 3, ExecRemoved: true},
			want:     "{modified locally, 3 lines, -x}",
		},
		{
			name: "both modified conflict",
			code: "UU",
			want: "{unmerged, both modified}",
		},
		{
			name: "deleted by them",
			code: "UD",
			want: "{unmerged, deleted by them}",
		},
		{
			name: "unknown sub-code escapes",
			code: "X ",
			want: `{\X}`,
		},
		{
			name: "clean is empty",
			code: "  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(ComposeFile(code(tt.code), tt.cached, tt.worktree))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeFileUnmergedAlwaysNamed(t *testing.T) {
	for conflict := range unmergedPhrases {
		got := plain(ComposeFile(code(conflict), models.LineDelta{}, models.LineDelta{}))
		assert.True(t, strings.HasPrefix(got, "{unmerged, "), "code %s rendered %q", conflict, got)
	}
}

func TestComposeDir(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		summary models.DirSummary
		want    string
	}{
		{"untracked dir", "??", models.DirSummary{}, "{untracked}"},
		{"ignored dir", "!!", models.DirSummary{}, "{ignored}"},
		{"clean dir", "  ", models.DirSummary{}, ""},
		{"staged only", "  ", models.DirSummary{Staged: 2}, "{2 staged}"},
		{"modified only", "  ", models.DirSummary{Modified: 3}, "{3 modified}"},
		{"both counts", "  ", models.DirSummary{Staged: 1, Modified: 4}, "{1 staged, 4 modified}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(ComposeDir(code(tt.code), tt.summary))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeRepo(t *testing.T) {
	tests := []struct {
		name    string
		info    models.RepoInfo
		summary models.DirSummary
		added   bool
		want    string
	}{
		{
			name: "clean repo",
			info: models.RepoInfo{Branch: "main", Relation: models.Relation{Kind: models.RelationClean}},
			want: "(main)",
		},
		{
			name: "empty repository",
			info: models.RepoInfo{Branch: "main", Relation: models.Relation{Kind: models.RelationNone}},
			want: "(main)",
		},
		{
			name: "ahead",
			info: models.RepoInfo{Branch: "main", Relation: models.Relation{Kind: models.RelationAhead, Ahead: 2}},
			want: "(main ahead 2)",
		},
		{
			name: "diverged",
			info: models.RepoInfo{Branch: "dev", Relation: models.Relation{Kind: models.RelationAheadBehind, Ahead: 1, Behind: 3}},
			want: "(dev ahead 1, behind 3)",
		},
		{
			name: "no upstream",
			info: models.RepoInfo{Branch: "local", Relation: models.Relation{Kind: models.RelationNoUpstream}},
			want: "(local no upstream)",
		},
		{
			name: "detached",
			info: models.RepoInfo{Branch: "deadbee", Relation: models.Relation{Kind: models.RelationDetached}},
			want: "(deadbee detached)",
		},
		{
			name: "submodule drifted forward",
			info: models.RepoInfo{
				Branch:        "main",
				Relation:      models.Relation{Kind: models.RelationAhead, Ahead: 2},
				IsSubmodule:   true,
				WorktreeDrift: models.Drift{Kind: models.DriftForward, Count: 3},
				IndexDrift:    models.Drift{Kind: models.DriftBack, Count: 1},
			},
			want: "(main ahead 2, 3 forward, staged 1 back)",
		},
		{
			name: "new ref drift",
			info: models.RepoInfo{
				Branch:        "main",
				Relation:      models.Relation{Kind: models.RelationClean},
				IsSubmodule:   true,
				WorktreeDrift: models.Drift{Kind: models.DriftNewRef},
			},
			want: "(main new ref)",
		},
		{
			name:  "freshly staged submodule",
			info:  models.RepoInfo{Branch: "main", Relation: models.Relation{Kind: models.RelationClean}, IsSubmodule: true},
			added: true,
			want:  "(main added)",
		},
		{
			name:    "dirty contents",
			info:    models.RepoInfo{Branch: "main", Relation: models.Relation{Kind: models.RelationClean}},
			summary: models.DirSummary{Staged: 1, Modified: 2},
			want:    "(main) {1 staged, 2 modified}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plain(ComposeRepo(&tt.info, tt.summary, tt.added))
			assert.Equal(t, tt.want, got)
		})
	}
}
