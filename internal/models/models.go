// Package models defines the data objects shared across gitls packages.
package models

// Entry is one filesystem object taken from a single listing line.
type Entry struct {
	Name       string // final path component, never contains a separator
	RawLine    string // original line, may contain ANSI color escapes
	TypeSuffix byte   // classify marker stripped from the name, 0 if none
	IsSymlink  bool   // inferred from the "->" arrow in the raw line
}

// StatusCode is the two-character index/worktree code reported by
// git status --porcelain for one path. The zero value means clean:
// a missing status entry and an explicit "  " code are equivalent.
type StatusCode struct {
	Index    byte
	Worktree byte
}

// Clean reports whether both columns carry no state.
func (c StatusCode) Clean() bool {
	return (c.Index == 0 || c.Index == ' ') && (c.Worktree == 0 || c.Worktree == ' ')
}

// String renders the code back to its two-character porcelain form.
func (c StatusCode) String() string {
	x, y := c.Index, c.Worktree
	if x == 0 {
		x = ' '
	}
	if y == 0 {
		y = ' '
	}
	return string([]byte{x, y})
}

// ParseStatusCode builds a StatusCode from the first two characters of a
// porcelain status line.
func ParseStatusCode(s string) StatusCode {
	code := StatusCode{Index: ' ', Worktree: ' '}
	if len(s) > 0 {
		code.Index = s[0]
	}
	if len(s) > 1 {
		code.Worktree = s[1]
	}
	return code
}

// StatusEntry is one parsed porcelain status line, keyed by leaf name in a
// StatusIndex. Raw keeps the unparsed line for shapes that need it (renames).
type StatusEntry struct {
	Code StatusCode
	Raw  string
}

// DiffScope selects which comparison a line-change summary is taken from.
type DiffScope int

const (
	// ScopeWorktree compares the working tree against the index.
	ScopeWorktree DiffScope = iota
	// ScopeIndex compares the index against HEAD.
	ScopeIndex
)

// LineDelta is the added/deleted line count and mode-change summary for one
// file in one scope.
type LineDelta struct {
	Added       uint
	Deleted     uint
	ExecAdded   bool
	ExecRemoved bool
}

// Total returns the combined line count of the delta.
func (d LineDelta) Total() uint { return d.Added + d.Deleted }

// RelationKind describes how a branch relates to its upstream.
type RelationKind int

const (
	// RelationNone means no relation was computed (empty repository).
	RelationNone RelationKind = iota
	// RelationClean means the branch matches its upstream.
	RelationClean
	// RelationAhead means local commits are not on the upstream.
	RelationAhead
	// RelationBehind means upstream commits are not local.
	RelationBehind
	// RelationAheadBehind means the branch and upstream diverged.
	RelationAheadBehind
	// RelationNoUpstream means no upstream or push ref is configured.
	RelationNoUpstream
	// RelationDetached means HEAD points directly at a commit.
	RelationDetached
)

// Relation is the upstream-tracking state of a repository's HEAD branch.
type Relation struct {
	Kind   RelationKind
	Ahead  uint
	Behind uint
}

// DriftKind describes how a submodule's recorded commit moved.
type DriftKind int

const (
	// DriftNone means the recorded hashes are absent or equal.
	DriftNone DriftKind = iota
	// DriftAdded means the submodule is newly recorded (no old hash).
	DriftAdded
	// DriftForward means the new hash is ahead of the old one.
	DriftForward
	// DriftBack means the new hash is behind the old one.
	DriftBack
	// DriftNewRef means the hashes differ but cannot be related.
	DriftNewRef
)

// Drift is the submodule commit movement for one scope. Forward and back
// counts are never both non-zero in the same resolution pass.
type Drift struct {
	Kind  DriftKind
	Count uint
}

// DirSummary aggregates the status of files under a plain subdirectory.
// Untracked/ignored membership is deliberately not counted here.
type DirSummary struct {
	Staged   uint
	Modified uint
}

// Empty reports whether the summary carries no counts.
func (s DirSummary) Empty() bool { return s.Staged == 0 && s.Modified == 0 }

// RepoInfo describes a directory that is a repository or submodule root.
// Relation and drift are independent axes; both may be present.
type RepoInfo struct {
	Branch        string // "<no-branch>" when unresolvable
	Relation      Relation
	IsSubmodule   bool
	WorktreeDrift Drift
	IndexDrift    Drift
}

// NoBranch is the sentinel branch name used when HEAD cannot be resolved.
const NoBranch = "<no-branch>"
