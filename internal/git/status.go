package git

import (
	"context"
	"strings"

	"github.com/chmouel/gitls/internal/models"
)

// StatusIndex resolves porcelain status codes by leaf name, scoped to one
// directory listing pass. Absence of an entry means clean.
type StatusIndex interface {
	Lookup(ctx context.Context, name string) (models.StatusEntry, bool)
}

// BatchIndex answers lookups from a single status query over the whole
// directory, built once per listing pass and read-only afterwards.
type BatchIndex struct {
	entries map[string]models.StatusEntry
}

// NewBatchIndex queries the status of every entry under dir (tracked,
// untracked and ignored) and builds the name lookup. Outside a working tree
// the index is empty, never an error.
func (s *Service) NewBatchIndex(ctx context.Context, dir string) *BatchIndex {
	idx := &BatchIndex{entries: make(map[string]models.StatusEntry)}

	if !s.IsInsideWorkTree(ctx, dir) {
		return idx
	}

	prefix := s.ShowPrefix(ctx, dir)
	raw := s.RunGit(ctx, []string{"git", "status", "--porcelain", "--ignored", "--", "."}, dir, []int{0}, false, true)
	for line := range strings.SplitSeq(raw, "\n") {
		code, name, ok := parsePorcelainLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				s.Warnf("unparseable status line: %q", line)
			}
			continue
		}
		leaf, ok := leafUnderPrefix(name, prefix)
		if !ok {
			continue
		}
		idx.entries[leaf] = models.StatusEntry{Code: code, Raw: line}
	}

	return idx
}

// Lookup returns the status entry recorded for name.
func (b *BatchIndex) Lookup(_ context.Context, name string) (models.StatusEntry, bool) {
	entry, ok := b.entries[name]
	return entry, ok
}

// Len returns the number of indexed entries.
func (b *BatchIndex) Len() int { return len(b.entries) }

// PerFileIndex is the fallback backend: one status query per looked-up
// path. Functionally equivalent to BatchIndex at O(n) process cost.
type PerFileIndex struct {
	svc *Service
	dir string
}

// NewPerFileIndex builds the per-file fallback index for dir.
func (s *Service) NewPerFileIndex(dir string) *PerFileIndex {
	return &PerFileIndex{svc: s, dir: dir}
}

// Lookup queries the status of a single path.
func (p *PerFileIndex) Lookup(ctx context.Context, name string) (models.StatusEntry, bool) {
	raw := p.svc.RunGit(ctx, []string{"git", "status", "--porcelain", "--ignored", "--", name}, p.dir, []int{0, 128}, false, true)
	for line := range strings.SplitSeq(raw, "\n") {
		code, _, ok := parsePorcelainLine(line)
		if !ok {
			continue
		}
		return models.StatusEntry{Code: code, Raw: line}, true
	}
	return models.StatusEntry{}, false
}

// parsePorcelainLine splits one porcelain v1 status line into its code and
// path. Renamed lines ("R  old -> new") reduce to the new path.
func parsePorcelainLine(line string) (models.StatusCode, string, bool) {
	if len(line) < 4 || line[2] != ' ' {
		return models.StatusCode{}, "", false
	}

	code := models.ParseStatusCode(line[:2])
	name := line[3:]

	if i := strings.Index(name, " -> "); i >= 0 && (code.Index == 'R' || code.Index == 'C') {
		name = name[i+len(" -> "):]
	}

	name = unquoteGitPath(name)
	if name == "" {
		return models.StatusCode{}, "", false
	}
	return code, name, true
}

// leafUnderPrefix trims the repo-relative prefix from a status path and
// returns the direct-child component. Deeper paths and paths outside the
// prefix are rejected; a trailing slash (untracked/ignored directory entry)
// is dropped.
func leafUnderPrefix(name, prefix string) (string, bool) {
	if prefix != "" {
		trimmed, ok := strings.CutPrefix(name, prefix)
		if !ok {
			return "", false
		}
		name = trimmed
	}
	name = strings.TrimSuffix(name, "/")
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// unquoteGitPath undoes git's C-style path quoting ("a\"b\\c", \t, \n).
// Unquoted input passes through unchanged.
func unquoteGitPath(name string) string {
	if len(name) < 2 || name[0] != '"' || name[len(name)-1] != '"' {
		return name
	}

	var b strings.Builder
	escaped := false
	for i := 1; i < len(name)-1; i++ {
		c := name[i]
		if escaped {
			switch c {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
			}
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
