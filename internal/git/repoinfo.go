package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/chmouel/gitls/internal/models"
)

// Exit codes git uses for "ref not found" style answers; those are absent
// data for us, never failures.
var refMissingCodes = []int{0, 1, 128}

// DescribeRepo resolves branch and upstream-tracking state for a directory
// that is a repository or submodule root. Submodule drift is resolved
// against the parent repository, so parentDir and name identify the gitlink
// entry there; both are ignored when isSubmodule is false.
func (s *Service) DescribeRepo(ctx context.Context, dir string, isSubmodule bool, parentDir, name string) *models.RepoInfo {
	info := &models.RepoInfo{IsSubmodule: isSubmodule}

	branch := s.RunGit(ctx, []string{"git", "symbolic-ref", "--quiet", "--short", "HEAD"}, dir, refMissingCodes, true, true)
	if branch == "" {
		// HEAD is not a symbolic ref: detached checkout.
		info.Relation = models.Relation{Kind: models.RelationDetached}
		short := s.RunGit(ctx, []string{"git", "rev-parse", "--short", "HEAD"}, dir, refMissingCodes, true, true)
		if short == "" {
			short = models.NoBranch
		}
		info.Branch = short
	} else {
		info.Branch = branch
		if s.RunGit(ctx, []string{"git", "rev-parse", "--quiet", "--verify", "HEAD"}, dir, refMissingCodes, true, true) == "" {
			// Freshly initialized repository: HEAD's target ref does not
			// exist yet, nothing to compare against.
			info.Relation = models.Relation{Kind: models.RelationNone}
		} else {
			info.Relation = s.resolveRelation(ctx, dir)
		}
	}

	if isSubmodule {
		info.WorktreeDrift = s.submoduleDrift(ctx, parentDir, dir, name, models.ScopeWorktree)
		info.IndexDrift = s.submoduleDrift(ctx, parentDir, dir, name, models.ScopeIndex)
	}

	return info
}

// resolveRelation computes the ahead/behind relation of HEAD against its
// upstream, falling back to the configured push destination.
func (s *Service) resolveRelation(ctx context.Context, dir string) models.Relation {
	upstream := s.RunGit(ctx, []string{"git", "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}"}, dir, refMissingCodes, true, true)
	if upstream == "" {
		upstream = s.RunGit(ctx, []string{"git", "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{push}"}, dir, refMissingCodes, true, true)
	}
	if upstream == "" {
		return models.Relation{Kind: models.RelationNoUpstream}
	}

	ahead, okA := s.countCommits(ctx, dir, upstream+"..HEAD")
	behind, okB := s.countCommits(ctx, dir, "HEAD.."+upstream)
	if !okA || !okB {
		return models.Relation{Kind: models.RelationNoUpstream}
	}

	switch {
	case ahead == 0 && behind == 0:
		return models.Relation{Kind: models.RelationClean}
	case ahead > 0 && behind > 0:
		return models.Relation{Kind: models.RelationAheadBehind, Ahead: ahead, Behind: behind}
	case ahead > 0:
		return models.Relation{Kind: models.RelationAhead, Ahead: ahead}
	default:
		return models.Relation{Kind: models.RelationBehind, Behind: behind}
	}
}

func (s *Service) countCommits(ctx context.Context, dir, revRange string) (uint, bool) {
	out := s.RunGit(ctx, []string{"git", "rev-list", "--count", revRange}, dir, refMissingCodes, true, true)
	if out == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(out, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// submoduleDrift resolves the old/new gitlink hashes for one scope and
// counts the movement inside the submodule's own graph. The index pass
// reads the raw diff; the worktree pass reads the patch diff's Subproject
// lines, because raw output reports the worktree gitlink hash as all zeros
// instead of hashing it. Worktree and index run as independent passes
// because both can drift at the same time.
func (s *Service) submoduleDrift(ctx context.Context, parentDir, subDir, name string, scope models.DiffScope) models.Drift {
	var oldHash, newHash string
	var ok bool
	if scope == models.ScopeIndex {
		raw := s.RunGit(ctx, []string{"git", "diff", "--raw", "--abbrev=40", "--no-ext-diff", "--cached", "--", name}, parentDir, []int{0, 1}, true, true)
		oldHash, newHash, ok = parseGitlinkHashes(raw)
	} else {
		raw := s.RunGit(ctx, []string{"git", "diff", "--patch", "--no-color", "--no-ext-diff", "--submodule=short", "--", name}, parentDir, []int{0, 1}, false, true)
		oldHash, newHash, ok = parseSubprojectHashes(raw)
	}
	if !ok || oldHash == newHash {
		return models.Drift{Kind: models.DriftNone}
	}
	if oldHash == "" {
		return models.Drift{Kind: models.DriftAdded}
	}
	if newHash == "" {
		return models.Drift{Kind: models.DriftNone}
	}

	forward, okF := s.countCommits(ctx, subDir, oldHash+".."+newHash)
	back, okB := s.countCommits(ctx, subDir, newHash+".."+oldHash)
	if !okF || !okB {
		return models.Drift{Kind: models.DriftNewRef}
	}

	switch {
	case forward > 0 && back == 0:
		return models.Drift{Kind: models.DriftForward, Count: forward}
	case back > 0 && forward == 0:
		return models.Drift{Kind: models.DriftBack, Count: back}
	default:
		// Equal hashes were ruled out above: the new hash cannot be placed
		// relative to the old one.
		return models.Drift{Kind: models.DriftNewRef}
	}
}

// parseGitlinkHashes pulls the old and new commit hashes out of a raw diff
// line for a gitlink entry (":160000 160000 <old> <new> M\tpath").
// All-zero hashes map to "".
func parseGitlinkHashes(raw string) (string, string, bool) {
	for line := range strings.SplitSeq(raw, "\n") {
		if !strings.HasPrefix(line, ":") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if fields[0] != ":160000" && fields[1] != "160000" {
			continue
		}
		oldHash := normalizeHash(fields[2])
		newHash := normalizeHash(fields[3])
		return oldHash, newHash, true
	}
	return "", "", false
}

// parseSubprojectHashes pulls the old and new commit hashes out of a patch
// diff for a gitlink entry ("-Subproject commit <old>" and "+Subproject
// commit <new>" hunk lines). A "-dirty" marker on the new hash is dropped;
// a missing old line means the gitlink is newly recorded.
func parseSubprojectHashes(raw string) (string, string, bool) {
	var oldHash, newHash string
	found := false
	for line := range strings.SplitSeq(raw, "\n") {
		if h, ok := strings.CutPrefix(line, "-Subproject commit "); ok {
			oldHash = strings.TrimSpace(h)
			found = true
			continue
		}
		if h, ok := strings.CutPrefix(line, "+Subproject commit "); ok {
			newHash = strings.TrimSuffix(strings.TrimSpace(h), "-dirty")
			found = true
		}
	}
	return oldHash, newHash, found
}

func normalizeHash(h string) string {
	h = strings.TrimSuffix(h, "...")
	if strings.Trim(h, "0") == "" {
		return ""
	}
	return h
}

// DirSummary aggregates staged/modified counts across every file under a
// plain subdirectory through one recursive status query. Untracked and
// ignored membership is intentionally not counted.
func (s *Service) DirSummary(ctx context.Context, parentDir, name string) models.DirSummary {
	var summary models.DirSummary

	raw := s.RunGit(ctx, []string{"git", "status", "--porcelain", "--", name}, parentDir, []int{0, 128}, false, true)
	for line := range strings.SplitSeq(raw, "\n") {
		code, _, ok := parsePorcelainLine(line)
		if !ok {
			continue
		}
		switch code.Index {
		case 'A', 'D', 'M', 'R', 'C':
			summary.Staged++
		}
		switch code.Worktree {
		case 'M', 'A', 'D':
			summary.Modified++
		}
	}

	return summary
}
