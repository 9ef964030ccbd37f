package git

import (
	"context"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/chmouel/gitls/internal/models"
)

const execBits = 0o111

// Summarize computes the added/deleted line delta and the executable-bit
// mode change for one file in one scope. ScopeIndex compares the index
// against HEAD, ScopeWorktree the working tree against the index. A missing
// diff (pure rename, gitlink) yields a zero delta, not an error.
func (s *Service) Summarize(ctx context.Context, dir, name string, scope models.DiffScope) models.LineDelta {
	args := []string{"git", "diff", "--patch", "--no-color", "--no-ext-diff"}
	if scope == models.ScopeIndex {
		args = append(args, "--cached")
	}
	args = append(args, "--", name)

	raw := s.RunGit(ctx, args, dir, []int{0, 1}, false, true)
	if strings.TrimSpace(raw) == "" {
		return models.LineDelta{}
	}

	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		s.Warnf("unparseable diff for %s: %v", name, err)
		return models.LineDelta{}
	}

	var delta models.LineDelta
	for _, file := range files {
		for _, fragment := range file.TextFragments {
			delta.Added += uint(fragment.LinesAdded)
			delta.Deleted += uint(fragment.LinesDeleted)
		}
		if file.OldMode != 0 && file.NewMode != 0 && (file.OldMode^file.NewMode)&execBits != 0 {
			if file.NewMode&execBits != 0 {
				delta.ExecAdded = true
			} else {
				delta.ExecRemoved = true
			}
		}
	}
	return delta
}
