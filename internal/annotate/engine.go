package annotate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chmouel/gitls/internal/config"
	"github.com/chmouel/gitls/internal/git"
	"github.com/chmouel/gitls/internal/lister"
	"github.com/chmouel/gitls/internal/models"
	"github.com/chmouel/gitls/internal/theme"
)

// NestingState controls whether directory entries are recursed into.
// Negative means unlimited, zero disabled, positive a remaining level count.
type NestingState int

// Nesting states.
const (
	NestingDisabled  NestingState = 0
	NestingUnlimited NestingState = -1
)

// NestingLimited returns a state allowing n levels of descent.
func NestingLimited(n int) NestingState {
	if n < 0 {
		return NestingUnlimited
	}
	return NestingState(n)
}

// Child returns the state passed to a nested listing and whether recursion
// happens at all. The last limited level still lists once more, then stops.
func (n NestingState) Child() (NestingState, bool) {
	switch {
	case n == NestingUnlimited:
		return NestingUnlimited, true
	case n > 1:
		return n - 1, true
	case n == 1:
		return NestingDisabled, true
	}
	return NestingDisabled, false
}

// indentStep is the margin added per nesting level.
const indentStep = "  "

// gap is the fixed spacing between the widest listing line and the labels.
const gap = 2

// Engine runs the full listing/annotation pipeline over directories.
type Engine struct {
	cfg   *config.AppConfig
	th    *theme.Theme
	svc   *git.Service
	lst   *lister.Lister
	out   io.Writer
	limit int
}

// NewEngine wires the pipeline together. All collaborators are injected;
// the engine owns no global state.
func NewEngine(cfg *config.AppConfig, th *theme.Theme, svc *git.Service, lst *lister.Lister, out io.Writer) *Engine {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}
	return &Engine{cfg: cfg, th: th, svc: svc, lst: lst, out: out, limit: limit}
}

// section is one run of listing lines sharing a directory (and therefore a
// status index and an alignment width).
type section struct {
	dir      string
	fileDirs map[string]string // per-entry dirs for explicit file targets
	parsed   []lister.Parsed
}

// Run lists the targets, annotates every entry and recurses into
// subdirectories according to nest. It returns the worst exit code seen.
func (e *Engine) Run(ctx context.Context, targets []string, nest NestingState, indent int) int {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	mode := e.lst.Mode()
	if mode.DirsPlain || mode.Recursive {
		// The listing tool already flattens or recurses on its own.
		nest = NestingDisabled
	}

	lines, exitCode := e.lst.List(ctx, targets)
	headerAware := len(targets) > 1 || mode.Recursive

	for _, sec := range e.splitSections(lines, targets, mode, headerAware) {
		code := e.annotateSection(ctx, sec, nest, indent)
		exitCode = worstCode(exitCode, code)
	}

	return exitCode
}

// splitSections groups listing output into per-directory batches, starting
// a fresh one at every "<path>:" header so alignment restarts per directory.
func (e *Engine) splitSections(lines []string, targets []string, mode lister.Mode, headerAware bool) []*section {
	first := &section{dir: "."}
	if len(targets) == 1 {
		if info, err := os.Stat(targets[0]); err == nil && info.IsDir() {
			first.dir = targets[0]
		} else {
			first.dir = filepath.Dir(targets[0])
		}
	} else {
		// Entries before the first header are the explicit file targets;
		// each one resolves its status against its own parent directory.
		first.fileDirs = make(map[string]string, len(targets))
		for _, target := range targets {
			leaf := filepath.Base(target)
			first.fileDirs[leaf] = filepath.Dir(target)
		}
	}

	sections := []*section{first}
	current := first
	for _, line := range lines {
		parsed := lister.ParseLine(line, mode, headerAware)
		if parsed.Kind == lister.KindHeader {
			current = &section{dir: parsed.HeaderPath}
			current.parsed = append(current.parsed, parsed)
			sections = append(sections, current)
			continue
		}
		current.parsed = append(current.parsed, parsed)
	}
	return sections
}

// annotation is the computed result for one section line.
type annotation struct {
	label     string
	recurse   bool
	childPath string
}

func (e *Engine) annotateSection(ctx context.Context, sec *section, nest NestingState, indent int) int {
	var entryLines []string
	for _, parsed := range sec.parsed {
		if parsed.Kind == lister.KindEntry {
			entryLines = append(entryLines, parsed.Line)
		}
	}
	width := MaxVisibleWidth(entryLines, e.cfg.TabWidth)

	var index git.StatusIndex
	if sec.fileDirs == nil {
		index = e.svc.NewBatchIndex(ctx, sec.dir)
	}

	childNest, recurseOK := nest.Child()

	results := make([]annotation, len(sec.parsed))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.limit)
	for i, parsed := range sec.parsed {
		if parsed.Kind != lister.KindEntry {
			continue
		}
		group.Go(func() error {
			results[i] = e.annotateEntry(groupCtx, sec, parsed.Entry, index, recurseOK)
			return nil
		})
	}
	_ = group.Wait()

	exitCode := 0
	prefix := strings.Repeat(indentStep, indent)
	for i, parsed := range sec.parsed {
		result := results[i]
		if parsed.Kind == lister.KindEntry && result.label != "" {
			pad := width - VisibleWidth(parsed.Line, e.cfg.TabWidth) + gap
			fmt.Fprintf(e.out, "%s%s%s%s\n", prefix, parsed.Line, strings.Repeat(" ", pad), result.label)
		} else {
			fmt.Fprintf(e.out, "%s%s\n", prefix, parsed.Line)
		}
		if result.recurse {
			code := e.Run(ctx, []string{result.childPath}, childNest, indent+1)
			exitCode = worstCode(exitCode, code)
		}
	}

	return exitCode
}

// annotateEntry resolves the status of one entry and composes its label.
// Parent/self entries are never status-checked.
func (e *Engine) annotateEntry(ctx context.Context, sec *section, entry models.Entry, index git.StatusIndex, recurseOK bool) annotation {
	if entry.Name == "." || entry.Name == ".." {
		return annotation{}
	}

	dir := sec.dir
	if sec.fileDirs != nil {
		if d, ok := sec.fileDirs[entry.Name]; ok {
			dir = d
		}
		index = e.svc.NewPerFileIndex(dir)
	}

	full := filepath.Join(dir, entry.Name)
	info, err := os.Lstat(full)
	isDir := err == nil && info.IsDir() && !entry.IsSymlink

	if !isDir {
		return annotation{label: e.fileLabel(ctx, dir, entry.Name, index)}
	}

	result := annotation{}
	if recurseOK {
		result.recurse = true
		result.childPath = full
	}

	gitMeta, err := os.Stat(filepath.Join(full, ".git"))
	if err == nil {
		isSubmodule := !gitMeta.IsDir()
		result.label = e.repoLabel(ctx, dir, full, entry.Name, isSubmodule, index)
		return result
	}

	result.label = e.dirLabel(ctx, dir, entry.Name, index)
	return result
}

func (e *Engine) fileLabel(ctx context.Context, dir, name string, index git.StatusIndex) string {
	status, ok := index.Lookup(ctx, name)
	if !ok || status.Code.Clean() {
		return ""
	}

	var cached, worktree models.LineDelta
	if status.Code.Index == 'M' {
		cached = e.svc.Summarize(ctx, dir, name, models.ScopeIndex)
	}
	if status.Code.Worktree == 'M' {
		worktree = e.svc.Summarize(ctx, dir, name, models.ScopeWorktree)
	}

	return Render(ComposeFile(status.Code, cached, worktree), e.th)
}

func (e *Engine) dirLabel(ctx context.Context, dir, name string, index git.StatusIndex) string {
	status, _ := index.Lookup(ctx, name)
	if code := status.Code.String(); code == "??" || code == "!!" {
		return Render(ComposeDir(status.Code, models.DirSummary{}), e.th)
	}

	summary := e.svc.DirSummary(ctx, dir, name)
	return Render(ComposeDir(status.Code, summary), e.th)
}

func (e *Engine) repoLabel(ctx context.Context, parentDir, full, name string, isSubmodule bool, index git.StatusIndex) string {
	repo := e.svc.DescribeRepo(ctx, full, isSubmodule, parentDir, name)

	summary := e.svc.DirSummary(ctx, full, ".")

	added := false
	if isSubmodule {
		if status, ok := index.Lookup(ctx, name); ok && status.Code.Index == 'A' {
			added = true
		}
	}

	return Render(ComposeRepo(repo, summary, added), e.th)
}

func worstCode(a, b int) int {
	if b > a {
		return b
	}
	return a
}
