// Package git wraps the git command line for gitls. Everything here is
// read-only: status, diff and ref queries only, never state mutation.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	log "github.com/chmouel/gitls/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries.
var LookupPath = exec.LookPath

// RunMock allows tests to intercept git invocations. It receives the full
// argument list and working directory and returns stdout plus an exit code.
var RunMock func(args []string, cwd string) (string, int)

// WarnFn receives soft warnings about malformed collaborator output.
type WarnFn func(message string)

// Service orchestrates git queries for the annotation pipeline.
type Service struct {
	warn WarnFn
}

// NewService constructs a Service. warn may be nil.
func NewService(warn WarnFn) *Service {
	return &Service{warn: warn}
}

// Warnf reports a soft warning through the warn callback, if any.
func (s *Service) Warnf(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Printf("warn: %s", message)
	if s.warn != nil {
		s.warn(message)
	}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareGitCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 || args[0] != "git" {
		return nil, fmt.Errorf("unsupported command %q", strings.Join(args, " "))
	}
	// #nosec G204 -- arguments for git come from internal logic and are not shell interpolated
	return exec.CommandContext(ctx, "git", args[1:]...), nil
}

// RunGit executes a git command and optionally trims its output. A failure
// with an exit code outside okReturncodes yields "" (absent data); the
// pipeline never aborts because one query failed.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int, strip, silent bool) string {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	if RunMock != nil {
		out, code := RunMock(args, cwd)
		if code != 0 && !slices.Contains(okReturncodes, code) {
			return ""
		}
		if strip {
			out = strings.TrimSpace(out)
		}
		return out
	}

	cmd, err := prepareGitCommand(ctx, args)
	if err != nil {
		s.debugf("error: %v", err)
		return ""
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			returnCode := exitError.ExitCode()
			if !slices.Contains(okReturncodes, returnCode) {
				if silent {
					s.debugf("error: %s (exit %d, silenced)", command, returnCode)
					return ""
				}
				stderr := strings.TrimSpace(string(exitError.Stderr))
				if stderr == "" {
					stderr = fmt.Sprintf("exit %d", returnCode)
				}
				s.Warnf("%s: %s", command, stderr)
				return ""
			}
		} else {
			if !silent {
				s.Warnf("command not found: %s", args[0])
			}
			return ""
		}
	}

	out := string(output)
	if strip {
		out = strings.TrimSpace(out)
	}
	s.debugf("ok: %s", command)
	return out
}

// IsInsideWorkTree reports whether dir belongs to a git working tree.
func (s *Service) IsInsideWorkTree(ctx context.Context, dir string) bool {
	out := s.RunGit(ctx, []string{"git", "rev-parse", "--is-inside-work-tree"}, dir, []int{0}, true, true)
	return out == "true"
}

// ShowPrefix returns dir's path relative to the repository root, with a
// trailing slash, or "" at the root (and for non-repositories).
func (s *Service) ShowPrefix(ctx context.Context, dir string) string {
	return s.RunGit(ctx, []string{"git", "rev-parse", "--show-prefix"}, dir, []int{0}, true, true)
}
