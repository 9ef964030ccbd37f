package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into a key/value map.
// Input format: "gitls.listing_command eza\ngitls.nest_depth 2\n".
// Repeated keys keep their last value except listing_args, which appends.
func parseGitConfigOutput(output string) map[string]any {
	configMap := make(map[string]any)
	if output == "" {
		return configMap
	}

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// SplitN with 2 keeps values containing spaces intact.
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "gitls.")
		value := parts[1]

		if key == "listing_args" {
			if prev, ok := configMap[key].([]any); ok {
				configMap[key] = append(prev, value)
				continue
			}
			configMap[key] = []any{value}
			continue
		}
		configMap[key] = value
	}

	return configMap
}

// loadGitConfig reads gitls.* git config values for one scope.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config", "--get-regexp", "^gitls\\."}

	if globalOnly {
		args = append(args, "--global")
	} else {
		if repoPath == "" {
			return map[string]any{}, nil
		}
		args = append(args, "--local")
	}

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		return nil, err
	}

	return parseGitConfigOutput(output), nil
}

// isInGitRepo checks whether path is inside a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns the repo path for local git config lookup.
func determineRepoPath() string {
	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}
	return ""
}

// parseCLIConfigOverrides parses --config=gitls.key=value overrides into a
// map suitable for applyConfigMap.
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		parts := strings.SplitN(override, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config override: %q, expected format: gitls.key=value (note: use = not space)", override)
		}

		fullKey := parts[0]
		value := parts[1]

		if !strings.HasPrefix(fullKey, "gitls.") {
			return nil, fmt.Errorf("config override key must start with 'gitls.': %q", fullKey)
		}

		key := strings.TrimPrefix(fullKey, "gitls.")
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}

		if key == "listing_args" {
			if prev, ok := result[key].([]any); ok {
				result[key] = append(prev, value)
				continue
			}
			result[key] = []any{value}
			continue
		}
		result[key] = value
	}

	return result, nil
}
