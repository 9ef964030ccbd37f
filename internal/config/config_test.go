package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withGitConfigMock(t *testing.T, mock func(args []string, repoPath string) (string, error)) {
	t.Helper()
	gitConfigMock = mock
	t.Cleanup(func() { gitConfigMock = nil })
}

func noGitConfig(t *testing.T) {
	t.Helper()
	withGitConfigMock(t, func(_ []string, _ string) (string, error) {
		return "", nil
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ls", cfg.ListingCommand)
	assert.Empty(t, cfg.ListingArgs)
	assert.Equal(t, 0, cfg.NestDepth)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, 8, cfg.TabWidth)
	assert.Equal(t, 600, cfg.WatchDebounce)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		noGitConfig(t)
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "ls", cfg.ListingCommand)
	})

	t.Run("yaml values applied", func(t *testing.T) {
		noGitConfig(t)
		path := writeConfigFile(t, `
listing_command: eza
listing_args: "-l --group-directories-first"
nest_depth: 2
color: never
tab_width: 4
watch_debounce_ms: 250
colors:
  branch: "4"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "eza", cfg.ListingCommand)
		assert.Equal(t, []string{"-l", "--group-directories-first"}, cfg.ListingArgs)
		assert.Equal(t, 2, cfg.NestDepth)
		assert.Equal(t, ColorNever, cfg.Color)
		assert.Equal(t, 4, cfg.TabWidth)
		assert.Equal(t, 250, cfg.WatchDebounce)
		assert.Equal(t, "4", cfg.Colors["branch"])
	})

	t.Run("list style listing_args", func(t *testing.T) {
		noGitConfig(t)
		path := writeConfigFile(t, `
listing_args:
  - "-l"
  - "--all"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"-l", "--all"}, cfg.ListingArgs)
	})

	t.Run("invalid yaml returns error with defaults", func(t *testing.T) {
		noGitConfig(t)
		path := writeConfigFile(t, "listing_command: [broken")
		cfg, err := LoadConfig(path)
		assert.Error(t, err)
		assert.Equal(t, "ls", cfg.ListingCommand)
	})

	t.Run("git config overrides yaml", func(t *testing.T) {
		withGitConfigMock(t, func(args []string, _ string) (string, error) {
			for _, arg := range args {
				if arg == "--global" {
					return "gitls.listing_command lsd\ngitls.color_staged 10\n", nil
				}
			}
			return "", nil
		})
		path := writeConfigFile(t, "listing_command: eza\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "lsd", cfg.ListingCommand)
		assert.Equal(t, "10", cfg.Colors["staged"])
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		noGitConfig(t)
		path := writeConfigFile(t, "future_option: whatever\nnest_depth: 1\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.NestDepth)
	})
}

func TestApplyCLIOverrides(t *testing.T) {
	t.Run("valid overrides win", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyCLIOverrides([]string{
			"gitls.nest_depth=5",
			"gitls.listing_command=eza",
			"gitls.color_branch=12",
		})
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.NestDepth)
		assert.Equal(t, "eza", cfg.ListingCommand)
		assert.Equal(t, "12", cfg.Colors["branch"])
	})

	t.Run("repeated listing_args append", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyCLIOverrides([]string{
			"gitls.listing_args=-l",
			"gitls.listing_args=--all",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"-l", "--all"}, cfg.ListingArgs)
	})

	t.Run("missing equals sign", func(t *testing.T) {
		err := DefaultConfig().ApplyCLIOverrides([]string{"gitls.nest_depth 5"})
		assert.Error(t, err)
	})

	t.Run("missing prefix", func(t *testing.T) {
		err := DefaultConfig().ApplyCLIOverrides([]string{"nest_depth=5"})
		assert.Error(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		err := DefaultConfig().ApplyCLIOverrides([]string{"gitls.=5"})
		assert.Error(t, err)
	})
}

func TestNormalizeColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"yes", ColorAlways},
		{"force", ColorAlways},
		{"never", ColorNever},
		{"no", ColorNever},
		{"none", ColorNever},
		{" Always ", ColorAlways},
		{"bogus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeColorMode(tt.input))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	assert.Equal(t, 3, coerceInt(3, 0))
	assert.Equal(t, 3, coerceInt("3", 0))
	assert.Equal(t, -1, coerceInt("-1", 0))
	assert.Equal(t, 7, coerceInt("junk", 7))
	assert.Equal(t, 7, coerceInt("", 7))
	assert.Equal(t, 7, coerceInt(nil, 7))
	assert.Equal(t, 7, coerceInt(true, 7))
}

func TestNormalizeArgsList(t *testing.T) {
	assert.Equal(t, []string{"-l", "-a"}, normalizeArgsList("-l -a"))
	assert.Equal(t, []string{"-l"}, normalizeArgsList([]any{"-l", nil, " "}))
	assert.Empty(t, normalizeArgsList(""))
	assert.Empty(t, normalizeArgsList(nil))
	assert.Empty(t, normalizeArgsList(42))
}
