package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitConfigOutput(t *testing.T) {
	t.Run("simple keys", func(t *testing.T) {
		got := parseGitConfigOutput("gitls.listing_command eza\ngitls.nest_depth 2\n")
		assert.Equal(t, "eza", got["listing_command"])
		assert.Equal(t, "2", got["nest_depth"])
	})

	t.Run("value with spaces kept intact", func(t *testing.T) {
		got := parseGitConfigOutput("gitls.listing_command ls --color=always\n")
		assert.Equal(t, "ls --color=always", got["listing_command"])
	})

	t.Run("repeated listing_args accumulate", func(t *testing.T) {
		got := parseGitConfigOutput("gitls.listing_args -l\ngitls.listing_args --all\n")
		require.IsType(t, []any{}, got["listing_args"])
		assert.Equal(t, []any{"-l", "--all"}, got["listing_args"])
	})

	t.Run("repeated scalar keeps last", func(t *testing.T) {
		got := parseGitConfigOutput("gitls.nest_depth 1\ngitls.nest_depth 3\n")
		assert.Equal(t, "3", got["nest_depth"])
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, parseGitConfigOutput(""))
	})

	t.Run("malformed lines skipped", func(t *testing.T) {
		got := parseGitConfigOutput("nonsense\ngitls.color never\n")
		assert.Len(t, got, 1)
		assert.Equal(t, "never", got["color"])
	})
}

func TestLoadGitConfig(t *testing.T) {
	t.Run("global scope", func(t *testing.T) {
		var gotArgs []string
		withGitConfigMock(t, func(args []string, _ string) (string, error) {
			gotArgs = args
			return "gitls.color always\n", nil
		})

		got, err := loadGitConfig(true, "")
		require.NoError(t, err)
		assert.Contains(t, gotArgs, "--global")
		assert.Equal(t, "always", got["color"])
	})

	t.Run("local scope needs a repo path", func(t *testing.T) {
		withGitConfigMock(t, func(_ []string, _ string) (string, error) {
			t.Fatal("git config must not run without a repo path")
			return "", nil
		})

		got, err := loadGitConfig(false, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("local scope uses repo path", func(t *testing.T) {
		var gotPath string
		withGitConfigMock(t, func(args []string, repoPath string) (string, error) {
			gotPath = repoPath
			assert.Contains(t, args, "--local")
			return "", nil
		})

		_, err := loadGitConfig(false, "/some/repo")
		require.NoError(t, err)
		assert.Equal(t, "/some/repo", gotPath)
	})

	t.Run("git errors propagate", func(t *testing.T) {
		withGitConfigMock(t, func(_ []string, _ string) (string, error) {
			return "", errors.New("git not found")
		})

		_, err := loadGitConfig(true, "")
		assert.Error(t, err)
	})
}
