package lister

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withListMock(t *testing.T, mock func(args []string, targets []string) (string, int)) {
	t.Helper()
	RunMock = mock
	t.Cleanup(func() { RunMock = nil })
}

func TestSanitizeSwitches(t *testing.T) {
	tests := []struct {
		name     string
		switches []string
		want     []string
		wantMode Mode
	}{
		{
			name:     "empty",
			switches: nil,
			want:     []string{},
		},
		{
			name:     "long cluster",
			switches: []string{"-la"},
			want:     []string{"-la"},
			wantMode: Mode{Long: true},
		},
		{
			name:     "classify short",
			switches: []string{"-F"},
			want:     []string{"-F"},
			wantMode: Mode{Classify: true},
		},
		{
			name:     "classify long option",
			switches: []string{"--classify"},
			want:     []string{"--classify"},
			wantMode: Mode{Classify: true},
		},
		{
			name:     "file-type",
			switches: []string{"--file-type"},
			want:     []string{"--file-type"},
			wantMode: Mode{Classify: true},
		},
		{
			name:     "slash only",
			switches: []string{"-p"},
			want:     []string{"-p"},
			wantMode: Mode{SlashOnly: true},
		},
		{
			name:     "quote name",
			switches: []string{"-Q"},
			want:     []string{"-Q"},
			wantMode: Mode{Quoted: true},
		},
		{
			name:     "literal unsets quoting",
			switches: []string{"-Q", "-N"},
			want:     []string{"-Q", "-N"},
			wantMode: Mode{},
		},
		{
			name:     "recursive",
			switches: []string{"-R"},
			want:     []string{"-R"},
			wantMode: Mode{Recursive: true},
		},
		{
			name:     "directory",
			switches: []string{"-d"},
			want:     []string{"-d"},
			wantMode: Mode{DirsPlain: true},
		},
		{
			name:     "columns dropped from cluster",
			switches: []string{"-lC"},
			want:     []string{"-l"},
			wantMode: Mode{Long: true},
		},
		{
			name:     "pure column cluster dropped entirely",
			switches: []string{"-C"},
			want:     []string{},
		},
		{
			name:     "dired dropped",
			switches: []string{"--dired", "-l"},
			want:     []string{"-l"},
			wantMode: Mode{Long: true},
		},
		{
			name:     "incompatible format dropped",
			switches: []string{"--format=across"},
			want:     []string{},
		},
		{
			name:     "long format kept",
			switches: []string{"--format=long"},
			want:     []string{"--format=long"},
			wantMode: Mode{Long: true},
		},
		{
			name:     "unknown long option passes through",
			switches: []string{"--group-directories-first"},
			want:     []string{"--group-directories-first"},
		},
		{
			name:     "numeric long variant",
			switches: []string{"-n"},
			want:     []string{"-n"},
			wantMode: Mode{Long: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mode := sanitizeSwitches(tt.switches)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults to ls with single column", func(t *testing.T) {
		l := New("", nil, false)
		assert.Equal(t, "ls", l.command)
		assert.Contains(t, l.switches, "-1")
		assert.Contains(t, l.switches, "--color=never")
	})

	t.Run("long format skips single column", func(t *testing.T) {
		l := New("ls", []string{"-l"}, true)
		assert.NotContains(t, l.switches, "-1")
		assert.Contains(t, l.switches, "--color=always")
		assert.True(t, l.Mode().Long)
	})

	t.Run("custom command", func(t *testing.T) {
		l := New("eza", []string{"-F"}, false)
		assert.Equal(t, "eza", l.command)
		assert.True(t, l.Mode().Classify)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("splits output lines", func(t *testing.T) {
		withListMock(t, func(_ []string, _ []string) (string, int) {
			return "a.txt\nb.txt\nsub\n", 0
		})

		lines, code := New("ls", nil, false).List(ctx, []string{"."})
		assert.Equal(t, 0, code)
		assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, lines)
	})

	t.Run("partial output on failure is kept", func(t *testing.T) {
		withListMock(t, func(_ []string, _ []string) (string, int) {
			return "a.txt\n", 2
		})

		lines, code := New("ls", nil, false).List(ctx, []string{".", "missing"})
		assert.Equal(t, 2, code)
		assert.Equal(t, []string{"a.txt"}, lines)
	})

	t.Run("empty output", func(t *testing.T) {
		withListMock(t, func(_ []string, _ []string) (string, int) {
			return "", 0
		})

		lines, code := New("ls", nil, false).List(ctx, []string{"empty"})
		assert.Equal(t, 0, code)
		assert.Empty(t, lines)
	})

	t.Run("targets are forwarded", func(t *testing.T) {
		var gotTargets []string
		withListMock(t, func(_ []string, targets []string) (string, int) {
			gotTargets = targets
			return "", 0
		})

		New("ls", nil, false).List(ctx, []string{"a", "b"})
		require.Equal(t, []string{"a", "b"}, gotTargets)
	})

	t.Run("missing command", func(t *testing.T) {
		orig := LookupPath
		LookupPath = func(string) (string, error) { return "", assert.AnError }
		t.Cleanup(func() { LookupPath = orig })

		lines, code := New("definitely-not-a-lister", nil, false).List(ctx, []string{"."})
		assert.Equal(t, 127, code)
		assert.Empty(t, lines)
	})
}
