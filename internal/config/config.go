// Package config loads gitls configuration from YAML and git config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color output modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// AppConfig defines the global gitls configuration options.
type AppConfig struct {
	ListingCommand string            // Command used to produce the listing (default: "ls")
	ListingArgs    []string          // Default switches always passed to the listing command
	NestDepth      int               // 0 = no nesting, -1 = unlimited, n > 0 = n levels
	Color          string            // "auto", "always" or "never"
	TabWidth       int               // Tab stop width used by the alignment engine
	DebugLog       string            // Path to the debug log file
	WatchDebounce  int               // Watch mode debounce in milliseconds
	Colors         map[string]string // Per-key color overrides for the theme
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ListingCommand: "ls",
		ListingArgs:    []string{},
		NestDepth:      0,
		Color:          ColorAuto,
		TabWidth:       8,
		WatchDebounce:  600,
		Colors:         map[string]string{},
	}
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitls", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gitls", "config.yaml")
}

// LoadConfig builds the effective configuration: defaults, then the YAML
// file, then git config (global, then repo-local), each layer overriding
// the previous one. A missing config file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec
		switch {
		case err == nil:
			var raw map[string]any
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
			applyConfigMap(cfg, raw)
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		applyConfigMap(cfg, global)
	}
	if local, err := loadGitConfig(false, determineRepoPath()); err == nil {
		applyConfigMap(cfg, local)
	}

	return cfg, nil
}

// applyConfigMap merges a raw key/value layer into cfg. Unknown keys are
// ignored so old binaries tolerate newer config files.
func applyConfigMap(cfg *AppConfig, raw map[string]any) {
	for key, value := range raw {
		switch strings.ToLower(key) {
		case "listing_command":
			if text := coerceString(value); text != "" {
				cfg.ListingCommand = text
			}
		case "listing_args":
			cfg.ListingArgs = normalizeArgsList(value)
		case "nest_depth":
			cfg.NestDepth = coerceInt(value, cfg.NestDepth)
		case "color":
			if mode := normalizeColorMode(coerceString(value)); mode != "" {
				cfg.Color = mode
			}
		case "tab_width":
			if width := coerceInt(value, cfg.TabWidth); width > 0 {
				cfg.TabWidth = width
			}
		case "debug_log":
			cfg.DebugLog = coerceString(value)
		case "watch_debounce_ms":
			if ms := coerceInt(value, cfg.WatchDebounce); ms >= 0 {
				cfg.WatchDebounce = ms
			}
		case "colors":
			if m, ok := value.(map[string]any); ok {
				for name, v := range m {
					if text := coerceString(v); text != "" {
						cfg.Colors[strings.ToLower(name)] = text
					}
				}
			}
		default:
			// git config flattens the colors table into color_<key> entries.
			if name, ok := strings.CutPrefix(strings.ToLower(key), "color_"); ok {
				if text := coerceString(value); text != "" {
					cfg.Colors[name] = text
				}
			}
		}
	}
}

// ApplyCLIOverrides applies --config=gitls.key=value overrides, the highest
// precedence layer.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	raw, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfigMap(c, raw)
	return nil
}

func normalizeColorMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAuto:
		return ColorAuto
	case ColorAlways, "yes", "force":
		return ColorAlways
	case ColorNever, "no", "none":
		return ColorNever
	}
	return ""
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

func normalizeArgsList(value any) []string {
	if value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return []string{}
		}
		return strings.Fields(text)
	case []any:
		args := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				args = append(args, text)
			}
		}
		return args
	}

	return []string{}
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}
