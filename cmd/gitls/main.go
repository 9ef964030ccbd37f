// Package main is the entry point for the gitls command.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/chmouel/gitls/internal/annotate"
	"github.com/chmouel/gitls/internal/buildinfo"
	"github.com/chmouel/gitls/internal/config"
	"github.com/chmouel/gitls/internal/git"
	"github.com/chmouel/gitls/internal/lister"
	"github.com/chmouel/gitls/internal/log"
	"github.com/chmouel/gitls/internal/theme"
	"github.com/chmouel/gitls/internal/watch"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)

	cliApp := &urfavecli.App{
		Name:                   "gitls",
		Usage:                  "List files annotated with their git status",
		ArgsUsage:              "[targets...] [-- listing switches...]",
		Version:                buildinfo.Short(),
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,

		Flags: globalFlags(),

		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		if exitErr, ok := err.(urfavecli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(c *urfavecli.Context) error {
	// Set up debug logging before loading config
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// If debug log wasn't set via flag, check the config
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			if err := log.SetFile(cfg.DebugLog); err != nil {
				fmt.Fprintf(os.Stderr, "Error opening debug log file from config %q: %v\n", cfg.DebugLog, err)
			}
		} else {
			_ = log.SetFile("")
		}
	}
	defer func() { _ = log.Close() }()

	// CLI config overrides (highest precedence)
	if overrides := c.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return urfavecli.Exit(fmt.Sprintf("Error applying config overrides: %v", err), 1)
		}
	}

	applyFlags(cfg, c)

	switches, targets := splitArgs(c.Args().Slice())
	switches = append(append([]string{}, cfg.ListingArgs...), switches...)
	switches = append(switches, c.StringSlice("switches")...)
	if len(targets) == 0 {
		targets = []string{"."}
	}

	colorEnabled := colorOn(cfg.Color)
	if cfg.Color == config.ColorAlways {
		// Keep escapes flowing into pipes; profile detection would
		// otherwise turn always into never.
		theme.ForceColors()
	}
	th := theme.WithOverrides(cfg.Colors, colorEnabled)
	svc := git.NewService(func(message string) {
		fmt.Fprintf(os.Stderr, "gitls: %s\n", message)
	})
	lst := lister.New(cfg.ListingCommand, switches, colorEnabled)
	engine := annotate.NewEngine(cfg, th, svc, lst, os.Stdout)

	nest := annotate.NestingLimited(cfg.NestDepth)
	if c.Bool("nested") {
		nest = annotate.NestingUnlimited
	} else if c.IsSet("depth") {
		nest = annotate.NestingLimited(c.Int("depth"))
	}

	ctx := context.Background()
	exitCode := engine.Run(ctx, targets, nest, 0)

	if c.Bool("watch") {
		if err := runWatch(ctx, engine, targets, nest, cfg); err != nil {
			return urfavecli.Exit(fmt.Sprintf("Error watching: %v", err), 1)
		}
		return nil
	}

	if exitCode != 0 {
		return urfavecli.Exit("", exitCode)
	}
	return nil
}

// splitArgs separates listing switches (everything starting with "-",
// typically supplied after --) from target paths.
func splitArgs(args []string) (switches, targets []string) {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && arg != "-" {
			switches = append(switches, arg)
			continue
		}
		targets = append(targets, arg)
	}
	return switches, targets
}

// applyFlags folds the simple value flags into the loaded config.
func applyFlags(cfg *config.AppConfig, c *urfavecli.Context) {
	if listerCmd := c.String("lister"); listerCmd != "" {
		cfg.ListingCommand = listerCmd
	}
	if c.Bool("no-color") {
		cfg.Color = config.ColorNever
	} else if mode := c.String("color"); mode != "" {
		cfg.Color = mode
	}
}

func colorOn(mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runWatch keeps re-listing the targets whenever they change on disk.
func runWatch(ctx context.Context, engine *annotate.Engine, targets []string, nest annotate.NestingState, cfg *config.AppConfig) error {
	watcher, err := watch.New(targets, time.Duration(cfg.WatchDebounce)*time.Millisecond, log.Printf)
	if err != nil {
		return err
	}

	return watcher.Run(ctx, func() {
		fmt.Println()
		engine.Run(ctx, targets, nest, 0)
	})
}
