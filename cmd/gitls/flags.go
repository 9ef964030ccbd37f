// Package main provides CLI flag definitions for gitls.
package main

import (
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "lister",
			Aliases: []string{"l"},
			Usage:   "Override the listing command (default: ls)",
		},
		&urfavecli.StringSliceFlag{
			Name:    "switches",
			Aliases: []string{"s"},
			Usage:   "Extra switches passed to the listing command (repeatable); switches after -- also pass through",
		},
		&urfavecli.IntFlag{
			Name:    "depth",
			Aliases: []string{"L"},
			Usage:   "Annotate nested directory listings up to N levels deep",
		},
		&urfavecli.BoolFlag{
			Name:    "nested",
			Aliases: []string{"n"},
			Usage:   "Annotate nested directory listings without a depth limit",
		},
		&urfavecli.StringFlag{
			Name:  "color",
			Usage: "Colorize annotations: auto, always or never",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Shorthand for --color=never",
		},
		&urfavecli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-run the listing when the targets change",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=gitls.key=value",
		},
	}
}
