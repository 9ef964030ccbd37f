// Package buildinfo carries the version metadata stamped into the gitls
// binary at link time.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info describes the build of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var current = Info{Version: "dev", Commit: "none", Date: "unknown", BuiltBy: "unknown"}

// Set records the linker-injected values. Fields the linker left at their
// defaults are backfilled from the module build info embedded in the
// binary (VCS revision, Go version).
func Set(version, commit, date, builtBy string) {
	current = Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy}
	current.backfill()
}

// Current returns the recorded build metadata.
func Current() Info { return current }

// Short renders the version string shown by --version.
func Short() string {
	if current.Commit == "none" {
		return current.Version
	}
	commit := current.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", current.Version, commit)
}

func (i *Info) backfill() {
	if i.Commit != "none" && i.BuiltBy != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if i.Commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				i.Commit = setting.Value
			}
		}
	}
	if i.BuiltBy == "unknown" {
		i.BuiltBy = info.GoVersion
	}
}
