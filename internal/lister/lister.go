// Package lister drives the external listing command (ls by default) and
// parses its output lines. The listing tool is a black box: gitls only
// controls enough switches to force parseable single-column output.
package lister

import (
	"context"
	"os"
	"os/exec"
	"strings"

	log "github.com/chmouel/gitls/internal/log"
)

// LookupPath is used to find the listing command in PATH. Exposed as a
// package variable so tests can mock it.
var LookupPath = exec.LookPath

// RunMock allows tests to intercept listing invocations.
var RunMock func(args []string, targets []string) (string, int)

// Mode captures the formatting switches that change how listing lines must
// be parsed.
type Mode struct {
	Long      bool // -l/-g/-o/-n: long format, name is the last column
	Quoted    bool // -Q: names wrapped in double quotes
	Classify  bool // -F/--classify/--file-type: type suffix appended
	SlashOnly bool // -p: only directories get a suffix
	Recursive bool // -R: the tool recurses by itself, headers per directory
	DirsPlain bool // -d: directories listed as plain entries
}

// Suffixes recognized in classify mode.
const classifyMarkers = "/*@=|%"

// Lister invokes the listing command with sanitized switches.
type Lister struct {
	command  string
	switches []string
	mode     Mode
}

// New builds a Lister from the configured command and the combined default
// plus user switches. Incompatible multi-column and dired switches are
// dropped, single-column output is forced, and the effective parsing mode
// is derived from what remains.
func New(command string, switches []string, color bool) *Lister {
	if command == "" {
		command = "ls"
	}

	clean, mode := sanitizeSwitches(switches)
	if !mode.Long {
		clean = append(clean, "-1")
	}
	if color {
		clean = append(clean, "--color=always")
	} else {
		clean = append(clean, "--color=never")
	}

	return &Lister{command: command, switches: clean, mode: mode}
}

// Mode returns the effective parsing mode.
func (l *Lister) Mode() Mode { return l.mode }

// sanitizeSwitches walks the raw switch list, dropping formats the parser
// cannot consume and recording the ones that change line shape.
func sanitizeSwitches(switches []string) ([]string, Mode) {
	var mode Mode
	clean := make([]string, 0, len(switches))

	for _, swit := range switches {
		switch {
		case swit == "--dired" || swit == "-D":
			continue
		case strings.HasPrefix(swit, "--format="):
			switch strings.TrimPrefix(swit, "--format=") {
			case "long", "verbose":
				mode.Long = true
			case "single-column":
			default:
				// across, commas, horizontal, vertical: incompatible.
				continue
			}
		case swit == "--classify" || swit == "--file-type" || strings.HasPrefix(swit, "--classify="):
			mode.Classify = true
		case swit == "--quote-name":
			mode.Quoted = true
		case swit == "--literal":
			mode.Quoted = false
		case swit == "--recursive":
			mode.Recursive = true
		case swit == "--directory":
			mode.DirsPlain = true
		case strings.HasPrefix(swit, "--"):
			// Unknown long option: pass through untouched.
		case strings.HasPrefix(swit, "-") && len(swit) > 1:
			kept := sanitizeShortCluster(swit, &mode)
			if kept == "-" {
				continue
			}
			swit = kept
		}
		clean = append(clean, swit)
	}

	return clean, mode
}

// sanitizeShortCluster handles combined short switches ("-laF"), removing
// the single-letter formats that conflict with single-column parsing.
func sanitizeShortCluster(cluster string, mode *Mode) string {
	var b strings.Builder
	b.WriteByte('-')
	for _, c := range cluster[1:] {
		switch c {
		case 'C', 'x', 'm':
			// Multi-column and comma formats: dropped.
			continue
		case 'l', 'g', 'o', 'n':
			mode.Long = true
		case 'F':
			mode.Classify = true
		case 'p':
			mode.SlashOnly = true
		case 'Q':
			mode.Quoted = true
		case 'N':
			mode.Quoted = false
		case 'R':
			mode.Recursive = true
		case 'd':
			mode.DirsPlain = true
		}
		b.WriteRune(c)
	}
	return b.String()
}

// List runs the listing command against the targets and returns its output
// lines plus the process exit code. Output produced before a failure is
// still returned and annotated.
func (l *Lister) List(ctx context.Context, targets []string) ([]string, int) {
	args := append(append([]string{}, l.switches...), targets...)

	if RunMock != nil {
		out, code := RunMock(append([]string{l.command}, l.switches...), targets)
		return splitLines(out), code
	}

	log.Printf("run: %s %s", l.command, strings.Join(args, " "))

	if _, err := LookupPath(l.command); err != nil {
		log.Printf("error: listing command not found: %s", l.command)
		return nil, 127
	}

	// #nosec G204 -- the listing command comes from local configuration
	cmd := exec.CommandContext(ctx, l.command, args...)
	cmd.Stderr = os.Stderr

	output, err := cmd.Output()
	code := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			code = exitError.ExitCode()
		} else {
			return nil, 127
		}
	}

	log.Printf("ok: %s (exit %d)", l.command, code)
	return splitLines(string(output)), code
}

func splitLines(out string) []string {
	if out == "" {
		return nil
	}
	out = strings.TrimSuffix(out, "\n")
	return strings.Split(out, "\n")
}
