package lister

import (
	"strings"

	"github.com/chmouel/gitls/internal/models"
)

// Kind tags the result of parsing one listing line.
type Kind int

const (
	// KindEntry is a parsed filesystem entry.
	KindEntry Kind = iota
	// KindHeader is an "entering directory" section header ("path:").
	KindHeader
	// KindPassthrough is a blank or unrecognized line, emitted verbatim.
	KindPassthrough
)

// Parsed is the tagged result of ParseLine.
type Parsed struct {
	Kind       Kind
	Entry      models.Entry
	HeaderPath string
	Line       string // original line, always set
}

const symlinkArrow = " -> "

// ParseLine turns one raw listing line into an entry, a section header or a
// passthrough. headerAware enables header recognition; it is only on when
// the listing was invoked with multiple or recursive targets. A line
// matching no recognized shape passes through unchanged, never an error.
func ParseLine(line string, mode Mode, headerAware bool) Parsed {
	visible := StripANSI(line)

	if strings.TrimSpace(visible) == "" {
		return Parsed{Kind: KindPassthrough, Line: line}
	}

	if headerAware && isHeader(visible) {
		path := strings.TrimSuffix(visible, ":")
		if mode.Quoted {
			if unquoted, ok := lastQuoted(path); ok {
				path = unquoted
			}
		}
		return Parsed{Kind: KindHeader, HeaderPath: path, Line: line}
	}

	if mode.Long && isTotalLine(visible) {
		return Parsed{Kind: KindPassthrough, Line: line}
	}

	entry, ok := extractEntry(visible, mode)
	if !ok {
		return Parsed{Kind: KindPassthrough, Line: line}
	}
	entry.RawLine = line
	return Parsed{Kind: KindEntry, Entry: entry, Line: line}
}

// isHeader recognizes the "<path>:" section line the listing tool emits
// between directories.
func isHeader(visible string) bool {
	if !strings.HasSuffix(visible, ":") || len(visible) < 2 {
		return false
	}
	// Headers start at column zero; entry lines in long format never do
	// unless the mode is broken anyway.
	return visible[0] != ' ' && visible[0] != '\t' && !strings.Contains(visible, symlinkArrow)
}

// isTotalLine matches the "total N" summary of long format.
func isTotalLine(visible string) bool {
	fields := strings.Fields(visible)
	if len(fields) != 2 || fields[0] != "total" {
		return false
	}
	for _, c := range fields[1] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func extractEntry(visible string, mode Mode) (models.Entry, bool) {
	entry := models.Entry{}
	working := visible

	if i := strings.Index(working, symlinkArrow); i >= 0 {
		entry.IsSymlink = true
		working = working[:i]
	}

	var name string
	if mode.Quoted {
		quoted, ok := lastQuoted(working)
		if !ok {
			return entry, false
		}
		name = quoted
	} else {
		fields := strings.Fields(working)
		if len(fields) == 0 {
			return entry, false
		}
		name = fields[len(fields)-1]
	}

	name, entry.TypeSuffix = stripClassifySuffix(name, mode)

	// The listing tool echoes a fuller path for explicit file arguments;
	// only the final component matters for status lookups.
	if i := strings.LastIndexByte(name, '/'); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}

	if name == "" {
		return entry, false
	}
	entry.Name = name
	return entry, true
}

// stripClassifySuffix removes a trailing type marker in classify modes.
func stripClassifySuffix(name string, mode Mode) (string, byte) {
	if len(name) < 2 {
		return name, 0
	}
	last := name[len(name)-1]
	switch {
	case mode.Classify && strings.IndexByte(classifyMarkers, last) >= 0:
		return name[:len(name)-1], last
	case mode.SlashOnly && last == '/':
		return name[:len(name)-1], last
	}
	return name, 0
}

// lastQuoted extracts the content of the last complete double-quoted token,
// undoing backslash escapes.
func lastQuoted(s string) (string, bool) {
	var tokens []string
	var current strings.Builder
	inQuote := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inQuote {
			if c == '"' {
				inQuote = true
				current.Reset()
			}
			continue
		}
		if escaped {
			switch c {
			case 'n':
				current.WriteByte('\n')
			case 't':
				current.WriteByte('\t')
			default:
				current.WriteByte(c)
			}
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inQuote = false
			tokens = append(tokens, current.String())
		default:
			current.WriteByte(c)
		}
	}

	if len(tokens) == 0 {
		return "", false
	}
	return tokens[len(tokens)-1], true
}

// StripANSI removes ANSI escape sequences (CSI and OSC) from a line.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != 0x1b {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			break
		}
		switch s[i+1] {
		case '[':
			// CSI: parameters then a final byte in @-~.
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			i = j
		case ']':
			// OSC: terminated by BEL or ST.
			j := i + 2
			for j < len(s) && s[j] != 0x07 && !(s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\') {
				j++
			}
			if j < len(s) && s[j] == 0x1b {
				j++
			}
			i = j
		default:
			i++
		}
	}
	return b.String()
}
