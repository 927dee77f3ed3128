// Package scope computes which (file, line) locations are eligible to affect
// the verdict for a run, from a unified diff against a base reference.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/lintmux/internal/model"
)

// ErrMalformedDiff reports a diff description the scope computation could not
// parse. It is fatal to the run: no partial report may be emitted on top of
// an unknown scope.
var ErrMalformedDiff = errors.New("malformed diff")

// Mode selects how the scope mask is derived.
type Mode int

const (
	// AllFiles puts every line of every file in scope (full-repository runs).
	AllFiles Mode = iota
	// ChangedLines scopes to the hunks of the diff, context lines included.
	ChangedLines
	// AddedLinesOnly scopes to added lines alone, excluding hunk context.
	AddedLinesOnly
)

func (m Mode) String() string {
	switch m {
	case AllFiles:
		return "all"
	case ChangedLines:
		return "changed"
	case AddedLinesOnly:
		return "added"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name (as used in flags) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "all":
		return AllFiles, nil
	case "changed":
		return ChangedLines, nil
	case "added":
		return AddedLinesOnly, nil
	default:
		return AllFiles, fmt.Errorf("unknown scope mode %q (want all, changed, or added)", s)
	}
}

// Mask is the set of in-scope (file, line) pairs, computed once per run and
// read-only afterwards. A nil lines map means everything is in scope.
type Mask struct {
	lines map[string]map[int]bool // file -> set of new-file line numbers
}

// Everything returns the sentinel mask with all lines of all files in scope.
func Everything() *Mask {
	return &Mask{}
}

// All reports whether the mask is the everything sentinel.
func (m *Mask) All() bool {
	return m.lines == nil
}

// Contains reports whether (file, line) is in scope.
func (m *Mask) Contains(file string, line int) bool {
	if m.lines == nil {
		return true
	}
	return m.lines[file][line]
}

// Files returns the number of files with at least one in-scope line.
func (m *Mask) Files() int {
	return len(m.lines)
}

// Compute parses a unified diff and derives the scope mask for the given
// mode. For AllFiles the diff text is ignored and may be empty.
func Compute(rawDiff string, mode Mode) (*Mask, error) {
	if mode == AllFiles {
		return Everything(), nil
	}

	files, _, err := gitdiff.Parse(strings.NewReader(rawDiff))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDiff, err)
	}

	mask := &Mask{lines: make(map[string]map[int]bool)}
	for _, f := range files {
		if f.IsDelete || f.IsBinary {
			continue
		}
		name := f.NewName
		if name == "" {
			name = f.OldName
		}
		for _, frag := range f.TextFragments {
			newLine := int(frag.NewPosition)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpContext:
					if mode == ChangedLines {
						mask.add(name, newLine)
					}
					newLine++
				case gitdiff.OpAdd:
					mask.add(name, newLine)
					newLine++
				}
			}
		}
	}

	return mask, nil
}

func (m *Mask) add(file string, line int) {
	set := m.lines[file]
	if set == nil {
		set = make(map[int]bool)
		m.lines[file] = set
	}
	set[line] = true
}

// Filter keeps diagnostics whose (file, line) is in scope. File-level
// diagnostics (line 0) are always kept; they cannot be attributed to a line
// range.
func Filter(diags []model.Diagnostic, mask *Mask) []model.Diagnostic {
	if mask.All() {
		return diags
	}
	var kept []model.Diagnostic
	for _, d := range diags {
		if d.Line == 0 || mask.Contains(d.File, d.Line) {
			kept = append(kept, d)
		}
	}
	return kept
}
