package entities

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// ExclusionMode selects how ignore-file lines are matched against paths.
type ExclusionMode string

const (
	// ExclusionModeExact treats every line as a literal path. "secret/" does
	// not exclude "secret/key.pem".
	ExclusionModeExact ExclusionMode = "exact"
	// ExclusionModeGitignore interprets lines with gitignore semantics
	// (globs, directory patterns, negation). This is an opt-in behavior change.
	ExclusionModeGitignore ExclusionMode = "gitignore"
)

const commentMarker = "#"

// ParseExclusionMode validates a configured mode; empty means exact.
func ParseExclusionMode(raw string) (ExclusionMode, error) {
	switch mode := ExclusionMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "", ExclusionModeExact:
		return ExclusionModeExact, nil
	case ExclusionModeGitignore:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown exclusion mode %q (expected exact or gitignore)", raw)
	}
}

// ExclusionSet is the collection of paths omitted from enumeration.
// The zero value excludes nothing.
type ExclusionSet struct {
	mode     ExclusionMode
	patterns []string
	paths    map[string]struct{}
	matcher  gitignore.Matcher
}

// EmptyExclusionSet returns a set that excludes nothing.
func EmptyExclusionSet() ExclusionSet {
	return ExclusionSet{mode: ExclusionModeExact}
}

// ParseExclusions builds an ExclusionSet from ignore-file content. Lines are
// trimmed; blank lines and lines starting with "#" are dropped.
func ParseExclusions(content string, mode ExclusionMode) ExclusionSet {
	set := ExclusionSet{mode: mode, paths: make(map[string]struct{})}

	for line := range strings.Lines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
			continue
		}
		set.patterns = append(set.patterns, trimmed)
		set.paths[trimmed] = struct{}{}
	}

	if mode == ExclusionModeGitignore {
		parsed := make([]gitignore.Pattern, 0, len(set.patterns))
		for _, p := range set.patterns {
			parsed = append(parsed, gitignore.ParsePattern(p, nil))
		}
		set.matcher = gitignore.NewMatcher(parsed)
	}

	return set
}

// Excludes reports whether path must be dropped from the listing.
func (s ExclusionSet) Excludes(path string) bool {
	if s.matcher != nil {
		return s.matcher.Match(strings.Split(path, "/"), false)
	}
	_, ok := s.paths[path]
	return ok
}

// Len returns the number of patterns in the set.
func (s ExclusionSet) Len() int {
	return len(s.patterns)
}

// Patterns returns the patterns in file order.
func (s ExclusionSet) Patterns() []string {
	out := make([]string, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Mode returns the matching mode of the set.
func (s ExclusionSet) Mode() ExclusionMode {
	if s.mode == "" {
		return ExclusionModeExact
	}
	return s.mode
}
