package entities

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// NewPathPredicate returns a predicate accepting paths that match any of the
// given gitignore-style patterns ("*.go", "src/", "docs/**/*.md").
// No patterns means no predicate.
func NewPathPredicate(patterns []string) func(path string) bool {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parsed = append(parsed, gitignore.ParsePattern(trimmed, nil))
		}
	}
	if len(parsed) == 0 {
		return nil
	}

	return func(path string) bool {
		segments := strings.Split(path, "/")
		for _, p := range parsed {
			if p.Match(segments, false) == gitignore.Exclude {
				return true
			}
		}
		return false
	}
}
