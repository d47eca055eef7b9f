//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/repofetch/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// FileEntryBuilder helps create tree entries with a fluent interface.
type FileEntryBuilder struct {
	*testkit.BaseBuilder
	path string
	kind entities.EntryKind
	sha  string
}

// NewFileEntryBuilder creates a new builder for a blob at README.md.
func NewFileEntryBuilder() *FileEntryBuilder {
	return &FileEntryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		path:        "README.md",
		kind:        entities.KindBlob,
		sha:         "0000000000000000000000000000000000000000",
	}
}

// WithPath sets the entry path.
func (b *FileEntryBuilder) WithPath(path string) *FileEntryBuilder {
	b.path = path
	return b
}

// AsTree marks the entry as a directory.
func (b *FileEntryBuilder) AsTree() *FileEntryBuilder {
	b.kind = entities.KindTree
	return b
}

// AsSubmodule marks the entry as a submodule commit.
func (b *FileEntryBuilder) AsSubmodule() *FileEntryBuilder {
	b.kind = entities.KindCommit
	return b
}

// WithSHA sets the object id.
func (b *FileEntryBuilder) WithSHA(sha string) *FileEntryBuilder {
	b.sha = sha
	return b
}

// Build creates the entry (satisfies testkit.Builder interface).
func (b *FileEntryBuilder) Build() interface{} {
	return b.BuildFileEntry()
}

// BuildFileEntry creates the entry with a concrete return type.
func (b *FileEntryBuilder) BuildFileEntry() entities.FileEntry {
	return entities.FileEntry{Path: b.path, Kind: b.kind, SHA: b.sha}
}

// Reset clears the builder state, allowing it to be reused.
func (b *FileEntryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = "README.md"
	b.kind = entities.KindBlob
	b.sha = "0000000000000000000000000000000000000000"
	return b
}

// Clone creates a deep copy of the FileEntryBuilder.
func (b *FileEntryBuilder) Clone() testkit.Builder {
	return &FileEntryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:        b.path,
		kind:        b.kind,
		sha:         b.sha,
	}
}

// Blobs builds one blob entry per path.
func Blobs(paths ...string) []entities.FileEntry {
	entries := make([]entities.FileEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, NewFileEntryBuilder().WithPath(path).BuildFileEntry())
	}
	return entries
}
