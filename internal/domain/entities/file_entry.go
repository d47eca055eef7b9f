package entities

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EntryKind is the object type of a tree entry as reported by the provider.
type EntryKind string

const (
	KindBlob   EntryKind = "blob"
	KindTree   EntryKind = "tree"
	KindCommit EntryKind = "commit" // submodule
)

const encodingBase64 = "base64"

// FileEntry is one entry of a recursive tree listing.
type FileEntry struct {
	Path string
	Kind EntryKind
	SHA  string
}

// IsBlob reports whether the entry carries file content.
func (e FileEntry) IsBlob() bool {
	return e.Kind == KindBlob
}

// TreeRef is the result of resolving a branch: the commit it points at and
// the root tree of that commit. Providers without tree objects use the commit
// SHA for both.
type TreeRef struct {
	CommitSHA string
	TreeSHA   string
}

// TreePage is one page of a recursive tree listing. An empty NextCursor marks
// the last page.
type TreePage struct {
	Entries    []FileEntry
	NextCursor string
	Truncated  bool
}

// EncodedContent is the raw content payload returned by a provider.
type EncodedContent struct {
	Path     string
	Encoding string
	Payload  string
}

// Bytes decodes the payload. Only base64 payloads are supported; newlines
// inside the payload are ignored.
func (c EncodedContent) Bytes() ([]byte, error) {
	encoding := strings.ToLower(c.Encoding)
	if encoding != "" && encoding != encodingBase64 {
		return nil, &PermanentRequestError{
			Op:  "decode " + c.Path,
			Err: fmt.Errorf("unsupported content encoding %q", c.Encoding),
		}
	}

	raw, err := base64.StdEncoding.DecodeString(c.Payload)
	if err != nil {
		return nil, &PermanentRequestError{
			Op:  "decode " + c.Path,
			Err: fmt.Errorf("malformed base64 payload: %w", err),
		}
	}
	return raw, nil
}

// FetchedFile is a file path together with its retrieved content.
type FetchedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// NewFetchedFile builds a FetchedFile from decoded bytes. With decode the
// bytes are read as UTF-8 text and invalid sequences become U+FFFD; without
// it they are re-encoded as canonical base64 text.
func NewFetchedFile(path string, raw []byte, decode bool) FetchedFile {
	if decode {
		return FetchedFile{Path: path, Content: strings.ToValidUTF8(string(raw), "\uFFFD")}
	}
	return FetchedFile{Path: path, Content: base64.StdEncoding.EncodeToString(raw)}
}
