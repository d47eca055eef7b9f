//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
)

// SpyProviderRepository implements repositories.ProviderRepository as a
// configurable spy. It is safe for concurrent use.
type SpyProviderRepository struct {
	// --- identity ---
	ProviderName string

	// --- GetQuota ---
	Quota    entities.QuotaSnapshot
	QuotaErr error

	// --- ResolveTree ---
	Tree       entities.TreeRef
	ResolveErr error

	// --- ListTree ---
	// Entries is served in pages of PageSize (all at once when zero).
	Entries   []entities.FileEntry
	PageSize  int
	Truncated bool
	ListErr   error

	// --- GetContent ---
	// Files maps a path to its raw content; paths missing here have no content.
	Files        map[string]string
	ContentErrs  map[string]error
	ContentDelay time.Duration

	// TransientFailures makes the named call fail transiently that many times
	// before it behaves normally. Keys: "quota", "resolve", "list" or a file path.
	TransientFailures map[string]int

	mu sync.Mutex
	// spy: call tracking
	QuotaCalls      int
	ResolveCalls    int
	ResolvedBranch  string
	ListCursors     []string
	ContentRequests []string
	ContentRefs     []string
	inFlight        int
	MaxInFlight     int
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string {
	if p.ProviderName == "" {
		return "spy"
	}
	return p.ProviderName
}

func (p *SpyProviderRepository) GetQuota(_ context.Context) (entities.QuotaSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.QuotaCalls++
	if err := p.failTransiently("quota"); err != nil {
		return entities.QuotaSnapshot{}, err
	}
	if p.QuotaErr != nil {
		return entities.QuotaSnapshot{}, p.QuotaErr
	}
	return p.Quota, nil
}

func (p *SpyProviderRepository) ResolveTree(
	_ context.Context,
	_ entities.Repository,
	branch string,
) (entities.TreeRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ResolveCalls++
	p.ResolvedBranch = branch
	if err := p.failTransiently("resolve"); err != nil {
		return entities.TreeRef{}, err
	}
	if p.ResolveErr != nil {
		return entities.TreeRef{}, p.ResolveErr
	}
	return p.Tree, nil
}

func (p *SpyProviderRepository) ListTree(
	_ context.Context,
	_ entities.Repository,
	_ entities.TreeRef,
	cursor string,
) (entities.TreePage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ListCursors = append(p.ListCursors, cursor)
	if err := p.failTransiently("list"); err != nil {
		return entities.TreePage{}, err
	}
	if p.ListErr != nil {
		return entities.TreePage{}, p.ListErr
	}

	start := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return entities.TreePage{}, &entities.PermanentRequestError{Op: "list tree", Err: err}
		}
		start = parsed
	}
	end := len(p.Entries)
	if p.PageSize > 0 && start+p.PageSize < end {
		end = start + p.PageSize
	}

	page := entities.TreePage{
		Entries:   append([]entities.FileEntry{}, p.Entries[start:end]...),
		Truncated: p.Truncated,
	}
	if end < len(p.Entries) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (p *SpyProviderRepository) GetContent(
	ctx context.Context,
	_ entities.Repository,
	ref string,
	entry entities.FileEntry,
) (*entities.EncodedContent, error) {
	p.mu.Lock()
	p.ContentRequests = append(p.ContentRequests, entry.Path)
	p.ContentRefs = append(p.ContentRefs, ref)
	p.inFlight++
	p.MaxInFlight = max(p.MaxInFlight, p.inFlight)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()

	if p.ContentDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.ContentDelay):
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.failTransiently(entry.Path); err != nil {
		return nil, err
	}
	if err := p.ContentErrs[entry.Path]; err != nil {
		return nil, err
	}
	content, ok := p.Files[entry.Path]
	if !ok {
		return nil, nil
	}
	return &entities.EncodedContent{
		Path:     entry.Path,
		Encoding: "base64",
		Payload:  base64.StdEncoding.EncodeToString([]byte(content)),
	}, nil
}

// Requested returns a copy of the paths GetContent was called with.
func (p *SpyProviderRepository) Requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.ContentRequests...)
}

// failTransiently must be called with mu held.
func (p *SpyProviderRepository) failTransiently(key string) error {
	if p.TransientFailures[key] <= 0 {
		return nil
	}
	p.TransientFailures[key]--
	return &entities.TransientRequestError{
		Op:         key,
		StatusCode: 503,
		Err:        errors.New("service unavailable"),
	}
}
