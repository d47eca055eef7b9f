package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
)

const (
	providerName = "github"
	maxRedirects = 1
	// Files above 1 MB come back from the contents API without a payload.
	encodingNone = "none"
	encodingUTF8 = "utf-8"
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
type GitHubProviderRepository struct {
	client *gh.Client
}

// NewGitHubProviderRepository wraps an authenticated client.
func NewGitHubProviderRepository(client *gh.Client) *GitHubProviderRepository {
	return &GitHubProviderRepository{client: client}
}

// NewGitHubProviderRepositoryFromSettings builds the client from the
// configured token or GitHub App credentials.
func NewGitHubProviderRepositoryFromSettings(
	settings entities.ProviderSettings,
) (repositories.ProviderRepository, error) {
	if settings.AppID != 0 {
		client, err := NewAppClient(
			settings.AppID, settings.InstallationID, settings.PrivateKeyPath, settings.BaseURL,
		)
		if err != nil {
			return nil, err
		}
		return NewGitHubProviderRepository(client), nil
	}
	if settings.Token == "" {
		logger.Warn("No GitHub token configured, using unauthenticated requests (60 per hour)")
	}
	return NewGitHubProviderRepository(NewTokenClient(settings.Token, settings.BaseURL)), nil
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// GetQuota reads the core REST quota. The rate limit endpoint itself does not
// count against it.
func (p *GitHubProviderRepository) GetQuota(ctx context.Context) (entities.QuotaSnapshot, error) {
	limits, _, err := p.client.RateLimit.Get(ctx)
	if err != nil {
		return entities.QuotaSnapshot{}, classify("get rate limit", err)
	}

	core := limits.GetCore()
	if core == nil {
		return entities.QuotaSnapshot{
			Remaining: entities.UnknownQuota,
			Limit:     entities.UnknownQuota,
		}, nil
	}
	return entities.QuotaSnapshot{
		Remaining: core.Remaining,
		Limit:     core.Limit,
		ResetAt:   core.Reset.Time,
	}, nil
}

// ResolveTree reads the branch head and the root tree of its commit.
func (p *GitHubProviderRepository) ResolveTree(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) (entities.TreeRef, error) {
	b, _, err := p.client.Repositories.GetBranch(ctx, repo.Organization, repo.Name, branch, maxRedirects)
	if err != nil {
		return entities.TreeRef{}, classify(fmt.Sprintf("get branch %s", branch), err)
	}

	head := b.GetCommit()
	return entities.TreeRef{
		CommitSHA: head.GetSHA(),
		TreeSHA:   head.GetCommit().GetTree().GetSHA(),
	}, nil
}

// ListTree returns the whole recursive tree in one page; GitHub does not
// paginate it but marks oversized listings as truncated.
func (p *GitHubProviderRepository) ListTree(
	ctx context.Context,
	repo entities.Repository,
	tree entities.TreeRef,
	_ string,
) (entities.TreePage, error) {
	t, _, err := p.client.Git.GetTree(ctx, repo.Organization, repo.Name, tree.TreeSHA, true)
	if err != nil {
		return entities.TreePage{}, classify(fmt.Sprintf("get tree %s", tree.TreeSHA), err)
	}

	page := entities.TreePage{
		Entries:   make([]entities.FileEntry, 0, len(t.Entries)),
		Truncated: t.GetTruncated(),
	}
	for _, e := range t.Entries {
		page.Entries = append(page.Entries, entities.FileEntry{
			Path: e.GetPath(),
			Kind: entities.EntryKind(e.GetType()),
			SHA:  e.GetSHA(),
		})
	}
	return page, nil
}

// GetContent reads a file through the contents API and falls back to the
// blob API for files too large to be inlined.
func (p *GitHubProviderRepository) GetContent(
	ctx context.Context,
	repo entities.Repository,
	ref string,
	entry entities.FileEntry,
) (*entities.EncodedContent, error) {
	//nolint:exhaustruct // Only the ref is needed
	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := p.client.Repositories.GetContents(ctx, repo.Organization, repo.Name, entry.Path, opts)
	if err != nil {
		return nil, classify(fmt.Sprintf("get contents %s", entry.Path), err)
	}
	if file == nil {
		return nil, nil
	}

	if strings.EqualFold(file.GetEncoding(), encodingNone) {
		return p.getBlob(ctx, repo, entry)
	}
	if file.Content == nil {
		return nil, nil
	}
	return &entities.EncodedContent{
		Path:     entry.Path,
		Encoding: file.GetEncoding(),
		Payload:  *file.Content,
	}, nil
}

func (p *GitHubProviderRepository) getBlob(
	ctx context.Context,
	repo entities.Repository,
	entry entities.FileEntry,
) (*entities.EncodedContent, error) {
	logger.Debugf("Fetching %s through the blob API", entry.Path)

	blob, _, err := p.client.Git.GetBlob(ctx, repo.Organization, repo.Name, entry.SHA)
	if err != nil {
		return nil, classify(fmt.Sprintf("get blob %s", entry.Path), err)
	}
	if blob.Content == nil {
		return nil, nil
	}

	content := &entities.EncodedContent{
		Path:     entry.Path,
		Encoding: blob.GetEncoding(),
		Payload:  blob.GetContent(),
	}
	if strings.EqualFold(content.Encoding, encodingUTF8) {
		content.Encoding = ""
		content.Payload = base64.StdEncoding.EncodeToString([]byte(content.Payload))
	}
	return content, nil
}
