package gitlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
)

const (
	providerName = "gitlab"
	perPage      = 100

	headerRemaining  = "RateLimit-Remaining"
	headerLimit      = "RateLimit-Limit"
	headerReset      = "RateLimit-Reset"
	headerRetryAfter = "Retry-After"
)

// GitLabProviderRepository implements repositories.ProviderRepository for GitLab.
type GitLabProviderRepository struct {
	client *gl.Client
}

// NewGitLabProviderRepository wraps an authenticated client.
func NewGitLabProviderRepository(client *gl.Client) *GitLabProviderRepository {
	return &GitLabProviderRepository{client: client}
}

// NewGitLabProviderRepositoryFromSettings builds a client for gitlab.com or
// the configured self-managed instance. The client's own retries are off;
// retrying is left to the scheduler.
func NewGitLabProviderRepositoryFromSettings(
	settings entities.ProviderSettings,
) (repositories.ProviderRepository, error) {
	opts := []gl.ClientOptionFunc{gl.WithoutRetries()}
	if settings.BaseURL != "" {
		opts = append(opts, gl.WithBaseURL(settings.BaseURL))
	}

	client, err := gl.NewClient(settings.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gitlab client: %w", err)
	}
	return NewGitLabProviderRepository(client), nil
}

func (p *GitLabProviderRepository) Name() string { return providerName }

// GetQuota reads the RateLimit-* headers of a cheap authenticated request.
// Instances with rate limiting disabled send none of them.
func (p *GitLabProviderRepository) GetQuota(ctx context.Context) (entities.QuotaSnapshot, error) {
	_, resp, err := p.client.Version.GetVersion(gl.WithContext(ctx))
	if err != nil {
		return entities.QuotaSnapshot{}, classify("get version", resp, err)
	}

	snapshot := entities.QuotaSnapshot{
		Remaining: headerInt(resp.Header, headerRemaining),
		Limit:     headerInt(resp.Header, headerLimit),
	}
	if reset := headerInt(resp.Header, headerReset); reset != entities.UnknownQuota {
		snapshot.ResetAt = time.Unix(int64(reset), 0)
	}
	return snapshot, nil
}

// ResolveTree reads the branch head. GitLab addresses trees by commit, so
// the commit id is used for both fields.
func (p *GitLabProviderRepository) ResolveTree(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) (entities.TreeRef, error) {
	b, resp, err := p.client.Branches.GetBranch(entities.FullName(repo), branch, gl.WithContext(ctx))
	if err != nil {
		return entities.TreeRef{}, classify(fmt.Sprintf("get branch %s", branch), resp, err)
	}
	if b.Commit == nil {
		return entities.TreeRef{}, nil
	}
	return entities.TreeRef{CommitSHA: b.Commit.ID, TreeSHA: b.Commit.ID}, nil
}

// ListTree returns one page of the recursive tree; the cursor is the page number.
func (p *GitLabProviderRepository) ListTree(
	ctx context.Context,
	repo entities.Repository,
	tree entities.TreeRef,
	cursor string,
) (entities.TreePage, error) {
	//nolint:exhaustruct // Minimal ListTreeOptions initialization with required fields only
	opts := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Ref:         gl.Ptr(tree.TreeSHA),
		Recursive:   gl.Ptr(true),
	}

	nodes, resp, err := p.client.Repositories.ListTree(
		entities.FullName(repo), opts, gl.WithContext(ctx), withPage(cursor),
	)
	if err != nil {
		return entities.TreePage{}, classify(fmt.Sprintf("list tree %s", tree.TreeSHA), resp, err)
	}

	page := entities.TreePage{Entries: make([]entities.FileEntry, 0, len(nodes))}
	for _, node := range nodes {
		page.Entries = append(page.Entries, entities.FileEntry{
			Path: node.Path,
			Kind: entities.EntryKind(node.Type),
			SHA:  node.ID,
		})
	}
	if resp.NextPage != 0 {
		page.NextCursor = fmt.Sprint(resp.NextPage)
	}
	return page, nil
}

// GetContent reads a file at ref through the repository files API.
func (p *GitLabProviderRepository) GetContent(
	ctx context.Context,
	repo entities.Repository,
	ref string,
	entry entities.FileEntry,
) (*entities.EncodedContent, error) {
	//nolint:exhaustruct // Only the ref is needed
	opts := &gl.GetFileOptions{Ref: gl.Ptr(ref)}
	file, resp, err := p.client.RepositoryFiles.GetFile(
		entities.FullName(repo), entry.Path, opts, gl.WithContext(ctx),
	)
	if err != nil {
		return nil, classify(fmt.Sprintf("get file %s", entry.Path), resp, err)
	}
	if file == nil {
		return nil, nil
	}
	return &entities.EncodedContent{
		Path:     entry.Path,
		Encoding: file.Encoding,
		Payload:  file.Content,
	}, nil
}

// withPage requests the page named by cursor; an empty cursor keeps the first page.
func withPage(cursor string) gl.RequestOptionFunc {
	return func(req *retryablehttp.Request) error {
		if cursor == "" {
			return nil
		}
		query := req.URL.Query()
		query.Set("page", cursor)
		req.URL.RawQuery = query.Encode()
		return nil
	}
}

func classify(op string, resp *gl.Response, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var respErr *gl.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		retryAfter := time.Duration(max(headerInt(respErr.Response.Header, headerRetryAfter), 0)) * time.Second
		return entities.NewRequestError(op, respErr.Response.StatusCode, retryAfter, err)
	}
	if resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusBadRequest {
		return entities.NewRequestError(op, resp.StatusCode, 0, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &entities.TransientRequestError{Op: op, Err: err}
	}
	return &entities.PermanentRequestError{Op: op, Err: err}
}

func headerInt(header http.Header, name string) int {
	value, err := strconv.Atoi(header.Get(name))
	if err != nil {
		return entities.UnknownQuota
	}
	return value
}
