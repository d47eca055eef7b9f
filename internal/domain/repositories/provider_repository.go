package repositories

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// ProviderRepository abstracts a Git hosting service (GitHub, GitLab) as the
// four read-only calls the fetch pipeline needs. Implementations classify
// failures as *entities.TransientRequestError or *entities.PermanentRequestError
// so the scheduler knows what to retry.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github", "gitlab").
	Name() string

	// GetQuota reads the remaining request budget. Providers that do not
	// report one return entities.UnknownQuota for every field.
	GetQuota(ctx context.Context) (entities.QuotaSnapshot, error)

	// ResolveTree resolves a branch to its head commit and root tree.
	ResolveTree(ctx context.Context, repo entities.Repository, branch string) (entities.TreeRef, error)

	// ListTree returns one page of the recursive listing. An empty cursor
	// requests the first page; an empty NextCursor marks the last one.
	ListTree(
		ctx context.Context,
		repo entities.Repository,
		tree entities.TreeRef,
		cursor string,
	) (entities.TreePage, error)

	// GetContent returns the encoded payload of a blob at ref, or nil when the
	// provider reports no content for it.
	GetContent(
		ctx context.Context,
		repo entities.Repository,
		ref string,
		entry entities.FileEntry,
	) (*entities.EncodedContent, error)
}
