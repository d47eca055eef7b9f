package commands

import (
	"context"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// Fetch is the interface for the fetch command (batch mode).
type Fetch interface {
	Execute(ctx context.Context, settings *entities.Settings, opts FetchOptions) (entities.Output, error)
}

// FetchOptions holds the per-invocation arguments shared by fetch and stream.
type FetchOptions struct {
	Owner           string
	Repo            string
	Branch          string
	Format          entities.OutputFormat
	Decode          bool
	ApplyExclusions bool
	Match           []string // gitignore-style patterns; empty keeps every path
}

func (o FetchOptions) request() FetchRequest {
	return FetchRequest{
		Owner:           o.Owner,
		Repo:            o.Repo,
		Branch:          o.Branch,
		Decode:          o.Decode,
		ApplyExclusions: o.ApplyExclusions,
		Format:          o.Format,
		Predicate:       entities.NewPathPredicate(o.Match),
	}
}

// FetchCommand fetches a whole repository snapshot and renders it once.
type FetchCommand struct {
	factory *RepoFetcherFactory
}

// NewFetchCommand creates a new FetchCommand.
func NewFetchCommand(factory *RepoFetcherFactory) *FetchCommand {
	return &FetchCommand{factory: factory}
}

// Execute builds a fetcher from settings and runs a batch fetch.
func (it *FetchCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts FetchOptions,
) (entities.Output, error) {
	fetcher, cleanup, err := it.factory.Build(settings)
	if err != nil {
		return entities.Output{}, err
	}
	defer cleanup()

	return fetcher.FetchRepoContent(ctx, opts.request())
}
