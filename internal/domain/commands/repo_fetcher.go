package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	"github.com/rios0rios0/repofetch/internal/domain/repositories"
	"github.com/rios0rios0/repofetch/internal/scheduler"
)

// FetchRequest names a repository snapshot and how to shape its files.
type FetchRequest struct {
	Owner           string
	Repo            string
	Branch          string
	Decode          bool
	ApplyExclusions bool
	Format          entities.OutputFormat
	// Predicate, when set, keeps only the paths it accepts.
	Predicate func(path string) bool
}

// RepoFetcher retrieves repository trees and file contents, sending every
// remote call through one scheduler.
type RepoFetcher struct {
	provider      repositories.ProviderRepository
	scheduler     *scheduler.Scheduler
	resourceKey   string
	ignoreFile    string
	exclusionMode entities.ExclusionMode
}

// RepoFetcherOption customizes a RepoFetcher.
type RepoFetcherOption func(*RepoFetcher)

// WithResourceKey sets the scheduler key remote calls are accounted under.
func WithResourceKey(key string) RepoFetcherOption {
	return func(f *RepoFetcher) {
		if key != "" {
			f.resourceKey = key
		}
	}
}

// WithIgnoreFile sets the repository path exclusions are read from.
func WithIgnoreFile(path string) RepoFetcherOption {
	return func(f *RepoFetcher) {
		if path != "" {
			f.ignoreFile = path
		}
	}
}

// WithExclusionMode sets how ignore-file lines are matched.
func WithExclusionMode(mode entities.ExclusionMode) RepoFetcherOption {
	return func(f *RepoFetcher) {
		if mode != "" {
			f.exclusionMode = mode
		}
	}
}

// NewRepoFetcher creates a RepoFetcher. Calls are keyed by the provider name
// and exclusions are read from .gitignore unless overridden.
func NewRepoFetcher(
	provider repositories.ProviderRepository,
	sched *scheduler.Scheduler,
	opts ...RepoFetcherOption,
) *RepoFetcher {
	f := &RepoFetcher{
		provider:      provider,
		scheduler:     sched,
		resourceKey:   provider.Name(),
		ignoreFile:    entities.DefaultIgnoreFile,
		exclusionMode: entities.ExclusionModeExact,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CheckQuota reads the remote quota. The result is never cached.
func (it *RepoFetcher) CheckQuota(ctx context.Context) (entities.QuotaSnapshot, error) {
	quota, err := scheduler.Do(ctx, it.scheduler, it.resourceKey, it.provider.GetQuota)
	if err != nil {
		return entities.QuotaSnapshot{}, fmt.Errorf("failed to check quota: %w", err)
	}
	return quota, nil
}

// LoadExclusions reads the ignore file at ref. Any failure, including a
// missing file, yields an empty set and a warning.
func (it *RepoFetcher) LoadExclusions(
	ctx context.Context,
	repo entities.Repository,
	ref string,
) entities.ExclusionSet {
	entry := entities.FileEntry{Path: it.ignoreFile, Kind: entities.KindBlob}
	content, err := scheduler.Do(ctx, it.scheduler, it.resourceKey,
		func(ctx context.Context) (*entities.EncodedContent, error) {
			return it.provider.GetContent(ctx, repo, ref, entry)
		},
	)
	if err != nil {
		logger.Warnf("Failed to load exclusions from %s, continuing without them: %v", it.ignoreFile, err)
		return entities.EmptyExclusionSet()
	}
	if content == nil {
		logger.Warnf("Ignore file %s has no content, continuing without exclusions", it.ignoreFile)
		return entities.EmptyExclusionSet()
	}

	raw, err := content.Bytes()
	if err != nil {
		logger.Warnf("Failed to decode %s, continuing without exclusions: %v", it.ignoreFile, err)
		return entities.EmptyExclusionSet()
	}

	set := entities.ParseExclusions(string(raw), it.exclusionMode)
	logger.Debugf("Loaded %d exclusion patterns from %s (%s mode)", set.Len(), it.ignoreFile, set.Mode())
	return set
}

// ListFiles resolves branch and returns its blobs in listing order, minus
// excluded paths and paths rejected by predicate.
func (it *RepoFetcher) ListFiles(
	ctx context.Context,
	repo entities.Repository,
	branch string,
	exclusions entities.ExclusionSet,
	predicate func(path string) bool,
) ([]entities.FileEntry, entities.TreeRef, error) {
	tree, err := it.resolveTree(ctx, repo, branch)
	if err != nil {
		return nil, entities.TreeRef{}, err
	}

	var files []entities.FileEntry
	cursor := ""
	for {
		page, listErr := scheduler.Do(ctx, it.scheduler, it.resourceKey,
			func(ctx context.Context) (entities.TreePage, error) {
				return it.provider.ListTree(ctx, repo, tree, cursor)
			},
		)
		if listErr != nil {
			return nil, entities.TreeRef{}, fmt.Errorf("failed to list tree of %s: %w", entities.FullName(repo), listErr)
		}
		if page.Truncated {
			logger.Warnf("Tree listing of %s was truncated by %s, some files are missing",
				entities.FullName(repo), it.provider.Name())
		}

		for _, entry := range page.Entries {
			if !entry.IsBlob() {
				continue
			}
			if predicate != nil && !predicate(entry.Path) {
				continue
			}
			if exclusions.Excludes(entry.Path) {
				logger.Debugf("Excluding %s", entry.Path)
				continue
			}
			files = append(files, entry)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return files, tree, nil
}

func (it *RepoFetcher) resolveTree(
	ctx context.Context,
	repo entities.Repository,
	branch string,
) (entities.TreeRef, error) {
	tree, err := scheduler.Do(ctx, it.scheduler, it.resourceKey,
		func(ctx context.Context) (entities.TreeRef, error) {
			return it.provider.ResolveTree(ctx, repo, branch)
		},
	)
	if err != nil {
		var permanent *entities.PermanentRequestError
		if errors.As(err, &permanent) {
			return entities.TreeRef{}, &entities.ReferenceResolutionError{
				Repository: entities.FullName(repo),
				Branch:     branch,
				Err:        err,
			}
		}
		return entities.TreeRef{}, fmt.Errorf("failed to resolve branch %q: %w", branch, err)
	}
	if tree.TreeSHA == "" {
		return entities.TreeRef{}, &entities.ReferenceResolutionError{
			Repository: entities.FullName(repo),
			Branch:     branch,
		}
	}
	return tree, nil
}

// FetchContent retrieves one blob. A blob the provider reports without
// content yields (nil, nil).
func (it *RepoFetcher) FetchContent(
	ctx context.Context,
	repo entities.Repository,
	ref string,
	entry entities.FileEntry,
	decode bool,
) (*entities.FetchedFile, error) {
	content, err := scheduler.Do(ctx, it.scheduler, it.resourceKey,
		func(ctx context.Context) (*entities.EncodedContent, error) {
			return it.provider.GetContent(ctx, repo, ref, entry)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", entry.Path, err)
	}
	if content == nil || content.Payload == "" {
		logger.Debugf("Skipping %s, no content", entry.Path)
		return nil, nil
	}

	raw, err := content.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", entry.Path, err)
	}

	file := entities.NewFetchedFile(entry.Path, raw, decode)
	return &file, nil
}

// FetchRepoContent fetches every surviving file concurrently and renders the
// whole collection once, in enumeration order. The first failure cancels the
// remaining fetches.
func (it *RepoFetcher) FetchRepoContent(ctx context.Context, req FetchRequest) (entities.Output, error) {
	plan, err := it.prepare(ctx, req)
	if err != nil {
		return entities.Output{}, err
	}

	results := make([]*entities.FetchedFile, len(plan.files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(it.scheduler.Config().Concurrency)
	for i, entry := range plan.files {
		g.Go(func() error {
			file, fetchErr := it.FetchContent(gctx, plan.repo, plan.ref, entry, req.Decode)
			if fetchErr != nil {
				return fetchErr
			}
			results[i] = file
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return entities.Output{}, waitErr
	}

	files := make([]entities.FetchedFile, 0, len(results))
	for _, file := range results {
		if file != nil {
			files = append(files, *file)
		}
	}
	logger.Infof("Fetched %d of %d files from %s", len(files), len(plan.files), entities.FullName(plan.repo))

	return entities.Render(req.Format, files)
}

// FetchRepoContentStream validates the request, checks the quota, loads
// exclusions and enumerates the tree before returning; failures in those
// steps are returned here. Contents are fetched one at a time as the stream
// is advanced.
func (it *RepoFetcher) FetchRepoContentStream(ctx context.Context, req FetchRequest) (*ContentStream, error) {
	plan, err := it.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return newContentStream(it, plan, req), nil
}

type fetchPlan struct {
	repo  entities.Repository
	ref   string
	files []entities.FileEntry
}

// prepare runs the steps shared by batch and stream mode: format check,
// quota, exclusions and enumeration, in that order.
func (it *RepoFetcher) prepare(ctx context.Context, req FetchRequest) (*fetchPlan, error) {
	if err := req.Format.Validate(); err != nil {
		return nil, err
	}
	if req.Owner == "" || req.Repo == "" {
		return nil, errors.New("repository owner and name are required")
	}
	if req.Branch == "" {
		return nil, errors.New("branch is required")
	}

	quota, err := it.CheckQuota(ctx)
	if err != nil {
		return nil, err
	}
	if quota.Exhausted() {
		return nil, &entities.QuotaExhaustedError{Quota: quota}
	}
	logger.Debugf("Quota: %d of %d requests left", quota.Remaining, quota.Limit)

	branch := plumbing.ReferenceName(req.Branch).Short()
	repo := entities.NewRepository(req.Owner, req.Repo, branch)

	exclusions := entities.EmptyExclusionSet()
	if req.ApplyExclusions {
		exclusions = it.LoadExclusions(ctx, repo, branch)
	}

	files, tree, err := it.ListFiles(ctx, repo, branch, exclusions, req.Predicate)
	if err != nil {
		return nil, err
	}
	logger.Infof("Enumerated %d files in %s@%s", len(files), entities.FullName(repo), branch)

	ref := tree.CommitSHA
	if ref == "" {
		ref = branch
	}
	return &fetchPlan{repo: repo, ref: ref, files: files}, nil
}
