//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
	builders "github.com/rios0rios0/repofetch/test/domain/entitybuilders"
)

func TestRepoFetcherFetchRepoContentStream(t *testing.T) {
	t.Parallel()

	t.Run("should yield the same files as batch mode", func(t *testing.T) {
		t.Parallel()

		// given
		files := map[string]string{
			".gitignore":     "dist/bundle.js",
			"README.md":      "# hello",
			"src/a.ts":       "export const a = 1",
			"dist/bundle.js": "minified",
			"docs/empty.md":  "",
		}
		entries := builders.Blobs("README.md", "src/a.ts", "dist/bundle.js", "docs/empty.md")
		fetcher := newFetcher(t, newSpy(entries, files))

		// when
		batch, batchErr := fetcher.FetchRepoContent(context.Background(), newRequest(entities.FormatJSON))
		stream, streamErr := fetcher.FetchRepoContentStream(context.Background(), newRequest(entities.FormatJSON))
		require.NoError(t, streamErr)
		var streamed []entities.FetchedFile
		for out, err := range stream.All(context.Background()) {
			require.NoError(t, err)
			require.Len(t, out.Files, 1)
			streamed = append(streamed, out.Files...)
		}

		// then
		require.NoError(t, batchErr)
		assert.ElementsMatch(t, batch.Files, streamed)
		assert.Equal(t, 3, stream.Total())
	})

	t.Run("should yield in enumeration order one file at a time", func(t *testing.T) {
		t.Parallel()

		// given
		files := map[string]string{"c.txt": "c", "a.txt": "a", "b.txt": "b"}
		spy := newSpy(builders.Blobs("c.txt", "a.txt", "b.txt"), files)
		fetcher := newFetcher(t, spy)
		req := newRequest(entities.FormatString)
		req.ApplyExclusions = false

		// when
		stream, err := fetcher.FetchRepoContentStream(context.Background(), req)
		require.NoError(t, err)
		requestedBeforeFirst := len(spy.Requested())
		var texts []string
		for stream.Next(context.Background()) {
			texts = append(texts, stream.Output().Text)
		}

		// then
		require.NoError(t, stream.Err())
		assert.Zero(t, requestedBeforeFirst)
		assert.Equal(t, []string{
			"File: c.txt\n" + rule() + "\nc\n",
			"File: a.txt\n" + rule() + "\na\n",
			"File: b.txt\n" + rule() + "\nb\n",
		}, texts)
	})

	t.Run("should end with an error at the failing file and keep earlier outputs", func(t *testing.T) {
		t.Parallel()

		// given
		files := map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c"}
		spy := newSpy(builders.Blobs("a.txt", "b.txt", "c.txt"), files)
		spy.ContentErrs = map[string]error{
			"b.txt": &entities.PermanentRequestError{Op: "get", StatusCode: 404, Err: errors.New("not found")},
		}
		fetcher := newFetcher(t, spy)
		req := newRequest(entities.FormatBuffer)
		req.ApplyExclusions = false

		// when
		stream, err := fetcher.FetchRepoContentStream(context.Background(), req)
		require.NoError(t, err)
		var outputs []entities.Output
		for stream.Next(context.Background()) {
			outputs = append(outputs, stream.Output())
		}

		// then
		require.Len(t, outputs, 1)
		assert.Equal(t, "File: a.txt\n"+rule()+"\na\n", string(outputs[0].Buffer))
		require.Error(t, stream.Err())
		assert.Contains(t, stream.Err().Error(), "failed to fetch b.txt")
		assert.False(t, stream.Next(context.Background()))
		assert.NotContains(t, spy.Requested(), "c.txt")
	})

	t.Run("should yield the error as the last pair of the sequence", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.txt", "b.txt"), map[string]string{"a.txt": "a", "b.txt": "b"})
		spy.ContentErrs = map[string]error{"b.txt": errors.New("boom")}
		fetcher := newFetcher(t, spy)
		req := newRequest(entities.FormatJSON)
		req.ApplyExclusions = false
		stream, err := fetcher.FetchRepoContentStream(context.Background(), req)
		require.NoError(t, err)

		// when
		var errs []error
		count := 0
		for _, itemErr := range stream.All(context.Background()) {
			count++
			if itemErr != nil {
				errs = append(errs, itemErr)
			}
		}

		// then
		assert.Equal(t, 2, count)
		require.Len(t, errs, 1)
		assert.ErrorContains(t, errs[0], "boom")
	})

	t.Run("should return setup failures from the opener", func(t *testing.T) {
		t.Parallel()

		// given
		spy := newSpy(builders.Blobs("a.txt"), map[string]string{"a.txt": "a"})
		spy.Quota = entities.QuotaSnapshot{Remaining: 0, Limit: 5000, ResetAt: time.Now()}
		fetcher := newFetcher(t, spy)

		// when
		stream, err := fetcher.FetchRepoContentStream(context.Background(), newRequest(entities.FormatJSON))

		// then
		assert.Nil(t, stream)
		var target *entities.QuotaExhaustedError
		assert.ErrorAs(t, err, &target)
	})

	t.Run("should stop pulling when the consumer breaks", func(t *testing.T) {
		t.Parallel()

		// given
		files := map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c"}
		spy := newSpy(builders.Blobs("a.txt", "b.txt", "c.txt"), files)
		fetcher := newFetcher(t, spy)
		req := newRequest(entities.FormatJSON)
		req.ApplyExclusions = false
		stream, err := fetcher.FetchRepoContentStream(context.Background(), req)
		require.NoError(t, err)

		// when
		for range stream.All(context.Background()) {
			break
		}

		// then
		assert.Equal(t, []string{"a.txt"}, spy.Requested())
	})
}

func rule() string {
	out := make([]byte, 80)
	for i := range out {
		out[i] = '='
	}
	return string(out)
}
