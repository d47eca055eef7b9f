package commands

import (
	"context"
	"iter"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// ContentStream yields one rendered file at a time, in enumeration order.
// It is single pass: once Next returns false it stays exhausted. Outputs
// already returned stay valid after a failure.
type ContentStream struct {
	fetcher *RepoFetcher
	plan    *fetchPlan
	decode  bool
	format  entities.OutputFormat

	position int
	current  entities.Output
	err      error
	done     bool
}

func newContentStream(fetcher *RepoFetcher, plan *fetchPlan, req FetchRequest) *ContentStream {
	return &ContentStream{
		fetcher: fetcher,
		plan:    plan,
		decode:  req.Decode,
		format:  req.Format,
	}
}

// Next fetches files until one has content and makes it available through
// Output. It returns false at the end of the listing or on the first error.
func (s *ContentStream) Next(ctx context.Context) bool {
	if s.done {
		return false
	}

	for s.position < len(s.plan.files) {
		entry := s.plan.files[s.position]
		s.position++

		file, err := s.fetcher.FetchContent(ctx, s.plan.repo, s.plan.ref, entry, s.decode)
		if err != nil {
			return s.fail(err)
		}
		if file == nil {
			continue
		}

		out, err := entities.RenderFile(s.format, *file)
		if err != nil {
			return s.fail(err)
		}
		s.current = out
		return true
	}

	s.done = true
	s.current = entities.Output{}
	return false
}

// Output returns the file made available by the last successful Next.
func (s *ContentStream) Output() entities.Output {
	return s.current
}

// Err returns the error that ended the stream, if any.
func (s *ContentStream) Err() error {
	return s.err
}

// Total returns the number of enumerated files, including ones that later
// turn out to have no content.
func (s *ContentStream) Total() int {
	return len(s.plan.files)
}

// All adapts the stream to a range-over-func sequence. A failure is yielded
// once as the final pair.
func (s *ContentStream) All(ctx context.Context) iter.Seq2[entities.Output, error] {
	return func(yield func(entities.Output, error) bool) {
		for s.Next(ctx) {
			if !yield(s.Output(), nil) {
				return
			}
		}
		if s.err != nil {
			yield(entities.Output{}, s.err)
		}
	}
}

func (s *ContentStream) fail(err error) bool {
	s.err = err
	s.done = true
	s.current = entities.Output{}
	return false
}
