package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// Stream is the interface for the stream command.
type Stream interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		opts FetchOptions,
		emit func(entities.Output) error,
	) error
}

// StreamCommand fetches a repository snapshot file by file, handing each
// rendered file to emit as soon as it arrives.
type StreamCommand struct {
	factory *RepoFetcherFactory
}

// NewStreamCommand creates a new StreamCommand.
func NewStreamCommand(factory *RepoFetcherFactory) *StreamCommand {
	return &StreamCommand{factory: factory}
}

// Execute stops at the first fetch error or the first error returned by emit.
func (it *StreamCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts FetchOptions,
	emit func(entities.Output) error,
) error {
	fetcher, cleanup, err := it.factory.Build(settings)
	if err != nil {
		return err
	}
	defer cleanup()

	stream, err := fetcher.FetchRepoContentStream(ctx, opts.request())
	if err != nil {
		return err
	}

	for out, streamErr := range stream.All(ctx) {
		if streamErr != nil {
			return streamErr
		}
		if emitErr := emit(out); emitErr != nil {
			return fmt.Errorf("failed to emit output: %w", emitErr)
		}
	}
	return nil
}
