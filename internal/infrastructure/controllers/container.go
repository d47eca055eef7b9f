package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewFetchController); err != nil {
		return err
	}
	if err := container.Provide(NewStreamController); err != nil {
		return err
	}
	if err := container.Provide(NewQuotaController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	fetchController *FetchController,
	streamController *StreamController,
	quotaController *QuotaController,
) *[]entities.Controller {
	return &[]entities.Controller{
		fetchController,
		streamController,
		quotaController,
	}
}
