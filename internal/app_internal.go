package internal

import "github.com/rios0rios0/repofetch/internal/domain/entities"

// AppInternal holds everything main needs to build the CLI.
type AppInternal struct {
	controllers []entities.Controller
}

func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
