package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/domain/entities"
)

// Repository is re-exported from gitforge.
// Organization holds the owner (user, organization or GitLab namespace),
// Name the repository and DefaultBranch the branch a fetch resolves.
type Repository = gitforgeEntities.Repository

// NewRepository builds the repository reference used by every provider call.
func NewRepository(owner, name, branch string) Repository {
	return Repository{
		ID:            owner + "/" + name,
		Name:          name,
		Organization:  owner,
		DefaultBranch: branch,
	}
}

// FullName returns the "owner/name" form of a repository.
func FullName(repo Repository) string {
	return repo.Organization + "/" + repo.Name
}
