package out

import (
	"context"

	"devconnect_server/core/domain"
)

// GithubProvider defines the outbound port for fetching a user's public
// repositories from the GitHub API.
type GithubProvider interface {
	ListRepos(ctx context.Context, username string, limit int) ([]domain.GithubRepo, error)
}
