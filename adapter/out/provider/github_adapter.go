// Package provider implements adapters for external APIs.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devconnect_server/core/domain"
	"devconnect_server/core/port/out"
	"devconnect_server/pkg/apperr"
	"devconnect_server/pkg/httputil"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// =============================================================================
// GitHub Adapter
// =============================================================================

// GithubAdapter implements out.GithubProvider against the GitHub REST
// API, guarded by a circuit breaker.
type GithubAdapter struct {
	baseURL string
	token   string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

// GithubConfig holds GitHub API configuration.
type GithubConfig struct {
	BaseURL string
	// Token is optional; unauthenticated requests work with a lower
	// rate limit.
	Token   string
	Timeout time.Duration
}

// NewGithubAdapter creates a new GitHub adapter.
func NewGithubAdapter(cfg *GithubConfig, logger zerolog.Logger) *GithubAdapter {
	cbSettings := gobreaker.Settings{
		Name:        "github-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &GithubAdapter{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  httputil.NewPooledClient(httputil.GithubClientConfig(cfg.Timeout)),
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		logger:  logger,
	}
}

// repoResponse mirrors the fields we keep from the GitHub repos API.
type repoResponse struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
}

// ListRepos fetches a user's most recently created public repos.
func (a *GithubAdapter) ListRepos(ctx context.Context, username string, limit int) ([]domain.GithubRepo, error) {
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=created:asc",
		a.baseURL, url.PathEscape(username), limit)

	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.fetchRepos(ctx, username, endpoint)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			a.logger.Warn().Str("username", username).Msg("github circuit open, rejecting request")
			return nil, apperr.ExternalError("github", err)
		}
		return nil, err
	}
	return result.([]domain.GithubRepo), nil
}

func (a *GithubAdapter) fetchRepos(ctx context.Context, username, endpoint string) ([]domain.GithubRepo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnect-server")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("github user")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		a.logger.Error().
			Int("status", resp.StatusCode).
			Str("username", username).
			Bytes("body", body).
			Msg("github api error")
		return nil, apperr.ExternalError("github", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var repos []repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}

	result := make([]domain.GithubRepo, len(repos))
	for i, r := range repos {
		result[i] = domain.GithubRepo{
			Name:        r.Name,
			HTMLURL:     r.HTMLURL,
			Description: r.Description,
			Stars:       r.Stars,
			Forks:       r.Forks,
		}
	}
	return result, nil
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.GithubProvider = (*GithubAdapter)(nil)
