// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/rs/zerolog"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// topRepositoryQuery is the search for the most-starred repository.
const topRepositoryQuery = "stars:>=1"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SearchTopRepository(ctx context.Context) (domain.RepoRef, error)
	GetRepository(ctx context.Context, ref domain.RepoRef) (*github.Repository, error)
	GetCommitActivity(ctx context.Context, ref domain.RepoRef) ([]*github.WeeklyCommitActivity, error)
	GetLanguages(ctx context.Context, ref domain.RepoRef) (map[string]int, error)
}

// Options configures a GitHubGateway.
type Options struct {
	// Token is the bearer token. Empty means anonymous access through REST only.
	Token string
	// BaseURL points both clients at a GitHub Enterprise instance when set.
	BaseURL string
	// RequestTimeout bounds every HTTP request.
	RequestTimeout time.Duration
	// StatsRetries is how many more times commit activity is requested while GitHub
	// answers 202 Accepted.
	StatsRetries int
	// StatsRetryInterval is the wait between those requests.
	StatsRetryInterval time.Duration
	// SecondaryLimitWait is the longest single sleep on a secondary rate limit.
	SecondaryLimitWait time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	useGraphQL    bool
	statsRetries  int
	retryInterval time.Duration
	logger        zerolog.Logger
}

// topRepositoryGraphQLQuery asks for the first repository of a star-sorted search.
type topRepositoryGraphQLQuery struct {
	Search struct {
		RepositoryCount int
		Nodes           []struct {
			Typename   string `graphql:"__typename"`
			Repository struct {
				Name  string
				Owner struct {
					Login string
				}
			} `graphql:"... on Repository"`
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger zerolog.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(opts.SecondaryLimitWait, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   opts.RequestTimeout,
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := strings.TrimSuffix(opts.BaseURL, "/")
		restClient, err = restClient.WithEnterpriseURLs(base+"/api/v3/", base+"/api/uploads/")
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise urls: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(base+"/api/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		useGraphQL:    opts.Token != "",
		statsRetries:  opts.StatsRetries,
		retryInterval: opts.StatsRetryInterval,
		logger:        logger,
	}, nil
}

// SearchTopRepository returns the repository with the most stars.
// GraphQL needs a token, so anonymous gateways search through REST.
func (g *GitHubGateway) SearchTopRepository(ctx context.Context) (domain.RepoRef, error) {
	if g.useGraphQL {
		return g.searchTopRepositoryGraphQL(ctx)
	}
	return g.searchTopRepositoryREST(ctx)
}

func (g *GitHubGateway) searchTopRepositoryREST(ctx context.Context) (domain.RepoRef, error) {
	g.logger.Debug().Str("query", topRepositoryQuery).Msg("searching top repository with REST API")
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	result, _, err := g.restClient.Search.Repositories(ctx, topRepositoryQuery, opts)
	if err != nil {
		return domain.RepoRef{}, fmt.Errorf("failed to search repositories with REST API: %w", err)
	}
	if len(result.Repositories) == 0 {
		return domain.RepoRef{}, fmt.Errorf("failed to search repositories with REST API: %w", domain.ErrEmptySearchResult)
	}
	top := result.Repositories[0]
	ref := domain.RepoRef{Owner: top.GetOwner().GetLogin(), Name: top.GetName()}
	if ref.Owner == "" || ref.Name == "" {
		return domain.RepoRef{}, fmt.Errorf("search result without owner or name: %w", domain.ErrMalformedResponse)
	}
	return ref, nil
}

func (g *GitHubGateway) searchTopRepositoryGraphQL(ctx context.Context) (domain.RepoRef, error) {
	query := topRepositoryQuery + " sort:stars-desc"
	g.logger.Debug().Str("query", query).Msg("searching top repository with GraphQL API")
	variables := map[string]interface{}{"query": githubv4.String(query)}

	var q topRepositoryGraphQLQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return domain.RepoRef{}, fmt.Errorf("failed to execute GraphQL search query: %w", err)
	}
	for _, node := range q.Search.Nodes {
		if node.Typename != "" && node.Typename != "Repository" {
			continue
		}
		ref := domain.RepoRef{Owner: node.Repository.Owner.Login, Name: node.Repository.Name}
		if ref.Owner == "" || ref.Name == "" {
			return domain.RepoRef{}, fmt.Errorf("search result without owner or name: %w", domain.ErrMalformedResponse)
		}
		return ref, nil
	}
	return domain.RepoRef{}, fmt.Errorf("failed to execute GraphQL search query: %w", domain.ErrEmptySearchResult)
}

// GetRepository fetches the repository detail record.
func (g *GitHubGateway) GetRepository(ctx context.Context, ref domain.RepoRef) (*github.Repository, error) {
	g.logger.Debug().Str("repo", ref.FullName()).Msg("fetching repository detail")
	repo, _, err := g.restClient.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s: %w", ref.FullName(), err)
	}
	return repo, nil
}

// GetCommitActivity fetches the last 52 weeks of commit activity, oldest first.
// GitHub answers 202 Accepted until it has computed the statistics, so the request
// is repeated up to statsRetries more times.
func (g *GitHubGateway) GetCommitActivity(ctx context.Context, ref domain.RepoRef) ([]*github.WeeklyCommitActivity, error) {
	for attempt := 0; ; attempt++ {
		g.logger.Debug().Str("repo", ref.FullName()).Int("attempt", attempt+1).Msg("fetching commit activity")
		weeks, _, err := g.restClient.Repositories.ListCommitActivity(ctx, ref.Owner, ref.Name)
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			if err != nil {
				return nil, fmt.Errorf("failed to list commit activity for %s: %w", ref.FullName(), err)
			}
			return weeks, nil
		}
		if attempt >= g.statsRetries {
			return nil, fmt.Errorf("failed to list commit activity for %s after %d attempts: %w", ref.FullName(), attempt+1, domain.ErrStatsPending)
		}
		g.logger.Info().Str("repo", ref.FullName()).Dur("wait", g.retryInterval).Msg("commit statistics not ready yet, waiting")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(g.retryInterval):
		}
	}
}

// GetLanguages fetches the number of bytes written in each language.
func (g *GitHubGateway) GetLanguages(ctx context.Context, ref domain.RepoRef) (map[string]int, error) {
	g.logger.Debug().Str("repo", ref.FullName()).Msg("fetching languages")
	languages, _, err := g.restClient.Repositories.ListLanguages(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages for %s: %w", ref.FullName(), err)
	}
	return languages, nil
}
