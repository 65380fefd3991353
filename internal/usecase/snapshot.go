// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
	"github.com/naka-gawa/top-repo-dashboard/internal/gateway"
)

// Builder is the use case for fetching a RepositorySnapshot of the most-starred repository.
// It orchestrates the fetching, validation and reshaping of GitHub data.
type Builder struct {
	fetcher gateway.Fetcher
	logger  zerolog.Logger
	now     func() time.Time
}

// NewBuilder creates a new Builder instance.
func NewBuilder(fetcher gateway.Fetcher, logger zerolog.Logger) *Builder {
	return &Builder{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Build fetches a complete snapshot of the most-starred repository.
// It either returns a fully populated snapshot or a *domain.FetchError, never both.
func (b *Builder) Build(ctx context.Context) (*domain.RepositorySnapshot, error) {
	b.logger.Info().Msg("searching most-starred repository")
	ref, err := b.fetcher.SearchTopRepository(ctx)
	if err != nil {
		return nil, domain.NewFetchError("search", err)
	}
	log := b.logger.With().Str("repo", ref.FullName()).Logger()
	log.Info().Msg("fetching repository data")

	var (
		repo      *github.Repository
		weeks     []*github.WeeklyCommitActivity
		languages map[string]int
	)

	// Use an errgroup to fetch all data concurrently.
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		repo, err = b.fetcher.GetRepository(egCtx, ref)
		return domain.NewFetchError("repository", err)
	})

	eg.Go(func() error {
		var err error
		weeks, err = b.fetcher.GetCommitActivity(egCtx, ref)
		return domain.NewFetchError("commit_activity", err)
	})

	eg.Go(func() error {
		var err error
		languages, err = b.fetcher.GetLanguages(egCtx, ref)
		return domain.NewFetchError("languages", err)
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Debug().Msg("all data fetched successfully")

	snap, err := assemble(repo, weeks, languages)
	if err != nil {
		return nil, domain.NewFetchError("assemble", err)
	}
	snap.FetchedAt = b.now()

	log.Info().
		Int("stars", snap.StargazersCount).
		Int("languages", len(snap.LanguagePercentages)).
		Msg("snapshot complete")
	return snap, nil
}

// assemble validates the raw GitHub records and reshapes them into a snapshot.
func assemble(repo *github.Repository, weeks []*github.WeeklyCommitActivity, languages map[string]int) (*domain.RepositorySnapshot, error) {
	if repo == nil || repo.GetName() == "" || repo.GetOwner().GetLogin() == "" {
		return nil, fmt.Errorf("repository detail without name or owner: %w", domain.ErrMalformedResponse)
	}
	last, err := lastWeeks(weeks, domain.WeeksRetained)
	if err != nil {
		return nil, err
	}
	shares, err := languagePercentages(languages)
	if err != nil {
		return nil, err
	}
	return &domain.RepositorySnapshot{
		Name:                repo.GetName(),
		HTMLURL:             repo.GetHTMLURL(),
		Owner:               domain.Owner{Login: repo.GetOwner().GetLogin()},
		StargazersCount:     repo.GetStargazersCount(),
		ForksCount:          repo.GetForksCount(),
		WatchersCount:       repo.GetSubscribersCount(),
		Last4WeeksCommits:   last,
		LanguagePercentages: shares,
	}, nil
}

// lastWeeks keeps the n most recent weeks of activity, oldest first.
func lastWeeks(weeks []*github.WeeklyCommitActivity, n int) ([]domain.WeekActivity, error) {
	if len(weeks) < n {
		return nil, fmt.Errorf("commit activity has %d weeks, need at least %d: %w", len(weeks), n, domain.ErrMalformedResponse)
	}
	out := make([]domain.WeekActivity, 0, n)
	for _, w := range weeks[len(weeks)-n:] {
		if w == nil || len(w.Days) != domain.DaysPerWeek || w.GetTotal() < 0 {
			return nil, fmt.Errorf("commit activity week is not 7 non-negative days: %w", domain.ErrMalformedResponse)
		}
		activity := domain.WeekActivity{Total: w.GetTotal()}
		if w.Week != nil {
			activity.Week = w.Week.Unix()
		}
		for i, d := range w.Days {
			if d < 0 {
				return nil, fmt.Errorf("commit activity day %d is negative: %w", i, domain.ErrMalformedResponse)
			}
			activity.Days[i] = d
		}
		out = append(out, activity)
	}
	return out, nil
}

// languagePercentages converts byte counts into percentage shares ordered by
// bytes descending, then by name. No languages gives an empty slice.
func languagePercentages(languages map[string]int) ([]domain.LanguageShare, error) {
	shares := make([]domain.LanguageShare, 0, len(languages))
	if len(languages) == 0 {
		return shares, nil
	}

	bytes := make([]float64, 0, len(languages))
	for name, n := range languages {
		if n < 0 {
			return nil, fmt.Errorf("language %s has negative byte count: %w", name, domain.ErrMalformedResponse)
		}
		shares = append(shares, domain.LanguageShare{Name: name, Bytes: n})
		bytes = append(bytes, float64(n))
	}
	total, err := stats.Sum(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sum language bytes: %w", err)
	}

	for i := range shares {
		if total > 0 {
			shares[i].Percent = float64(shares[i].Bytes) / total * 100
		}
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})
	return shares, nil
}
