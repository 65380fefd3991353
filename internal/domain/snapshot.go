// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

const (
	// WeeksRetained is the number of most recent weeks of commit activity kept in a snapshot.
	WeeksRetained = 4
	// DaysPerWeek is the number of daily buckets in one WeekActivity, Sunday first.
	DaysPerWeek = 7
)

// RepoRef identifies a repository by owner login and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// WeekActivity holds the commit counts for one 7-day period.
type WeekActivity struct {
	Total int              `json:"total"`
	Days  [DaysPerWeek]int `json:"days"`
	// Week is the epoch-second marker reported by GitHub for the week's Sunday.
	Week int64 `json:"week"`
}

// LanguageShare is one language's share of a repository's code, in bytes and percent.
type LanguageShare struct {
	Name    string  `json:"name"`
	Bytes   int     `json:"bytes"`
	Percent float64 `json:"percent"`
}

// RepositorySnapshot is one fully fetched view of a repository's stats.
// It is the core domain entity of this application.
//
// A snapshot is built once per successful fetch and never modified afterwards;
// a newer fetch replaces it as a whole.
type RepositorySnapshot struct {
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Owner           Owner  `json:"owner"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	WatchersCount   int    `json:"watchers_count"`
	// Last4WeeksCommits is ordered oldest to newest.
	Last4WeeksCommits []WeekActivity `json:"last_4_weeks_commits"`
	// LanguagePercentages is ordered by bytes descending, then by name.
	LanguagePercentages []LanguageShare `json:"language_percentages"`
	FetchedAt           time.Time       `json:"fetched_at"`
}

// Ref returns the owner/name reference of the snapshot's repository.
func (s *RepositorySnapshot) Ref() RepoRef {
	return RepoRef{Owner: s.Owner.Login, Name: s.Name}
}

// Languages returns the language percentages keyed by language name.
func (s *RepositorySnapshot) Languages() map[string]float64 {
	out := make(map[string]float64, len(s.LanguagePercentages))
	for _, l := range s.LanguagePercentages {
		out[l.Name] = l.Percent
	}
	return out
}
