package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

type stubBuilder struct {
	snapshot *domain.RepositorySnapshot
	err      error
	calls    int
}

func (s *stubBuilder) Build(ctx context.Context) (*domain.RepositorySnapshot, error) {
	s.calls++
	return s.snapshot, s.err
}

var wednesday = time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC)

func sampleSnapshot() *domain.RepositorySnapshot {
	return &domain.RepositorySnapshot{
		Name:            "freeCodeCamp",
		HTMLURL:         "https://github.com/freeCodeCamp/freeCodeCamp",
		Owner:           domain.Owner{Login: "freeCodeCamp"},
		StargazersCount: 400000,
		ForksCount:      38000,
		WatchersCount:   8500,
		Last4WeeksCommits: []domain.WeekActivity{
			{Total: 5, Days: [7]int{0, 1, 0, 2, 1, 0, 1}},
			{Total: 3, Days: [7]int{1, 0, 0, 1, 0, 1, 0}},
			{Total: 10, Days: [7]int{2, 2, 1, 1, 2, 1, 1}},
			{Total: 7, Days: [7]int{0, 3, 1, 1, 1, 1, 0}},
		},
		LanguagePercentages: []domain.LanguageShare{
			{Name: "JavaScript", Bytes: 300, Percent: 75},
			{Name: "TypeScript", Bytes: 100, Percent: 25},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(builder SnapshotBuilder, logger zerolog.Logger) *Model {
	m := NewModel(context.Background(), builder, logger)
	m.now = func() time.Time { return wednesday }
	return m
}

func loadedModel(t *testing.T) *Model {
	builder := &stubBuilder{snapshot: sampleSnapshot()}
	m := newTestModel(builder, zerolog.Nop())
	msg := m.fetchCmd()()
	require.IsType(t, snapshotLoadedMsg{}, msg)
	m.Update(msg)
	return m
}

func TestModel_PreLoad(t *testing.T) {
	m := newTestModel(&stubBuilder{}, zerolog.Nop())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading most-starred repository")

	// Week keys do nothing before the snapshot is loaded.
	m.Update(runes("2"))
	_, ok := m.Selection().Week()
	assert.False(t, ok)
}

func TestModel_Loaded(t *testing.T) {
	m := loadedModel(t)
	view := m.View()

	assert.Contains(t, view, "Dashboard: freeCodeCamp")
	assert.Contains(t, view, "Stars")
	assert.Contains(t, view, "400000")
	assert.Contains(t, view, "38000")
	assert.Contains(t, view, "8500")
	assert.Contains(t, view, "Week 1")
	assert.Contains(t, view, "Week 4")
	assert.Contains(t, view, "Daily commits, last 4 weeks")
	assert.Contains(t, view, "18/2")
	assert.Contains(t, view, "16/3")
	assert.Contains(t, view, "75.000%")
	assert.Contains(t, view, "25.000%")
	assert.Contains(t, view, "busiest 11/3 (3)")
}

func TestModel_WeekSelection(t *testing.T) {
	m := loadedModel(t)

	m.Update(runes("3"))
	week, ok := m.Selection().Week()
	require.True(t, ok)
	assert.Equal(t, 2, week)
	view := m.View()
	assert.Contains(t, view, "Daily commits, week 3")
	assert.Contains(t, view, "3/3")
	assert.Contains(t, view, "9/3")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	week, _ = m.Selection().Week()
	assert.Equal(t, 3, week)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	week, _ = m.Selection().Week()
	assert.Equal(t, 3, week, "selection stops at the last week")

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	week, _ = m.Selection().Week()
	assert.Equal(t, 2, week)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, ok = m.Selection().Week()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Daily commits, last 4 weeks")

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	week, ok = m.Selection().Week()
	assert.True(t, ok)
	assert.Equal(t, 3, week, "left with nothing selected picks the newest week")
}

func TestModel_FetchFailure(t *testing.T) {
	var logs bytes.Buffer
	builder := &stubBuilder{err: &domain.FetchError{Op: "search", Reason: domain.ReasonEmptyResult, Err: domain.ErrEmptySearchResult}}
	m := newTestModel(builder, zerolog.New(&logs))

	msg := m.fetchCmd()()
	require.IsType(t, snapshotFailedMsg{}, msg)
	m.Update(msg)

	assert.Equal(t, 1, builder.calls)
	assert.Contains(t, m.View(), "No data")
	assert.NotContains(t, m.View(), "Dashboard: ")
	assert.Contains(t, logs.String(), "failed to fetch repository snapshot")
	assert.Contains(t, logs.String(), "empty_result")
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_IgnoresUnknownKeys(t *testing.T) {
	m := loadedModel(t)
	_, cmd := m.Update(runes("x"))
	assert.Nil(t, cmd)
}
