// Package ui implements the interactive terminal dashboard.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naka-gawa/top-repo-dashboard/internal/chart"
	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// SnapshotBuilder fetches the snapshot shown by the dashboard.
type SnapshotBuilder interface {
	Build(ctx context.Context) (*domain.RepositorySnapshot, error)
}

type snapshotLoadedMsg struct {
	snapshot *domain.RepositorySnapshot
}

type snapshotFailedMsg struct {
	err error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	builder SnapshotBuilder
	ctx     context.Context
	logger  zerolog.Logger
	now     func() time.Time

	help    help.Model
	keys    keyMap
	spinner spinner.Model

	snapshot  *domain.RepositorySnapshot
	failed    bool
	selection chart.Selection
}

// NewModel creates the dashboard model. The snapshot is fetched once, when the
// program starts; ctx bounds that fetch.
func NewModel(ctx context.Context, builder SnapshotBuilder, logger zerolog.Logger) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &Model{
		builder:   builder,
		ctx:       ctx,
		logger:    logger,
		now:       time.Now,
		help:      help.New(),
		keys:      newKeyMap(),
		spinner:   s,
		selection: chart.NewSelection(),
	}
}

// Init starts the spinner and the one and only fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

func (m *Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.builder.Build(m.ctx)
		if err != nil {
			return snapshotFailedMsg{err: err}
		}
		return snapshotLoadedMsg{snapshot: snap}
	}
}

// Update handles messages and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotLoadedMsg:
		m.snapshot = msg.snapshot
		m.logger.Info().Str("repo", msg.snapshot.Ref().FullName()).Msg("dashboard loaded")
		return m, nil

	case snapshotFailedMsg:
		// The dashboard stays in its pre-load state; the log carries the details.
		m.failed = true
		m.logger.Error().Err(msg.err).Str("reason", string(domain.ReasonOf(msg.err))).Msg("failed to fetch repository snapshot")
		return m, nil

	case spinner.TickMsg:
		if m.snapshot != nil || m.failed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.snapshot == nil {
		return m, nil
	}

	current, selected := m.selection.Week()
	switch {
	case key.Matches(msg, m.keys.SelectWeek):
		m.selectWeek(int(msg.Runes[0]-'1'))
	case key.Matches(msg, m.keys.Next):
		if !selected {
			m.selectWeek(0)
		} else {
			m.selectWeek(min(current+1, domain.WeeksRetained-1))
		}
	case key.Matches(msg, m.keys.Prev):
		if !selected {
			m.selectWeek(domain.WeeksRetained - 1)
		} else {
			m.selectWeek(max(current-1, 0))
		}
	case key.Matches(msg, m.keys.Clear):
		m.selection.Clear()
	}
	return m, nil
}

func (m *Model) selectWeek(w int) {
	if err := m.selection.Select(w); err != nil {
		m.logger.Debug().Err(err).Msg("ignoring week selection")
	}
}

// Selection returns the current week selection.
func (m *Model) Selection() chart.Selection {
	return m.selection
}

// View renders the dashboard.
func (m *Model) View() string {
	if m.snapshot == nil {
		return m.viewLoading()
	}

	// One "now" per render keeps every daily label on the same calendar.
	now := m.now()
	series := chart.Build(m.snapshot, m.selection, now)
	allDays := chart.DailySeries(m.snapshot.Last4WeeksCommits, chart.NewSelection(), now)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Dashboard: %s", m.snapshot.Name)))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(m.snapshot.HTMLURL))
	sb.WriteString("\n")
	sb.WriteString(RenderCards(m.snapshot))
	sb.WriteString("\n")
	sb.WriteString(RenderWeekly(series.Weekly, m.selection))
	sb.WriteString(RenderDaily(series.Daily, m.selection))
	sb.WriteString(RenderLanguages(series.Languages))
	sb.WriteString("\n")
	if summary := RenderSummary(series.Summary, allDays); summary != "" {
		sb.WriteString(summary)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	sb.WriteString("\n")
	return sb.String()
}

func (m *Model) viewLoading() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Dashboard"))
	sb.WriteString("\n")
	if m.failed {
		sb.WriteString(mutedStyle.Render("No data. Run with --verbose and log.file set to see why the fetch failed."))
	} else {
		sb.WriteString(fmt.Sprintf("%s Loading most-starred repository...", m.spinner.View()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("q: quit"))
	sb.WriteString("\n")
	return sb.String()
}
