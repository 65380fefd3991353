package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("99")  // Purple - titles
	colorSecondary = lipgloss.Color("86")  // Cyan - chart headings
	colorBar       = lipgloss.Color("250") // Default bar
	colorSelected  = lipgloss.Color("226") // Yellow - selected week
	colorMuted     = lipgloss.Color("241")
	colorSpinner   = lipgloss.Color("205")
	colorCardEdge  = lipgloss.Color("240")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(1, 0)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary).
			MarginTop(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCardEdge).
			Padding(0, 2).
			MarginRight(1)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(colorBar)

	selectedBarStyle = lipgloss.NewStyle().
				Foreground(colorSelected).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorSpinner)
)
