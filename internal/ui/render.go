package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naka-gawa/top-repo-dashboard/internal/chart"
	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

const (
	barMaxWidth = 40
	labelWidth  = 12
)

// sparkLevels are the glyphs of the daily sparkline, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// RenderCards renders the stars, forks and watchers cards side by side.
func RenderCards(snap *domain.RepositorySnapshot) string {
	card := func(title string, value int) string {
		return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(strconv.Itoa(value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Stars", snap.StargazersCount),
		card("Forks", snap.ForksCount),
		card("Watchers", snap.WatchersCount),
	)
}

// RenderWeekly renders the weekly totals as horizontal bars, highlighting the selected week.
func RenderWeekly(points []chart.WeekPoint, sel chart.Selection) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(fmt.Sprintf("Weekly commits, last %d weeks", domain.WeeksRetained)))
	sb.WriteString("\n")

	maxVal := 0
	for _, p := range points {
		maxVal = max(maxVal, p.Commits)
	}
	selected, ok := sel.Week()
	for _, p := range points {
		style := barStyle
		if ok && p.WeekIndex == selected {
			style = selectedBarStyle
		}
		sb.WriteString(barLine(p.Label, float64(p.Commits), float64(maxVal), strconv.Itoa(p.Commits), style))
	}
	return sb.String()
}

// RenderDaily renders the daily series. A single week is drawn as bars; more days
// are drawn as a sparkline with the first and last dates underneath.
func RenderDaily(points []chart.DayPoint, sel chart.Selection) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(sel.Title()))
	sb.WriteString("\n")
	if len(points) == 0 {
		return sb.String()
	}

	maxVal := 0
	for _, p := range points {
		maxVal = max(maxVal, p.Commits)
	}

	if len(points) <= domain.DaysPerWeek {
		for _, p := range points {
			sb.WriteString(barLine(p.Label, float64(p.Commits), float64(maxVal), strconv.Itoa(p.Commits), barStyle))
		}
		return sb.String()
	}

	var spark strings.Builder
	for i, p := range points {
		if i > 0 && i%domain.DaysPerWeek == 0 {
			spark.WriteRune(' ')
		}
		spark.WriteRune(sparkRune(float64(p.Commits), float64(maxVal)))
	}
	sb.WriteString(barStyle.Render(spark.String()))
	sb.WriteString("\n")

	first, last := points[0].Label, points[len(points)-1].Label
	width := lipgloss.Width(spark.String())
	gap := max(1, width-len(first)-len(last))
	sb.WriteString(labelStyle.Render(first + strings.Repeat(" ", gap) + last))
	sb.WriteString("\n")
	return sb.String()
}

// RenderLanguages renders the language shares as horizontal bars.
func RenderLanguages(points []chart.LanguagePoint) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render("Languages"))
	sb.WriteString("\n")
	for _, p := range points {
		sb.WriteString(barLine(p.Label, p.Percent, 100, p.Value+"%", barStyle))
	}
	return sb.String()
}

// RenderSummary renders the one-line summary of daily commits.
func RenderSummary(s chart.Summary, daily []chart.DayPoint) string {
	if s.BusiestDay < 0 {
		return ""
	}
	busiest := ""
	for _, p := range daily {
		if p.DayIndex == s.BusiestDay {
			busiest = fmt.Sprintf(", busiest %s (%d)", p.Label, s.Max)
			break
		}
	}
	return mutedStyle.Render(fmt.Sprintf("%d commits in %d weeks, mean %.2f/day, median %.1f%s",
		s.Total, domain.WeeksRetained, s.Mean, s.Median, busiest))
}

func barLine(label string, value, maxVal float64, text string, style lipgloss.Style) string {
	return labelStyle.Width(labelWidth).Render(truncate(label, labelWidth-1)) +
		style.Render(strings.Repeat("█", barWidth(value, maxVal))) +
		" " + text + "\n"
}

// barWidth scales value to at most barMaxWidth cells. Non-zero values get at least one.
func barWidth(value, maxVal float64) int {
	if maxVal <= 0 || value <= 0 {
		return 0
	}
	w := int(math.Round(value / maxVal * barMaxWidth))
	return min(max(w, 1), barMaxWidth)
}

func sparkRune(value, maxVal float64) rune {
	if maxVal <= 0 || value <= 0 {
		return sparkLevels[0]
	}
	i := int(math.Round(value / maxVal * float64(len(sparkLevels)-1)))
	return sparkLevels[min(i, len(sparkLevels)-1)]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
