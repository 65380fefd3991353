// Package chart turns a repository snapshot into chart-ready series.
//
// Every function here is pure: it never panics, never mutates its input, and
// returns an empty (non-nil) series when given nothing to work with.
package chart

import (
	"fmt"
	"strconv"
	"time"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// WeekPoint is one bar of the weekly commits chart.
type WeekPoint struct {
	Label     string `json:"label"`
	Commits   int    `json:"commits"`
	WeekIndex int    `json:"week_index"`
}

// DayPoint is one point of the daily commits chart.
type DayPoint struct {
	Label    string    `json:"label"`
	Commits  int       `json:"commits"`
	DayIndex int       `json:"day_index"`
	Date     time.Time `json:"date"`
}

// LanguagePoint is one bar of the language chart. Value is Percent with three decimals.
type LanguagePoint struct {
	Label   string  `json:"label"`
	Value   string  `json:"value"`
	Percent float64 `json:"percent"`
}

// WeeklySeries maps each week, oldest first, to a "Week N" point.
// WeekIndex is what hover events use to select a week, so order must be kept.
func WeeklySeries(weeks []domain.WeekActivity) []WeekPoint {
	points := make([]WeekPoint, 0, len(weeks))
	for i, w := range weeks {
		points = append(points, WeekPoint{
			Label:     fmt.Sprintf("Week %d", i+1),
			Commits:   w.Total,
			WeekIndex: i,
		})
	}
	return points
}

// FlattenDays concatenates the daily counts of all weeks, oldest day first.
func FlattenDays(weeks []domain.WeekActivity) []int {
	days := make([]int, 0, len(weeks)*domain.DaysPerWeek)
	for _, w := range weeks {
		days = append(days, w.Days[:]...)
	}
	return days
}

// DailySeries returns one point per day of the given weeks, labelled "day/month".
//
// The last week is taken to be the current one, so the day at the start of the
// last week is the Sunday on or before now. For four weeks, position i falls on
// now + (i - 21 - weekday(now)) days. When sel holds a week only that week's seven
// points are returned.
func DailySeries(weeks []domain.WeekActivity, sel Selection, now time.Time) []DayPoint {
	days := FlattenDays(weeks)
	points := make([]DayPoint, 0, len(days))
	if len(days) == 0 {
		return points
	}

	lastWeekStart := len(days) - domain.DaysPerWeek
	selected, filter := sel.Week()
	for i, commits := range days {
		if filter && i/domain.DaysPerWeek != selected {
			continue
		}
		date := dayDate(now, i-lastWeekStart-int(now.Weekday()))
		points = append(points, DayPoint{
			Label:    fmt.Sprintf("%d/%d", date.Day(), int(date.Month())),
			Commits:  commits,
			DayIndex: i,
			Date:     date,
		})
	}
	return points
}

// dayDate is midnight of now's calendar day shifted by offset days, in now's location.
// Calendar arithmetic keeps days whole across DST changes.
func dayDate(now time.Time, offset int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, now.Location())
}

// LanguageSeries returns one point per language in the snapshot's order.
func LanguageSeries(shares []domain.LanguageShare) []LanguagePoint {
	points := make([]LanguagePoint, 0, len(shares))
	for _, s := range shares {
		points = append(points, LanguagePoint{
			Label:   s.Name,
			Value:   strconv.FormatFloat(s.Percent, 'f', 3, 64),
			Percent: s.Percent,
		})
	}
	return points
}

// Series bundles the three chart series and the summary derived from one snapshot.
type Series struct {
	Weekly    []WeekPoint     `json:"weekly"`
	Daily     []DayPoint      `json:"daily"`
	Languages []LanguagePoint `json:"languages"`
	Summary   Summary         `json:"summary"`
}

// Build derives every series from snap. A nil snapshot gives empty series.
func Build(snap *domain.RepositorySnapshot, sel Selection, now time.Time) Series {
	var (
		weeks  []domain.WeekActivity
		shares []domain.LanguageShare
	)
	if snap != nil {
		weeks = snap.Last4WeeksCommits
		shares = snap.LanguagePercentages
	}
	return Series{
		Weekly:    WeeklySeries(weeks),
		Daily:     DailySeries(weeks, sel, now),
		Languages: LanguageSeries(shares),
		Summary:   Summarize(weeks),
	}
}
