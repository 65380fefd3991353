package chart

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// Summary describes the daily commit counts of the retained weeks.
type Summary struct {
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
	// BusiestDay is the index into the flattened days of the first day with Max commits,
	// or -1 when there are no days.
	BusiestDay int `json:"busiest_day"`
}

// Summarize computes a Summary over the flattened days of weeks.
func Summarize(weeks []domain.WeekActivity) Summary {
	days := FlattenDays(weeks)
	if len(days) == 0 {
		return Summary{BusiestDay: -1}
	}

	data := stats.LoadRawData(days)
	// The stats functions only fail on empty input, which is ruled out above.
	total, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	maxVal, _ := stats.Max(data)

	busiest := 0
	for i, d := range days {
		if float64(d) == maxVal {
			busiest = i
			break
		}
	}
	return Summary{
		Total:      int(total),
		Mean:       mean,
		Median:     median,
		Max:        int(maxVal),
		BusiestDay: busiest,
	}
}
