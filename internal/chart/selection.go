package chart

import (
	"errors"
	"fmt"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

// ErrWeekOutOfRange is returned when selecting a week outside [0, WeeksRetained).
var ErrWeekOutOfRange = errors.New("week out of range")

// Selection is the week currently highlighted in the weekly chart, if any.
// The zero value selects nothing.
type Selection struct {
	week int
	set  bool
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{}
}

// SelectedWeek returns a selection of the zero-based week w.
func SelectedWeek(w int) (Selection, error) {
	var s Selection
	if err := s.Select(w); err != nil {
		return Selection{}, err
	}
	return s, nil
}

// Select highlights the zero-based week w.
func (s *Selection) Select(w int) error {
	if w < 0 || w >= domain.WeeksRetained {
		return fmt.Errorf("%w: %d", ErrWeekOutOfRange, w)
	}
	s.week, s.set = w, true
	return nil
}

// Clear drops the highlight.
func (s *Selection) Clear() {
	s.week, s.set = 0, false
}

// Week returns the selected week and whether one is selected.
func (s Selection) Week() (int, bool) {
	return s.week, s.set
}

// Title is the heading of the daily chart for this selection.
func (s Selection) Title() string {
	if !s.set {
		return fmt.Sprintf("Daily commits, last %d weeks", domain.WeeksRetained)
	}
	return fmt.Sprintf("Daily commits, week %d", s.week+1)
}
