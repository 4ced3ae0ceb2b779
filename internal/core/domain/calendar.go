package domain

import (
	"errors"
	"strconv"
	"time"
)

var ErrInvalidMonth = errors.New("invalid month (must be 0-11)")

// DayCell is one slot of a month grid. The zero value is leading padding,
// any other value is the day of the month.
type DayCell int

func (c DayCell) IsPadding() bool {
	return c == 0
}

func (c DayCell) MarshalJSON() ([]byte, error) {
	if c.IsPadding() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// DaysInMonth uses day 0 of the following month, which normalizes to the
// last day of the requested one. month is zero-based.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildCalendarGrid returns the cells for a month grid starting on Sunday:
// one padding cell per weekday before the 1st, then 1..N. No trailing padding.
// month is zero-based (0=January); out-of-range values roll over like time.Date.
func BuildCalendarGrid(year, month int) []DayCell {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	pad := int(first.Weekday())
	days := DaysInMonth(year, month)

	cells := make([]DayCell, pad, pad+days)
	for d := 1; d <= days; d++ {
		cells = append(cells, DayCell(d))
	}
	return cells
}

// CalendarDay carries the per-day figures a renderer uses to style a cell.
type CalendarDay struct {
	Day       int    `json:"day"`
	Date      string `json:"date"`
	DueHabits int    `json:"due_habits"`
	Completed int    `json:"completed"`
	Today     bool   `json:"today"`
}

type MonthView struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Cells []DayCell     `json:"cells"`
	Days  []CalendarDay `json:"days"`
}

type MonthInput struct {
	UserID string
	Year   int
	Month  int
	Now    time.Time
}
