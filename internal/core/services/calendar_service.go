package services

import (
	"context"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

type CalendarService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
}

func NewCalendarService(habits domain.HabitRepository, completions domain.CompletionRepository) *CalendarService {
	return &CalendarService{
		habits:      habits,
		completions: completions,
	}
}

// Month returns the grid for a zero-based month plus the per-day figures a
// renderer needs to style the cells.
func (s *CalendarService) Month(ctx context.Context, input domain.MonthInput) (*domain.MonthView, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if input.Month < 0 || input.Month > 11 {
		return nil, domain.ValidationError(domain.ErrInvalidMonth)
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := domain.FormatDate(now)

	days := domain.DaysInMonth(input.Year, input.Month)
	first := time.Date(input.Year, time.Month(input.Month+1), 1, 0, 0, 0, 0, time.Local)
	last := time.Date(input.Year, time.Month(input.Month+1), days, 0, 0, 0, 0, time.Local)

	habits, err := s.habits.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, domain.FetchError("list habits", err)
	}

	records, err := s.completions.ListByUserIDAndDateRange(ctx, input.UserID, domain.FormatDate(first), domain.FormatDate(last))
	if err != nil {
		return nil, domain.FetchError("list completions for month", err)
	}

	completedByDate := make(map[string]int, len(records))
	for _, r := range records {
		if r.Completed {
			completedByDate[r.Date]++
		}
	}

	view := &domain.MonthView{
		Year:  input.Year,
		Month: input.Month,
		Cells: domain.BuildCalendarGrid(input.Year, input.Month),
		Days:  make([]domain.CalendarDay, 0, days),
	}

	for d := 1; d <= days; d++ {
		date := time.Date(input.Year, time.Month(input.Month+1), d, 0, 0, 0, 0, time.Local)
		key := domain.FormatDate(date)
		view.Days = append(view.Days, domain.CalendarDay{
			Day:       d,
			Date:      key,
			DueHabits: len(domain.FilterDue(habits, date)),
			Completed: completedByDate[key],
			Today:     key == today,
		})
	}

	return view, nil
}
