package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

// ChecklistService builds a day's checklist from the registry and the ledger
// and applies toggles against the ledger.
type ChecklistService struct {
	habits    domain.HabitRepository
	ledger    *CompletionLedger
	observers []domain.ToggleObserver
}

func NewChecklistService(habits domain.HabitRepository, ledger *CompletionLedger, observers ...domain.ToggleObserver) *ChecklistService {
	return &ChecklistService{
		habits:    habits,
		ledger:    ledger,
		observers: observers,
	}
}

type ToggleInput struct {
	UserID    string
	HabitID   string
	Date      time.Time
	Completed bool
}

func (s *ChecklistService) GetChecklist(ctx context.Context, userID string, date time.Time) (*domain.Checklist, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	day := domain.FormatDate(date)

	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return nil, domain.FetchError("list habits", err)
	}

	due := domain.FilterDue(habits, date)

	completed, err := s.ledger.CompletedHabitIDs(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return domain.NewChecklist(day, due, completed), nil
}

// Toggle writes the requested state and returns the checklist as re-read from
// the store. The returned list never reflects a locally flipped flag.
// A failed re-read after a successful write yields the failed placeholder
// together with the fetch error.
func (s *ChecklistService) Toggle(ctx context.Context, input ToggleInput) (*domain.Checklist, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(input.HabitID) == "" {
		return nil, domain.ValidationError(errors.New("habit_id is required"))
	}

	day := domain.FormatDate(input.Date)

	if input.Completed {
		habit, err := s.habits.GetByID(ctx, input.HabitID)
		if err != nil {
			if errors.Is(err, domain.ErrHabitNotFound) {
				return nil, domain.ErrHabitNotFound
			}
			return nil, domain.FetchError("get habit", err)
		}
		if habit.UserID != input.UserID {
			return nil, domain.ErrHabitNotFound
		}
		if !habit.IsDueOn(input.Date) {
			return nil, domain.ValidationError(domain.ErrHabitNotDue)
		}

		if _, err := s.ledger.UpsertComplete(ctx, input.UserID, input.HabitID, day); err != nil {
			return nil, err
		}
	} else {
		if err := s.ledger.Remove(ctx, input.UserID, input.HabitID, day); err != nil {
			return nil, err
		}
	}

	event := domain.ToggleEvent{
		UserID:    input.UserID,
		HabitID:   input.HabitID,
		Date:      day,
		Completed: input.Completed,
	}
	for _, o := range s.observers {
		o.OnToggle(ctx, event)
	}

	checklist, err := s.GetChecklist(ctx, input.UserID, input.Date)
	if err != nil {
		return domain.FailedChecklist(day), err
	}
	return checklist, nil
}
