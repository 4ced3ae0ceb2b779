package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrRecurrenceEmpty    = errors.New("recurrence must contain at least one weekday")
	ErrInvalidWeekdays    = errors.New("invalid weekdays (must be 0-6)")
	ErrHabitNotDue        = errors.New("habit is not scheduled on this date")
)

const MaxNameLen = 100

// Habit is a recurring commitment owned by one user. Recurrence holds weekday
// indices with 0=Sunday, the same convention as time.Weekday.
type Habit struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	Recurrence []int      `json:"recurrence"`
	CreatedAt  time.Time  `json:"created_at"`
	LastMarked *time.Time `json:"last_marked,omitempty"`
	Streak     int        `json:"streak"`
}

func normalizeWeekdays(days []int) []int {
	seen := make(map[int]bool, len(days))
	unique := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			unique = append(unique, d)
		}
	}

	sort.Ints(unique)
	return unique
}

func validate(name string, recurrence []int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ValidationError(ErrHabitNameEmpty)
	}
	if len(trimmed) > MaxNameLen {
		return ValidationError(ErrHabitNameTooLong)
	}

	if len(recurrence) == 0 {
		return ValidationError(ErrRecurrenceEmpty)
	}
	for _, day := range recurrence {
		if day < 0 || day > 6 {
			return ValidationError(ErrInvalidWeekdays)
		}
	}

	return nil
}

// NewHabit validates the input and returns a habit ready to be persisted.
// Streak and LastMarked start empty; they are maintained outside of scoring.
func NewHabit(userID, name string, recurrence []int) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	if err := validate(name, recurrence); err != nil {
		return nil, err
	}

	return &Habit{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Recurrence: normalizeWeekdays(recurrence),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsDue reports whether a habit with the given recurrence applies on date.
func IsDue(recurrence []int, date time.Time) bool {
	weekday := int(date.Weekday())
	for _, d := range recurrence {
		if d == weekday {
			return true
		}
	}
	return false
}

func (h *Habit) IsDueOn(date time.Time) bool {
	return IsDue(h.Recurrence, date)
}

// FilterDue keeps the habits due on date, preserving input order.
func FilterDue(habits []*Habit, date time.Time) []*Habit {
	due := make([]*Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsDueOn(date) {
			due = append(due, h)
		}
	}
	return due
}

func (h *Habit) UpdateProgress(streak int, lastMarked *time.Time) {
	h.Streak = streak
	h.LastMarked = lastMarked
}
