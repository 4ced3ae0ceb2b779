package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCompletionNotFound = errors.New("completion record not found")
	ErrCompletionExists   = errors.New("completion record already exists")
)

// CompletionRecord is the evidence that a habit was done on one calendar day.
// The logical key is (UserID, HabitID, Date); ID is assigned by the store.
type CompletionRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	Date      string    `json:"date" db:"date"`
	Completed bool      `json:"completed" db:"completed"`
	MarkedAt  time.Time `json:"marked_at" db:"marked_at"`
}

func NewCompletionRecord(userID, habitID, date string) *CompletionRecord {
	return &CompletionRecord{
		UserID:    userID,
		HabitID:   habitID,
		Date:      date,
		Completed: true,
		MarkedAt:  time.Now().UTC(),
	}
}

func (c *CompletionRecord) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
