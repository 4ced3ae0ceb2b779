package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

// HabitRepository stores habit definitions. Every list query filters on the owner.
type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID retrieves the habits of one user. Order is not guaranteed.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// UpdateProgress writes the streak bookkeeping fields. Scoring never reads them.
	UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error
}

// CompletionRepository is the document collection behind the completion ledger.
// It offers insert, point delete and equality queries; it does not upsert.
type CompletionRepository interface {
	// Create inserts a record. Stores with a unique key on (user, habit, date)
	// return ErrCompletionExists instead of inserting a duplicate.
	Create(ctx context.Context, record *CompletionRecord) error

	// Delete removes the record with the given id if it belongs to userID.
	Delete(ctx context.Context, id string, userID string) error

	// FindByKey returns ErrCompletionNotFound when no record matches.
	FindByKey(ctx context.Context, userID, habitID, date string) (*CompletionRecord, error)

	// ListHabitIDsByDate returns the ids of habits completed by userID on date.
	ListHabitIDsByDate(ctx context.Context, userID, date string) ([]string, error)

	// CountByUserID returns how many records userID owns, without loading them.
	CountByUserID(ctx context.Context, userID string) (int, error)

	// ListByHabitID returns the whole history of one habit.
	ListByHabitID(ctx context.Context, habitID string) ([]*CompletionRecord, error)

	// ListByUserIDAndDateRange returns records with from <= date <= to.
	ListByUserIDAndDateRange(ctx context.Context, userID, from, to string) ([]*CompletionRecord, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateScore(ctx context.Context, id string, score int) error
}
