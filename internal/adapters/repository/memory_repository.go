package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/google/uuid"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.CompletionRepository = (*InMemoryCompletionRepository)(nil)
	_ domain.UserRepository       = (*InMemoryUserRepository)(nil)
)

func cloneHabit(h *domain.Habit) *domain.Habit {
	c := *h
	c.Recurrence = append([]int(nil), h.Recurrence...)
	if h.LastMarked != nil {
		t := *h.LastMarked
		c.LastMarked = &t
	}
	return &c
}

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = cloneHabit(habit)
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return cloneHabit(habit), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID {
			habits = append(habits, cloneHabit(h))
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}

	var last *time.Time
	if lastMarked != nil {
		t := *lastMarked
		last = &t
	}
	habit.UpdateProgress(streak, last)
	return nil
}

type completionKey struct {
	userID, habitID, date string
}

// InMemoryCompletionRepository enforces the (user, habit, date) key the same
// way the Postgres table does.
type InMemoryCompletionRepository struct {
	byID  map[string]*domain.CompletionRecord
	byKey map[completionKey]string

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{
		byID:  make(map[string]*domain.CompletionRecord),
		byKey: make(map[completionKey]string),
	}
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, record *domain.CompletionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey{record.UserID, record.HabitID, record.Date}
	if _, exists := r.byKey[key]; exists {
		return domain.ErrCompletionExists
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	clone := *record
	r.byID[record.ID] = &clone
	r.byKey[key] = record.ID
	return nil
}

func (r *InMemoryCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.UserID != userID {
		return domain.ErrCompletionNotFound
	}

	delete(r.byKey, completionKey{rec.UserID, rec.HabitID, rec.Date})
	delete(r.byID, id)
	return nil
}

func (r *InMemoryCompletionRepository) FindByKey(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byKey[completionKey{userID, habitID, date}]
	if !ok {
		return nil, domain.ErrCompletionNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *InMemoryCompletionRepository) ListHabitIDsByDate(ctx context.Context, userID, date string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for _, rec := range r.byID {
		if rec.UserID == userID && rec.Date == date {
			ids = append(ids, rec.HabitID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *InMemoryCompletionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.byID {
		if rec.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error) {
	return r.list(func(rec *domain.CompletionRecord) bool {
		return rec.HabitID == habitID
	}), nil
}

func (r *InMemoryCompletionRepository) ListByUserIDAndDateRange(ctx context.Context, userID, from, to string) ([]*domain.CompletionRecord, error) {
	return r.list(func(rec *domain.CompletionRecord) bool {
		return rec.UserID == userID && rec.Date >= from && rec.Date <= to
	}), nil
}

func (r *InMemoryCompletionRepository) list(match func(*domain.CompletionRecord) bool) []*domain.CompletionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.CompletionRecord{}
	for _, rec := range r.byID {
		if match(rec) {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

type InMemoryUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailAlreadyExists
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) UpdateScore(ctx context.Context, id string, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.HabitScore = score
	user.UpdatedAt = time.Now().UTC()
	return nil
}
