package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockHabitRepository struct {
	mock.Mock
}

func (m *MockHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *MockHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *MockHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

func (m *MockHabitRepository) UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error {
	return m.Called(ctx, id, streak, lastMarked).Error(0)
}

type MockCompletionRepository struct {
	mock.Mock
}

func (m *MockCompletionRepository) Create(ctx context.Context, record *domain.CompletionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockCompletionRepository) FindByKey(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	args := m.Called(ctx, userID, habitID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionRecord), args.Error(1)
}

func (m *MockCompletionRepository) ListHabitIDsByDate(ctx context.Context, userID, date string) ([]string, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCompletionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CompletionRecord), args.Error(1)
}

func (m *MockCompletionRepository) ListByUserIDAndDateRange(ctx context.Context, userID, from, to string) ([]*domain.CompletionRecord, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CompletionRecord), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateScore(ctx context.Context, id string, score int) error {
	return m.Called(ctx, id, score).Error(0)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) OnToggle(ctx context.Context, event domain.ToggleEvent) {
	m.Called(ctx, event)
}

// fakeStore is a document store with no upsert: uniqueness on
// (user, habit, date) is only enforced when strict is set.
type fakeStore struct {
	mu          sync.Mutex
	habits      map[string]*domain.Habit
	completions map[string]*domain.CompletionRecord
	strict      bool

	failList   error
	failDates  error
	failCreate error

	// beforeCreate runs inside Create before the record is stored.
	beforeCreate func(rec *domain.CompletionRecord)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		habits:      make(map[string]*domain.Habit),
		completions: make(map[string]*domain.CompletionRecord),
	}
}

func (f *fakeStore) addHabit(h *domain.Habit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *h
	f.habits[h.ID] = &clone
}

func (f *fakeStore) countKey(userID, habitID, date string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.completions {
		if c.UserID == userID && c.HabitID == habitID && c.Date == date {
			n++
		}
	}
	return n
}

func (f *fakeStore) Create(ctx context.Context, habit *domain.Habit) error {
	f.addHabit(habit)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (f *fakeStore) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var out []*domain.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			clone := *h
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.habits[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.Streak = streak
	h.LastMarked = lastMarked
	return nil
}

type fakeCompletions struct {
	*fakeStore
}

func (f fakeCompletions) Create(ctx context.Context, rec *domain.CompletionRecord) error {
	if f.beforeCreate != nil {
		f.beforeCreate(rec)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if f.strict {
		for _, c := range f.completions {
			if c.UserID == rec.UserID && c.HabitID == rec.HabitID && c.Date == rec.Date {
				return domain.ErrCompletionExists
			}
		}
	}
	rec.ID = uuid.NewString()
	clone := *rec
	f.completions[rec.ID] = &clone
	return nil
}

func (f fakeCompletions) Delete(ctx context.Context, id string, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.completions[id]
	if !ok || c.UserID != userID {
		return domain.ErrCompletionNotFound
	}
	delete(f.completions, id)
	return nil
}

func (f fakeCompletions) FindByKey(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.completions {
		if c.UserID == userID && c.HabitID == habitID && c.Date == date {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompletionNotFound
}

func (f fakeCompletions) ListHabitIDsByDate(ctx context.Context, userID, date string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDates != nil {
		return nil, f.failDates
	}
	var ids []string
	for _, c := range f.completions {
		if c.UserID == userID && c.Date == date {
			ids = append(ids, c.HabitID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f fakeCompletions) CountByUserID(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.completions {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f fakeCompletions) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.CompletionRecord
	for _, c := range f.completions {
		if c.HabitID == habitID {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f fakeCompletions) ListByUserIDAndDateRange(ctx context.Context, userID, from, to string) ([]*domain.CompletionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.CompletionRecord
	for _, c := range f.completions {
		if c.UserID == userID && c.Date >= from && c.Date <= to {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// localDate builds midnight of a calendar day in the local zone.
func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func newHabitAt(id, userID, name string, recurrence []int, createdAt time.Time) *domain.Habit {
	return &domain.Habit{
		ID:         id,
		UserID:     userID,
		Name:       name,
		Recurrence: recurrence,
		CreatedAt:  createdAt,
	}
}
