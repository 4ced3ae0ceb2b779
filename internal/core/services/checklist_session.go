package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

var (
	ErrToggleInFlight      = errors.New("a toggle is already in flight")
	ErrEntryNotInChecklist = errors.New("habit is not in the loaded checklist")
)

// ChecklistSession holds one user's checklist for one date across a sequence
// of toggles: Loading -> Ready | Failed, with Marking while a toggle runs.
// The lock guards state only; store calls run without it.
type ChecklistSession struct {
	service *ChecklistService
	userID  string
	date    time.Time

	mu        sync.Mutex
	state     domain.ChecklistState
	checklist *domain.Checklist
	err       error
}

func NewChecklistSession(service *ChecklistService, userID string, date time.Time) *ChecklistSession {
	return &ChecklistSession{
		service: service,
		userID:  userID,
		date:    date,
		state:   domain.ChecklistLoading,
	}
}

// Load fetches the checklist. Any failure leaves the session in Failed with
// the placeholder checklist, and the error is also returned.
func (s *ChecklistSession) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.ChecklistMarking {
		s.mu.Unlock()
		return ErrToggleInFlight
	}
	s.state = domain.ChecklistLoading
	s.mu.Unlock()

	checklist, err := s.service.GetChecklist(ctx, s.userID, s.date)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(checklist, err)
	return err
}

// Toggle flips the loaded state of habitID.
func (s *ChecklistSession) Toggle(ctx context.Context, habitID string) error {
	s.mu.Lock()
	if s.state == domain.ChecklistMarking {
		s.mu.Unlock()
		return ErrToggleInFlight
	}
	if s.state != domain.ChecklistReady || s.checklist == nil {
		s.mu.Unlock()
		return ErrEntryNotInChecklist
	}
	entry, ok := s.checklist.Entry(habitID)
	if !ok {
		s.mu.Unlock()
		return ErrEntryNotInChecklist
	}
	s.state = domain.ChecklistMarking
	s.mu.Unlock()

	checklist, err := s.service.Toggle(ctx, ToggleInput{
		UserID:    s.userID,
		HabitID:   habitID,
		Date:      s.date,
		Completed: !entry.Completed,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if checklist == nil {
		// The write did not happen; the loaded list is still accurate.
		s.state = domain.ChecklistReady
		return err
	}
	s.settle(checklist, err)
	return err
}

func (s *ChecklistSession) settle(checklist *domain.Checklist, err error) {
	if err != nil {
		s.state = domain.ChecklistFailed
		s.checklist = domain.FailedChecklist(domain.FormatDate(s.date))
		s.err = err
		return
	}
	s.state = domain.ChecklistReady
	s.checklist = checklist
	s.err = nil
}

func (s *ChecklistSession) State() domain.ChecklistState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Checklist returns a copy of the current list, or nil while loading.
func (s *ChecklistSession) Checklist() *domain.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checklist == nil {
		return nil
	}
	c := *s.checklist
	c.Entries = append([]domain.ChecklistEntry(nil), s.checklist.Entries...)
	c.State = s.state
	return &c
}

func (s *ChecklistSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
