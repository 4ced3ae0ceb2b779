package services

import (
	"context"
	"strings"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

type HabitService struct {
	repo domain.HabitRepository
}

func NewHabitService(repo domain.HabitRepository) *HabitService {
	return &HabitService{
		repo: repo,
	}
}

type CreateHabitInput struct {
	UserID     string
	Name       string
	Recurrence []int
}

// Create validates before touching the store: a rejected input performs no write.
func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	habit, err := domain.NewHabit(input.UserID, input.Name, input.Recurrence)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, domain.WriteError("create habit", err)
	}

	return habit, nil
}

func (s *HabitService) ListByOwner(ctx context.Context, userID string) ([]*domain.Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, domain.FetchError("list habits", err)
	}
	return habits, nil
}
