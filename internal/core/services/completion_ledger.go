package services

import (
	"context"
	"errors"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
)

// CompletionLedger keeps at most one record per (user, habit, date) on top of
// a store that has no upsert. Marking is find-then-insert; a store that rejects
// the insert with ErrCompletionExists lost a race and is treated as done.
type CompletionLedger struct {
	repo domain.CompletionRepository
}

func NewCompletionLedger(repo domain.CompletionRepository) *CompletionLedger {
	return &CompletionLedger{repo: repo}
}

// Find returns nil without error when no record exists.
func (l *CompletionLedger) Find(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	rec, err := l.repo.FindByKey(ctx, userID, habitID, date)
	if err != nil {
		if errors.Is(err, domain.ErrCompletionNotFound) {
			return nil, nil
		}
		return nil, domain.FetchError("find completion", err)
	}
	return rec, nil
}

func (l *CompletionLedger) CompletedHabitIDs(ctx context.Context, userID, date string) (map[string]bool, error) {
	ids, err := l.repo.ListHabitIDsByDate(ctx, userID, date)
	if err != nil {
		return nil, domain.FetchError("list completions for date", err)
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (l *CompletionLedger) CountForOwner(ctx context.Context, userID string) (int, error) {
	n, err := l.repo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, domain.FetchError("count completions", err)
	}
	return n, nil
}

func (l *CompletionLedger) UpsertComplete(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	existing, err := l.Find(ctx, userID, habitID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	rec := domain.NewCompletionRecord(userID, habitID, date)
	if err := rec.Validate(); err != nil {
		return nil, domain.ValidationError(err)
	}

	if err := l.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrCompletionExists) {
			return l.Find(ctx, userID, habitID, date)
		}
		return nil, domain.WriteError("insert completion", err)
	}
	return rec, nil
}

func (l *CompletionLedger) Remove(ctx context.Context, userID, habitID, date string) error {
	existing, err := l.Find(ctx, userID, habitID, date)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := l.repo.Delete(ctx, existing.ID, userID); err != nil {
		if errors.Is(err, domain.ErrCompletionNotFound) {
			return nil
		}
		return domain.WriteError("delete completion", err)
	}
	return nil
}
