package workers

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"go.uber.org/zap"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error
}

type CompletionRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error)
}

type UserRepository interface {
	UpdateScore(ctx context.Context, id string, score int) error
}

type Scorer interface {
	Snapshot(ctx context.Context, userID string) domain.ConsistencyScore
}

type ScoreJob struct {
	UserID  string
	HabitID string
}

// ScoreWorker refreshes derived state after a toggle: the habit's streak and
// lastMarked, and the score mirrored on the user profile.
type ScoreWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	userRepo       UserRepository
	scorer         Scorer
	logger         *zap.Logger
	jobs           chan ScoreJob
	done           chan struct{}
	now            func() time.Time
}

func NewScoreWorker(hRepo HabitRepository, cRepo CompletionRepository, uRepo UserRepository, scorer Scorer, logger *zap.Logger) *ScoreWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		userRepo:       uRepo,
		scorer:         scorer,
		logger:         logger.Named("score_worker"),
		jobs:           make(chan ScoreJob, 100),
		done:           make(chan struct{}),
		now:            time.Now,
	}
}

func (w *ScoreWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		w.logger.Info("score worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("score worker shutting down")
				return
			}
		}
	}()
}

// Done is closed once the worker goroutine has returned.
func (w *ScoreWorker) Done() <-chan struct{} {
	return w.done
}

func (w *ScoreWorker) Enqueue(job ScoreJob) {
	select {
	case w.jobs <- job:
	default:
		w.logger.Warn("queue full, dropping job",
			zap.String("user_id", job.UserID),
			zap.String("habit_id", job.HabitID),
		)
	}
}

func (w *ScoreWorker) OnToggle(_ context.Context, event domain.ToggleEvent) {
	w.Enqueue(ScoreJob{UserID: event.UserID, HabitID: event.HabitID})
}

func (w *ScoreWorker) processJob(ctx context.Context, job ScoreJob) {
	log := w.logger.With(zap.String("user_id", job.UserID), zap.String("habit_id", job.HabitID))

	if err := w.refreshProgress(ctx, job.HabitID); err != nil {
		log.Error("failed to refresh habit progress", zap.Error(err))
	}

	score := w.scorer.Snapshot(ctx, job.UserID)
	if !score.Available {
		return
	}
	if err := w.userRepo.UpdateScore(ctx, job.UserID, score.Value); err != nil {
		log.Error("failed to mirror score on profile", zap.Error(err))
		return
	}
	log.Debug("score mirrored", zap.Int("score", score.Value))
}

func (w *ScoreWorker) refreshProgress(ctx context.Context, habitID string) error {
	habit, err := w.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	records, err := w.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return err
	}

	streak, lastMarked := calculateStreak(habit.Recurrence, records, w.now())

	if habit.Streak == streak && sameDay(habit.LastMarked, lastMarked) {
		return nil
	}
	habit.UpdateProgress(streak, lastMarked)
	return w.habitRepo.UpdateProgress(ctx, habit.ID, habit.Streak, habit.LastMarked)
}

// calculateStreak counts consecutive completed due days walking back from
// today. An unfinished today does not break the streak. Completions on days
// the habit is not due are ignored for the streak but still count as marks.
func calculateStreak(recurrence []int, records []*domain.CompletionRecord, today time.Time) (int, *time.Time) {
	done := make(map[string]bool, len(records))
	var first, last time.Time

	for _, r := range records {
		if !r.Completed {
			continue
		}
		day, err := domain.ParseDate(r.Date)
		if err != nil {
			continue
		}
		done[r.Date] = true
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	if len(done) == 0 {
		return 0, nil
	}

	streak := 0
	cursor := domain.StartOfDay(today)
	if domain.IsDue(recurrence, cursor) && !done[domain.FormatDate(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	for !cursor.Before(first) {
		if domain.IsDue(recurrence, cursor) {
			if !done[domain.FormatDate(cursor)] {
				break
			}
			streak++
		}
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak, &last
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return domain.FormatDate(*a) == domain.FormatDate(*b)
}
