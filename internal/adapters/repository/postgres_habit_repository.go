package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type habitRow struct {
	ID         string        `db:"id"`
	UserID     string        `db:"user_id"`
	Name       string        `db:"name"`
	Recurrence pq.Int64Array `db:"recurrence"`
	Streak     int           `db:"streak"`
	LastMarked *time.Time    `db:"last_marked"`
	CreatedAt  time.Time     `db:"created_at"`
}

const habitColumns = `id, user_id, name, recurrence, streak, last_marked, created_at`

func (row habitRow) toDomain() *domain.Habit {
	recurrence := make([]int, len(row.Recurrence))
	for i, d := range row.Recurrence {
		recurrence[i] = int(d)
	}
	return &domain.Habit{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		Recurrence: recurrence,
		Streak:     row.Streak,
		LastMarked: row.LastMarked,
		CreatedAt:  row.CreatedAt,
	}
}

func toWeekdayArray(days []int) pq.Int64Array {
	out := make(pq.Int64Array, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (id, user_id, name, recurrence, streak, last_marked, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, toWeekdayArray(h.Recurrence), h.Streak, h.LastMarked, h.CreatedAt,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("owner %s does not exist: %w", h.UserID, err)
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var rows []habitRow
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for _, row := range rows {
		habits = append(habits, row.toDomain())
	}
	return habits, nil
}

func (r *PostgresHabitRepository) UpdateProgress(ctx context.Context, id string, streak int, lastMarked *time.Time) error {
	query := `UPDATE habits SET streak = $1, last_marked = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, streak, lastMarked, id)
	if err != nil {
		return fmt.Errorf("failed to update habit progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}
