package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var _ domain.CompletionRepository = (*PostgresCompletionRepository)(nil)

// PostgresCompletionRepository stores the ledger in a table with a unique key
// on (user_id, habit_id, date), so a racing duplicate insert is a no-op.
type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

// date is read back as text so it keeps its YYYY-MM-DD form.
const completionColumns = `id, user_id, habit_id, date::text AS date, completed, marked_at`

func (r *PostgresCompletionRepository) Create(ctx context.Context, record *domain.CompletionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO completions (id, user_id, habit_id, date, completed, marked_at)
		VALUES (:id, :user_id, :habit_id, :date, :completed, :marked_at)
		ON CONFLICT (user_id, habit_id, date) DO NOTHING`

	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return fmt.Errorf("referenced habit or user does not exist: %w", err)
		case pgUniqueViolation:
			return domain.ErrCompletionExists
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionExists
	}
	return nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}
	return nil
}

func (r *PostgresCompletionRepository) FindByKey(ctx context.Context, userID, habitID, date string) (*domain.CompletionRecord, error) {
	var record domain.CompletionRecord
	query := `SELECT ` + completionColumns + ` FROM completions WHERE user_id = $1 AND habit_id = $2 AND date = $3`

	if err := r.db.GetContext(ctx, &record, query, userID, habitID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresCompletionRepository) ListHabitIDsByDate(ctx context.Context, userID, date string) ([]string, error) {
	ids := []string{}
	query := `SELECT habit_id FROM completions WHERE user_id = $1 AND date = $2 ORDER BY habit_id`

	if err := r.db.SelectContext(ctx, &ids, query, userID, date); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresCompletionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM completions WHERE user_id = $1`, userID); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.CompletionRecord, error) {
	records := []*domain.CompletionRecord{}
	query := `SELECT ` + completionColumns + ` FROM completions WHERE habit_id = $1 ORDER BY date DESC`

	if err := r.db.SelectContext(ctx, &records, query, habitID); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresCompletionRepository) ListByUserIDAndDateRange(ctx context.Context, userID, from, to string) ([]*domain.CompletionRecord, error) {
	records := []*domain.CompletionRecord{}
	query := `
		SELECT ` + completionColumns + `
		FROM completions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	if err := r.db.SelectContext(ctx, &records, query, userID, from, to); err != nil {
		return nil, err
	}
	return records, nil
}
