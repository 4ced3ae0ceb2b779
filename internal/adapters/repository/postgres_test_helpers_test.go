package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/database"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "kanso_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "kanso_db"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Open(ctx, dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}

	require.NoError(t, database.Migrate(ctx, db), "Failed to migrate test database")

	cleanup(t, db)
	t.Cleanup(func() {
		cleanup(t, db)
		db.Close()
	})
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE completions, habits, users CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func seedUser(t *testing.T, db *sqlx.DB, id, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(id, "Fixture User", email, "")
	require.NoError(t, err)
	user.PasswordHash = "hash"
	require.NoError(t, NewPostgresUserRepository(db).Create(context.Background(), user))
	return user
}
