package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "learnify_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "learnify_test"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}

	require.NoError(t, Migrate(context.Background(), db))
	cleanup(t, db)
	t.Cleanup(func() {
		cleanup(t, db)
		db.Close()
	})
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE habit_entries, habits, users CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func seedUser(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
        VALUES ($1, $2, 'Tester', 'hash', $3, $3)`, id, id+"@learnify.app", now)
	require.NoError(t, err, "Failed to create user fixture")
}

func seedHabit(t *testing.T, repo *PostgresHabitRepository, userID, title string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, domain.HabitAttributes{Title: title})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), h))
	return h
}
