package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherly/gatherly/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 520520

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// schemaMigrations lists migration names in apply order.
var schemaMigrations = []string{
	"000001_users",
	"000002_events",
}

// ResetSchema drops and recreates every table for tests.
// Down migrations run newest first, then up migrations oldest first.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}

	for i := len(schemaMigrations) - 1; i >= 0; i-- {
		if err := applySQLFile(ctx, pool, filepath.Join(dir, schemaMigrations[i]+".down.sql")); err != nil {
			return fmt.Errorf("apply %s down migration: %w", schemaMigrations[i], err)
		}
	}

	for _, name := range schemaMigrations {
		if err := applySQLFile(ctx, pool, filepath.Join(dir, name+".up.sql")); err != nil {
			return fmt.Errorf("apply %s up migration: %w", name, err)
		}
	}

	return nil
}

func applySQLFile(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return err
	}
	return nil
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// MigrationsDir returns the directory holding the embedded SQL migrations.
func MigrationsDir() (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "internal", "repository", "migrations"), nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
// The password hash is a placeholder and will not verify.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.User{
		ID:           UniqueID("user"),
		Name:         name,
		Email:        UniqueEmail(name),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		CreatedAt:    now,
	}
}

// NewTestEvent creates a test event owned by creator.
func NewTestEvent(t testing.TB, creator *model.User, title string, at time.Time) *model.Event {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	when := at.UTC().Truncate(time.Microsecond)
	return &model.Event{
		ID:          UniqueID("event"),
		Title:       title,
		Name:        creator.Name,
		CreatorID:   creator.ID,
		DateTime:    &when,
		Location:    "Main Hall",
		Description: "Test event " + title,
		JoinedUsers: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
