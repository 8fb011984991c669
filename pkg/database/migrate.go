package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hoopstats/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsLockKey = "hoopstats_migrations_lock"

// ErrMigrationsLocked is returned when another process holds the migration lock.
var ErrMigrationsLocked = errors.New("another process is already running migrations")

// RunMigrations applies all pending migrations to the database.
func RunMigrations(cfg *config.Config, db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cfg.Database.MigrationsPath),
		cfg.Database.Database,
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	// Advisory locks belong to a session, lock and unlock on the same connection.
	conn, err := db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("could not get a connection for the migration lock: %w", err)
	}
	defer conn.Close()

	// Acquire an advisory lock to prevent concurrent migrations between services.
	var lockAcquired bool
	err = conn.QueryRowContext(context.Background(), "SELECT pg_try_advisory_lock(hashtext($1))", migrationsLockKey).Scan(&lockAcquired)
	if err != nil {
		return err
	}

	if !lockAcquired {
		return ErrMigrationsLocked
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		releaseMigrationsLock(context.Background(), conn)
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return releaseMigrationsLock(context.Background(), conn)
}

// releaseMigrationsLock must run on the connection that took the lock.
func releaseMigrationsLock(ctx context.Context, conn *sql.Conn) error {
	var lockReleased bool
	err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock(hashtext($1))", migrationsLockKey).Scan(&lockReleased)
	if err != nil {
		return fmt.Errorf("could not release advisory lock: %w", err)
	}
	if !lockReleased {
		return errors.New("could not release advisory lock: not held by this session")
	}

	return nil
}
