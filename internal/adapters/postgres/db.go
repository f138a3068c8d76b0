// Package postgres holds the database plumbing behind cmd/migrate.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"portal/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout = 5 * time.Second
	// The migrator pins one connection for its advisory lock; one spare is
	// enough for anything else.
	migrationConns = 2
)

// OpenDB connects through the pgx stdlib driver and fails fast when the
// server cannot be reached.
func OpenDB(ctx context.Context, dsn string, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(migrationConns)
	db.SetMaxIdleConns(migrationConns)
	db.SetConnMaxIdleTime(time.Minute)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	log.Info("postgres: connected", "max_conns", migrationConns)
	return db, nil
}
