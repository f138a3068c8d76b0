package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"portal/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type Migrator struct {
	m   *migrate.Migrate
	log logger.Logger
}

func NewMigrator(m *migrate.Migrate, log logger.Logger) *Migrator {
	return &Migrator{m: m, log: log}
}

// OpenMigrator reads migrations from dir and applies them through db.
func OpenMigrator(db *sql.DB, dir string, log logger.Logger) (*Migrator, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create database driver: %w", err)
	}

	src, err := iofs.New(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("could not read migrations from %s: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}

	return NewMigrator(m, log), nil
}

// Up applies n pending migrations, or all of them when n <= 0. Having nothing
// to apply is not an error.
func (mg *Migrator) Up(n int) error {
	var err error
	if n > 0 {
		err = mg.m.Steps(n)
	} else {
		err = mg.m.Up()
	}
	return mg.done("up", err)
}

// Down reverts n migrations, or all of them when n <= 0.
func (mg *Migrator) Down(n int) error {
	var err error
	if n > 0 {
		err = mg.m.Steps(-n)
	} else {
		err = mg.m.Down()
	}
	return mg.done("down", err)
}

func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (mg *Migrator) Force(version int) error {
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	mg.log.Info("migrate: forced version", "version", version)
	return nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) done(op string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("migrate: no changes detected", "op", op)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}

	v, _, _ := mg.Version()
	mg.log.Info("migrate: success", "op", op, "version", v)
	return nil
}
