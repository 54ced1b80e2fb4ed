package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source locates the migration files. Path wins over FS when both are set.
type Source struct {
	Path string
	FS   fs.FS
}

// Migrator drives golang-migrate against the adbook schema
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New opens a Migrator on an existing lib/pq connection
func New(db *sql.DB, source Source, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration: postgres driver: %w", err)
	}

	m, err := open(source, driver)
	if err != nil {
		return nil, err
	}
	return &Migrator{m: m, logger: logger}, nil
}

func open(source Source, driver database.Driver) (*migrate.Migrate, error) {
	if source.Path != "" {
		m, err := migrate.NewWithDatabaseInstance("file://"+source.Path, "postgres", driver)
		if err != nil {
			return nil, fmt.Errorf("migration: open %s: %w", source.Path, err)
		}
		return m, nil
	}
	if source.FS == nil {
		return nil, errors.New("migration: source needs a path or an fs")
	}
	src, err := iofs.New(source.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: embedded source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration: open embedded: %w", err)
	}
	return m, nil
}

// apply runs one golang-migrate command. ErrNoChange is success; on any
// other outcome the resulting schema version is logged.
func (m *Migrator) apply(op string, run func() error) error {
	log := m.logger.With(zap.String("op", op))
	log.Info("Migration started")

	if err := run(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("migration %s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("Migration finished", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("up", m.m.Up)
}

// Down rolls every migration back
func (m *Migrator) Down() error {
	return m.apply("down", m.m.Down)
}

// Steps moves n migrations; negative n rolls back.
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("steps(%d)", n), func() error { return m.m.Steps(n) })
}

// GoTo migrates up or down until the schema is at version
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto(%d)", version), func() error { return m.m.Migrate(version) })
}

// Version reports the applied version; an empty schema is version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("migration: read version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running anything. It is the
// way out of a dirty schema after a failed migration was repaired by hand.
func (m *Migrator) Force(version int) error {
	m.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("migration: force %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database, schema_migrations included
func (m *Migrator) Drop() error {
	m.logger.Warn("Dropping every table")
	if err := m.m.Drop(); err != nil {
		return fmt.Errorf("migration: drop: %w", err)
	}
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
