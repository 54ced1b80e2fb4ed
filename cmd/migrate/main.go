package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adbook/backend/internal/infrastructure/config"
	"github.com/adbook/backend/internal/infrastructure/logger"
	"github.com/adbook/backend/internal/infrastructure/migration"
	"github.com/adbook/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `adbook-migrate: schema migrations for the AdBook database

Usage:
  migrate [-path dir] [-log-level level] <command> [args]

Schema commands (connect with ADBOOK_DATABASE_* settings):
  up                    apply every pending migration
  down                  roll every migration back
  step <n>              move n migrations, negative n rolls back
  goto <version>        migrate to exactly <version>
  version               print the applied version
  force <version>       mark <version> applied after a repaired failure
  drop -confirm         drop every table (refused in production)

File commands:
  create <name> [desc]  write the next up/down pair (needs -path)
  list                  list migrations in -path or the embedded set

Without -path the migrations compiled into the binary are used.`

// schemaCommand runs against a live database
type schemaCommand func(m *migration.Migrator, cfg *config.Config, args []string) error

var schemaCommands = map[string]schemaCommand{
	"up":   func(m *migration.Migrator, _ *config.Config, _ []string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ *config.Config, _ []string) error { return m.Down() },
	"step": func(m *migration.Migrator, _ *config.Config, args []string) error {
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *config.Config, args []string) error {
		n, err := intArg(args, "version")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative: %d", n)
		}
		return m.GoTo(uint(n))
	},
	"force": func(m *migration.Migrator, _ *config.Config, args []string) error {
		n, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(n)
	},
	"version": func(m *migration.Migrator, _ *config.Config, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", version, dirty)
		return nil
	},
	"drop": func(m *migration.Migrator, cfg *config.Config, args []string) error {
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return errors.New("drop needs -confirm")
		}
		if cfg.App.IsProduction() {
			return errors.New("refusing to drop a production database")
		}
		return m.Drop()
	},
}

func main() {
	dir := flag.String("path", "", "migrations directory; empty uses the embedded set")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      *level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
		Service:    "adbook-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if *dir != "" {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			log.Fatal("Bad migrations path", zap.Error(err))
		}
		*dir = abs
	}

	if err := run(log, *dir, args[0], args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(log *zap.Logger, dir, command string, args []string) error {
	switch command {
	case "create":
		return create(log, dir, args)
	case "list":
		return list(dir)
	}

	cmd, ok := schemaCommands[command]
	if !ok {
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, migration.Source{Path: dir, FS: migrations.FS}, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd(m, cfg, args)
}

func create(log *zap.Logger, dir string, args []string) error {
	if dir == "" {
		return errors.New("create writes files and needs -path")
	}
	if len(args) == 0 {
		return errors.New("create needs a migration name")
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return nil
}

func list(dir string) error {
	var fsys fs.FS = migrations.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	names, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}
