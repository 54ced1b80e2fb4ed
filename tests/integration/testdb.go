//go:build integration

// Package integration runs the booking workflow against a real PostgreSQL
// started with testcontainers and migrated with the embedded SQL files.
package integration

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/adbook/backend/internal/domain/catalog"
	"github.com/adbook/backend/internal/domain/identity"
	"github.com/adbook/backend/internal/infrastructure/migration"
	"github.com/adbook/backend/internal/infrastructure/persistence"
	"github.com/adbook/backend/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated database connection for one test
type TestDB struct {
	*persistence.Database
	DSN string
	t   *testing.T
}

// NewTestDB connects to the package's shared PostgreSQL container, starting
// and migrating it on first use. Tables are truncated before the test runs.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := sharedDSN(t)

	var log gormlogger.Interface
	if os.Getenv("TEST_DB_DEBUG") != "" {
		log = gormlogger.Default.LogMode(gormlogger.Info)
	}
	db, err := persistence.Open(gormpostgres.Open(dsn), nil, log)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	tdb := &TestDB{Database: db, DSN: dsn, t: t}
	tdb.CleanTables()
	t.Cleanup(func() { _ = db.Close() })
	return tdb
}

func sharedDSN(t *testing.T) string {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedContainerDSN
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("adbook_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := persistence.Open(gormpostgres.Open(dsn), nil, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, nil)
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
	_ = m.Close()

	sharedContainer = container
	sharedContainerDSN = dsn
	return dsn
}

// CleanupSharedContainer terminates the shared container; call it from TestMain
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
	sharedContainer = nil
	sharedContainerDSN = ""
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: failed to truncate %s: %v", table, err)
		}
	}
}

// CreateUser provisions an active user and returns it as an actor
func (tdb *TestDB) CreateUser(role identity.Role) identity.Actor {
	tdb.t.Helper()

	name := fmt.Sprintf("%s %d", role, time.Now().UnixNano())
	user, err := identity.NewUser(name, fmt.Sprintf("%d.%s@adbook.test", time.Now().UnixNano(), role), role)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Save(context.Background(), user))
	return identity.Actor{ID: user.ID, Role: role}
}

// CreateSlot inserts an available flat-priced slot
func (tdb *TestDB) CreateSlot(code string, media catalog.MediaType, price int64) *catalog.Slot {
	tdb.t.Helper()

	slot, err := catalog.NewSlot(code, code+" placement", media, decimal.NewFromInt(price), catalog.PricingFlat)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormSlotRepository(tdb.DB).Save(context.Background(), slot))
	return slot
}

// Count returns the number of rows in model matching the optional condition
func (tdb *TestDB) Count(model any, query string, args ...any) int64 {
	tdb.t.Helper()

	var n int64
	q := tdb.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(tdb.t, q.Count(&n).Error)
	return n
}

// WithTransaction runs fn in a transaction that is always rolled back
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")
	defer tx.Rollback()
	fn(tx)
}
