package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/adbook/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add deployments table", "add_deployments_table"},
		{"Add-Release-Items", "add_release_items"},
		{"ADD_SLOT_INDEX", "add_slot_index"},
		{"add__invoice__tax", "add_invoice_tax"},
		{"Add Users 123", "add_users_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_SequentialVersions(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add banner checksum", "Store banner checksums")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, "000001_add_banner_checksum.up.sql", filepath.Base(first.UpPath))
	assert.Equal(t, "000001_add_banner_checksum.down.sql", filepath.Base(first.DownPath))

	second, err := CreateMigration(dir, "index invoices by due date", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_banner_checksum")
	assert.Contains(t, string(up), "Store banner checksums")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_ContinuesAfterExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_existing.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_existing.down.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), mf.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_booking.up.sql":   {Data: []byte("--")},
		"000002_booking.down.sql": {Data: []byte("--")},
		"000001_init.up.sql":      {Data: []byte("--")},
		"000001_init.down.sql":    {Data: []byte("--")},
		"README.md":               {Data: []byte("docs")},
		"notaversion_x.up.sql":    {Data: []byte("--")},
		"embed.go":                {Data: []byte("package migrations")},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "000001_init", list[0].String())
	assert.Equal(t, "000002_booking", list[1].String())
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	for i, m := range list {
		assert.Equal(t, uint(i+1), m.Version, "versions are contiguous")
		down, err := migrations.FS.ReadFile(m.String() + ".down.sql")
		require.NoError(t, err, "missing down migration for %s", m)
		assert.True(t, strings.Contains(string(down), "DROP"), "down migration for %s drops objects", m)
	}
}

func TestEmbeddedMigrationsCoverSchema(t *testing.T) {
	var schema strings.Builder
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	for _, m := range list {
		up, err := migrations.FS.ReadFile(m.String() + upSuffix)
		require.NoError(t, err)
		schema.Write(up)
	}

	for _, table := range []string{
		"users", "slots", "document_sequences", "work_orders", "work_order_items",
		"release_orders", "release_order_items", "invoices", "deployments",
		"notifications", "outbox_events",
	} {
		assert.Contains(t, schema.String(), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, schema.String(), "idx_deployments_live_item")
}
