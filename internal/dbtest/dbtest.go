// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/undercover/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a migrated database private to the test. A single connection keeps
// the in-memory sqlite instance alive and serializes transactions.
func New(t testing.TB) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	d := database.NewDatabase(db)
	require.NoError(t, d.Migrate())

	t.Cleanup(func() { _ = d.Close() })
	return d
}
