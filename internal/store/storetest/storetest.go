// Package storetest opens a migrated SQLite-backed store for package tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/logger"
	"github.com/harentsoaR/dentist-platform/internal/store"
)

// New returns a GormStore on a fresh SQLite file under t.TempDir. The store
// is closed when the test ends.
func New(t testing.TB) *store.GormStore {
	t.Helper()
	s, err := store.Open(store.Options{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "dentist.db"),
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}
