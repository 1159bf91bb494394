// Package testutil opens migrated in-memory databases for tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/admin-concierge/config"
	"github.com/admin-concierge/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbCounter atomic.Int64

// NewTestDB returns a fresh in-memory SQLite database with every migration,
// seed data included, already applied. The database is private to the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbCounter.Add(1))

	db, err := database.Open(config.DatabaseConfig{
		URL:           dsn,
		SlowThreshold: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	require.NoError(t, database.Migrate(context.Background(), db, zap.NewNop()))
	return db
}
