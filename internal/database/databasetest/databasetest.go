// Package databasetest provides an initialised in-memory store for tests.
package databasetest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/redmonkez12/taskflow/internal/config"
	"github.com/redmonkez12/taskflow/internal/database"
)

var seq atomic.Int64

// NewDB opens a private in-memory SQLite database, runs database.Init on it and
// closes it when the test ends.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := database.NewBunDB(sqlDB, config.DriverSQLite)
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Init(context.Background(), db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return db
}
