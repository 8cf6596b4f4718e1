// Package testutil provides the shared database harness for repo and
// service tests. Tests run against Postgres when TEST_POSTGRES_DSN is
// set and fall back to an in-memory SQLite database otherwise.
package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

var (
	dbOnce   sync.Once
	sharedDB *gorm.DB
	dbErr    error
)

// Logger returns a quiet development logger for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("development")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

// DB returns the shared migrated test database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dbOnce.Do(func() {
		sharedDB, dbErr = open()
	})
	if dbErr != nil {
		tb.Fatalf("open test database: %v", dbErr)
	}
	return sharedDB
}

// Tx returns a transaction that is rolled back when the test finishes,
// so tests never see each other's rows.
func Tx(tb testing.TB) *gorm.DB {
	tb.Helper()
	tx := DB(tb).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin test transaction: %v", tx.Error)
	}
	tb.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

func open() (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, err
		}
	} else {
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormCfg)
		if err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(
		&types.User{},
		&types.Household{},
		&types.Post{},
		&types.Community{},
		&types.Member{},
		&types.CommunityRequest{},
		&types.Recommendation{},
		&types.Node{},
		&types.Edge{},
		&types.Task{},
		&types.UserProgress{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
