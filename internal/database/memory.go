package database

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenInMemory opens a private, migrated in-memory sqlite database. The pool
// is pinned to one connection because every sqlite memory connection is a
// separate database.
func OpenInMemory(ctx context.Context) (*gorm.DB, error) {
	db, err := OpenDialector(sqlite.Open(":memory:?_foreign_keys=on"), gormlogger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}
