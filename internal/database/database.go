package database

import (
	"fmt"
	"path"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// DB wraps the gorm.DB instance.
type DB struct {
	db *gorm.DB
}

// New creates a new database connection and performs migrations.
// The schema bootstrap is idempotent, existing tables are left alone.
func New(dbpath string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path.Join(dbpath, "khatabook.db")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&LedgerEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{db: db}, nil
}

// NewMemory creates an in-memory database, used by tests.
func NewMemory() (*DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &LedgerEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &DB{db: db}, nil
}
