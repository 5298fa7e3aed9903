// Package db provides an optional local usage log backed by sqlite.
package db

import (
	"github.com/go-faster/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the usage-log database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite usage log at path and migrates
// its schema.
func Open(path string) (*Store, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open usage db")
	}
	if err := gdb.AutoMigrate(&UsageLog{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate usage db")
	}
	return &Store{db: gdb}, nil
}
