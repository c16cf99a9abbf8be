package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry is one row of the embedded key-value table.
type KVEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey"`
	Value     string `gorm:"column:entry_value;not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_store" }

// SQLiteBackend keeps key-value pairs in an embedded SQLite file via gorm.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	return NewSQLiteBackend(db)
}

// NewSQLiteBackend migrates the kv_store table on db.
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_store: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Read(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLiteBackend) Write(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
