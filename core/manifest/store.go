package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one verified (bucket, key) state. Rows are keyed on a digest of
// the object key so keys up to 1024 bytes stay within index limits.
type Entry struct {
	Bucket    string `gorm:"primaryKey;size:63"`
	KeyHash   string `gorm:"column:key_hash;primaryKey;size:64"`
	Key       string `gorm:"size:1024"`
	ETag      string `gorm:"size:128"`
	SHA256    string `gorm:"column:sha256;size:64"`
	Size      int64
	UpdatedAt time.Time
}

// TableName pins the table name independent of gorm's pluralisation.
func (Entry) TableName() string {
	return "sync_manifest"
}

// keyHash returns the hex SHA-256 of an object key.
func keyHash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Store reads and writes manifest entries.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the manifest table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("migrate manifest: %w", err)
	}
	return nil
}

// Lookup returns the entry for key, or nil when none is recorded.
func (s *Store) Lookup(ctx context.Context, bucket, key string) (*Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("bucket = ? AND key_hash = ?", bucket, keyHash(key)).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup manifest %s/%s: %w", bucket, key, err)
	}
	return &e, nil
}

// Record inserts or replaces the entry for (e.Bucket, e.Key).
func (s *Store) Record(ctx context.Context, e Entry) error {
	e.KeyHash = keyHash(e.Key)
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("record manifest %s/%s: %w", e.Bucket, e.Key, err)
	}
	return nil
}

// Forget removes the entry for key. Removing a missing entry is not an error.
func (s *Store) Forget(ctx context.Context, bucket, key string) error {
	err := s.db.WithContext(ctx).
		Where("bucket = ? AND key_hash = ?", bucket, keyHash(key)).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("forget manifest %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Count returns the number of entries recorded for bucket.
func (s *Store) Count(ctx context.Context, bucket string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Entry{}).Where("bucket = ?", bucket).Count(&n).Error
	return n, err
}
