package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is one named JSON value in the device key-value table.
type Blob struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName overrides the default table name.
func (Blob) TableName() string { return "local_blobs" }

// ErrKeyNotFound is returned by KV.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a small named-blob store over gorm. It is shared by the set
// snapshot and the identity session.
type KV struct {
	db *gorm.DB
}

// NewKV migrates the blob table and returns a KV bound to db.
func NewKV(db *gorm.DB) (*KV, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("migrate local_blobs: %w", err)
	}
	return &KV{db: db}, nil
}

// Get returns the value stored under key.
func (kv *KV) Get(ctx context.Context, key string) (string, error) {
	var b Blob
	err := kv.db.WithContext(ctx).Where("`key` = ?", key).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return b.Value, nil
}

// Set upserts value under key.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	b := Blob{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := kv.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&b).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	if err := kv.db.WithContext(ctx).Where("`key` = ?", key).Delete(&Blob{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
