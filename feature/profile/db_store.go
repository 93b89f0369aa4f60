package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashdeck/core/models"
	"flashdeck/core/reconcile"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no profile document exists for an account.
var ErrNotFound = reconcile.ErrProfileNotFound

// Record is the user_profiles row. Sets are stored as a JSON column.
type Record struct {
	ID            string                `gorm:"primaryKey;size:64"`
	Email         string                `gorm:"size:255;index"`
	DisplayName   *string               `gorm:"size:255"`
	FlashcardSets []models.FlashcardSet `gorm:"serializer:json;type:text"`
	UpdatedAt     time.Time
}

// TableName overrides the default table name.
func (Record) TableName() string { return "user_profiles" }

func (r Record) toUser() *models.AppUser {
	sets := r.FlashcardSets
	if sets == nil {
		sets = []models.FlashcardSet{}
	}
	return &models.AppUser{
		ID:            r.ID,
		Email:         r.Email,
		DisplayName:   r.DisplayName,
		FlashcardSets: sets,
	}
}

// DBStore keeps profiles in a relational table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore returns a store over db. Call Migrate once to create the table.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates or updates the user_profiles table.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&Record{})
}

// Get loads the profile for accountID.
func (s *DBStore) Get(ctx context.Context, accountID string) (*models.AppUser, error) {
	var rec Record
	err := s.db.WithContext(ctx).Where("id = ?", accountID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", accountID, err)
	}
	return rec.toUser(), nil
}

// Create inserts a new profile row.
func (s *DBStore) Create(ctx context.Context, user *models.AppUser) error {
	rec := Record{
		ID:            user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		FlashcardSets: user.FlashcardSets,
		UpdatedAt:     time.Now().UTC(),
	}
	if rec.FlashcardSets == nil {
		rec.FlashcardSets = []models.FlashcardSet{}
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create profile %s: %w", user.ID, err)
	}
	return nil
}

// UpdateSets overwrites only the flashcard_sets column.
func (s *DBStore) UpdateSets(ctx context.Context, accountID string, sets []models.FlashcardSet) error {
	if sets == nil {
		sets = []models.FlashcardSet{}
	}
	return s.update(ctx, accountID, Record{FlashcardSets: sets}, "flashcard_sets")
}

// UpdateDisplayName overwrites only the display_name column.
func (s *DBStore) UpdateDisplayName(ctx context.Context, accountID string, displayName *string) error {
	return s.update(ctx, accountID, Record{DisplayName: displayName}, "display_name")
}

func (s *DBStore) update(ctx context.Context, accountID string, values Record, column string) error {
	values.UpdatedAt = time.Now().UTC()
	res := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", accountID).
		Select(column, "updated_at").
		Updates(&values)
	if res.Error != nil {
		return fmt.Errorf("update %s for %s: %w", column, accountID, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL counts changed rows, so an identical write also reports zero.
	var count int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Where("id = ?", accountID).Count(&count).Error; err != nil {
		return fmt.Errorf("find profile %s: %w", accountID, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
