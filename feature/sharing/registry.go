package sharing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashdeck/core/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SharedSet is a published copy of a flashcard set in the shared_sets table.
type SharedSet struct {
	ID        string             `gorm:"primaryKey;size:64"`
	Title     string             `gorm:"size:200"`
	Color     string             `gorm:"size:9"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime:false;index"`
	Cards     []models.Flashcard `gorm:"serializer:json;type:text"`
	IsPublic  bool               `gorm:"index"`
	ShareCode *string            `gorm:"size:6;index"`
	OwnerID   *string            `gorm:"size:64;index"`
}

// TableName overrides the default table name.
func (SharedSet) TableName() string { return "shared_sets" }

func fromSet(s models.FlashcardSet) SharedSet {
	cards := s.Cards
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return SharedSet{
		ID:        s.ID,
		Title:     s.Title,
		Color:     s.Color,
		UpdatedAt: s.UpdatedAt,
		Cards:     cards,
		IsPublic:  s.IsPublic,
		ShareCode: s.ShareCode,
		OwnerID:   s.OwnerID,
	}
}

// ToSet converts the row back into a flashcard set.
func (r SharedSet) ToSet() models.FlashcardSet {
	cards := r.Cards
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return models.FlashcardSet{
		ID:        r.ID,
		Title:     r.Title,
		Color:     r.Color,
		UpdatedAt: r.UpdatedAt,
		Cards:     cards,
		IsPublic:  r.IsPublic,
		ShareCode: r.ShareCode,
		OwnerID:   r.OwnerID,
	}
}

func toSets(rows []SharedSet) []models.FlashcardSet {
	out := make([]models.FlashcardSet, len(rows))
	for i, r := range rows {
		out[i] = r.ToSet()
	}
	return out
}

// Registry reads and writes published sets.
type Registry struct {
	db *gorm.DB
}

// NewRegistry returns a registry over db.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// Migrate creates or updates the shared_sets table.
func (r *Registry) Migrate() error {
	return r.db.AutoMigrate(&SharedSet{})
}

// Upsert writes set keyed by its id, replacing any previous entry.
func (r *Registry) Upsert(ctx context.Context, set models.FlashcardSet) error {
	row := fromSet(set)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert shared set %s: %w", set.ID, err)
	}
	return nil
}

// Get returns the entry with id.
func (r *Registry) Get(ctx context.Context, id string) (models.FlashcardSet, error) {
	var row SharedSet
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FlashcardSet{}, ErrShareNotFound
	}
	if err != nil {
		return models.FlashcardSet{}, fmt.Errorf("get shared set %s: %w", id, err)
	}
	return row.ToSet(), nil
}

// SetVisibility updates only is_public on an existing entry.
func (r *Registry) SetVisibility(ctx context.Context, id string, public bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&SharedSet{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("find shared set %s: %w", id, err)
		}
		if count == 0 {
			return ErrShareNotFound
		}
		if err := tx.Model(&SharedSet{}).Where("id = ?", id).Update("is_public", public).Error; err != nil {
			return fmt.Errorf("update visibility of %s: %w", id, err)
		}
		return nil
	})
}

// Delete removes the entry with id. Deleting an absent entry is not an error.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SharedSet{}).Error; err != nil {
		return fmt.Errorf("delete shared set %s: %w", id, err)
	}
	return nil
}

// ListPublic returns every public entry, newest first.
func (r *Registry) ListPublic(ctx context.Context) ([]models.FlashcardSet, error) {
	var rows []SharedSet
	if err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list public sets: %w", err)
	}
	return toSets(rows), nil
}

// ListByOwner returns every entry owned by accountID, newest first.
func (r *Registry) ListByOwner(ctx context.Context, accountID string) ([]models.FlashcardSet, error) {
	var rows []SharedSet
	if err := r.db.WithContext(ctx).Where("owner_id = ?", accountID).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sets of %s: %w", accountID, err)
	}
	return toSets(rows), nil
}

// FindByCode returns the single entry carrying code.
func (r *Registry) FindByCode(ctx context.Context, code string) (models.FlashcardSet, error) {
	var rows []SharedSet
	if err := r.db.WithContext(ctx).Where("share_code = ?", code).Limit(1).Find(&rows).Error; err != nil {
		return models.FlashcardSet{}, fmt.Errorf("find share code: %w", err)
	}
	if len(rows) == 0 {
		return models.FlashcardSet{}, ErrShareNotFound
	}
	return rows[0].ToSet(), nil
}
