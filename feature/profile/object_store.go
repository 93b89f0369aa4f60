package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"flashdeck/core/models"
	"flashdeck/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps each profile as a JSON object at <prefix>/<id>.json.
// Field updates read, modify and rewrite the whole document, which assumes a
// single active writer per account.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore returns a store over client and bucket.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey returns the object key for an account.
func (s *ObjectStore) ObjectKey(accountID string) string {
	return path.Join(s.prefix, accountID+".json")
}

// Get downloads and decodes the profile for accountID.
func (s *ObjectStore) Get(ctx context.Context, accountID string) (*models.AppUser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.ObjectKey(accountID), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile object: %w", err)
	}
	defer obj.Close()

	// minio reports a missing key on first read, not on GetObject.
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read profile object: %w", err)
	}

	var user models.AppUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", accountID, err)
	}
	if user.FlashcardSets == nil {
		user.FlashcardSets = []models.FlashcardSet{}
	}
	return &user, nil
}

// Create writes a new profile document.
func (s *ObjectStore) Create(ctx context.Context, user *models.AppUser) error {
	return s.put(ctx, user)
}

// UpdateSets rewrites the document with new sets.
func (s *ObjectStore) UpdateSets(ctx context.Context, accountID string, sets []models.FlashcardSet) error {
	user, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if sets == nil {
		sets = []models.FlashcardSet{}
	}
	user.FlashcardSets = sets
	return s.put(ctx, user)
}

// UpdateDisplayName rewrites the document with a new display name.
func (s *ObjectStore) UpdateDisplayName(ctx context.Context, accountID string, displayName *string) error {
	user, err := s.Get(ctx, accountID)
	if err != nil {
		return err
	}
	user.DisplayName = displayName
	return s.put(ctx, user)
}

func (s *ObjectStore) put(ctx context.Context, user *models.AppUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", user.ID, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.ObjectKey(user.ID), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put profile object: %w", err)
	}
	return nil
}
