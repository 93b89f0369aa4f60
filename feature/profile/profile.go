package profile

import (
	"fmt"

	"flashdeck/core/reconcile"
	"flashdeck/core/storage"

	"gorm.io/gorm"
)

// New builds the backend selected by cfg. The database backend migrates its
// table; the storage backend needs an existing bucket.
func New(cfg Config, db *gorm.DB, client storage.Client, bucket string) (reconcile.ProfileStore, error) {
	switch cfg.Backend {
	case BackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("profile backend %q requires a database connection", cfg.Backend)
		}
		s := NewDBStore(db)
		if err := s.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate user_profiles: %w", err)
		}
		return s, nil
	case BackendStorage:
		if client == nil {
			return nil, fmt.Errorf("profile backend %q requires a storage client", cfg.Backend)
		}
		return NewObjectStore(client, bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown profile backend %q", cfg.Backend)
	}
}
