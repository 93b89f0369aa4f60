// Package profile stores remote user profiles: account email, display name
// and the owned flashcard sets.
//
// Two backends implement reconcile.ProfileStore:
//
//   - DBStore: the user_profiles table via gorm (MySQL in production, SQLite
//     in tests). Sets live in a JSON column; UpdateSets and
//     UpdateDisplayName touch only their own column.
//   - ObjectStore: one JSON object per account at <prefix>/<id>.json in the
//     storage bucket.
//
// Both return ErrNotFound for an absent profile. Any other read failure,
// including a document that does not decode, is returned as an error so the
// engine can end the session.
//
// # Usage
//
//	store, err := profile.New(cfg.Remote, db, client, cfg.Storage.Bucket)
package profile
