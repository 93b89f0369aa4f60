// Package localstore persists device-local data in a SQLite key-value table.
//
// # Components
//
//   - KV: named text blobs in the local_blobs table (key, value, updated_at).
//   - Store: the signed-out flashcard set collection, kept as one JSON array
//     under a fixed key (flashcardSets by default).
//
// Store never fails outward. A missing or corrupt blob loads as an empty
// collection and write failures are logged, since losing the local cache is
// not fatal. Each successful write signals subscribers, which replaces
// polling the store for changes.
//
// # Usage
//
//	db, _ := database.Connect(database.Config{Driver: database.DriverSQLite, Name: cfg.Local.Path})
//	kv, _ := localstore.NewKV(db)
//	store := localstore.NewStore(kv, cfg.Local, logg)
//	sets := store.Load(ctx)
package localstore
