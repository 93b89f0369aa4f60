package localstore

// Config holds configuration for the device-local store.
type Config struct {
	// Path is the SQLite file holding the local key-value table.
	Path string `mapstructure:"path" default:"flashdeck-local.db"`
	// BlobKey is the key under which the set snapshot is stored.
	BlobKey string `mapstructure:"blob_key" default:"flashcardSets"`
}
