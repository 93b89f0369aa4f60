package profile

const (
	// BackendDatabase keeps profiles in the user_profiles table.
	BackendDatabase = "database"
	// BackendStorage keeps profiles as JSON objects in the storage bucket.
	BackendStorage = "storage"
)

// Config selects and configures the remote profile backend.
type Config struct {
	// Backend is either "database" or "storage".
	Backend string `mapstructure:"backend" default:"database"`
	// Prefix is the object key prefix for the storage backend.
	Prefix string `mapstructure:"prefix" default:"profiles"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendDatabase, BackendStorage:
		return true
	default:
		return false
	}
}
