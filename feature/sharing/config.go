package sharing

// Config holds configuration for the share registry.
type Config struct {
	// CacheTTLSeconds is how long the public listing is served from memory.
	// Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
	// CodeAttempts bounds share code regeneration on collision.
	CodeAttempts int `mapstructure:"code_attempts" default:"5"`
}
