package identity

// Config holds configuration for the account provider.
type Config struct {
	// MinPasswordLength is the shortest accepted password on sign-up.
	MinPasswordLength int `mapstructure:"min_password_length" default:"6"`
	// BcryptCost is the bcrypt work factor for new password hashes.
	BcryptCost int `mapstructure:"bcrypt_cost" default:"10"`
	// SessionKey is the device key-value entry holding the current session.
	SessionKey string `mapstructure:"session_key" default:"session"`
}
