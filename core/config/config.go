package config

import (
	"errors"
	"reflect"
	"strings"

	"flashdeck/core/database"
	"flashdeck/core/logger"
	"flashdeck/core/reconcile"
	"flashdeck/core/server"
	"flashdeck/core/storage"
	"flashdeck/feature/identity"
	"flashdeck/feature/localstore"
	"flashdeck/feature/profile"
	"flashdeck/feature/sharing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the remote relational database.
	Database database.Config `mapstructure:"database"`
	// Local holds configuration for the device-local store.
	Local localstore.Config `mapstructure:"local"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Remote selects and configures the profile backend.
	Remote profile.Config `mapstructure:"remote"`
	// Identity holds configuration for the account provider.
	Identity identity.Config `mapstructure:"identity"`
	// Sharing holds configuration for the share registry and its cache.
	Sharing sharing.Config `mapstructure:"sharing"`
	// Engine holds configuration for the reconcile engine.
	Engine reconcile.Config `mapstructure:"engine"`
}

// LoadConfig loads configuration from environment variables, an optional
// .env file and an optional config.yaml under path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
