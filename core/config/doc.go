// Package config provides configuration management for flashdeck.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file and an optional config.yaml.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level, format and output
//   - Database: remote relational database (MySQL, or SQLite for single-host setups)
//   - Local: device-local SQLite file and blob key
//   - Storage: S3/MinIO credentials and bucket settings
//   - Remote: profile backend selection (database or storage)
//   - Identity: password policy and hashing cost
//   - Sharing: public listing cache TTL
//   - Engine: profile fetch timeout
//
// Defaults come from `default` struct tags. Environment variables use the
// upper-cased dotted key with underscores, e.g. REMOTE_BACKEND=storage.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
