// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (the remote profile,
// share registry and account tables) and SQLite (the device-local store, or a
// single-host remote) connections from the application's configuration.
//
// # Connect
//
// Connect establishes a connection for the configured driver, applies pool
// settings and verifies it with a bounded ping.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for both dialects. The integrity
// feature uses it to verify the profile, registry and account tables match
// the models this module migrates.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "shared_sets")
package database
