// Package server holds the HTTP server configuration.
//
// The start command owns the fiber application; this package only describes
// how it listens and whether requests must carry an API key.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key and the request read
// timeout. An empty API key disables the auth middleware.
package server
