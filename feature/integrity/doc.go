// Package integrity provides infrastructure health checks.
//
// It validates what the reconcile engine and the sharing service rely on
// but never create at request time.
//
// # Checks Provided
//
//   - Server: the remote tables (profiles, shared sets, accounts) exist and
//     carry every column of their gorm models, with matching types where the
//     model pins one.
//   - Storage: the profile bucket exists when profiles are stored as objects,
//     and a small object can be written, read back and removed.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/server : Runs server schema check.
//   - GET /integrity/storage : Runs storage check (supports ?fix=true).
package integrity
