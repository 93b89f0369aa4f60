// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow interface so profile documents
// can be kept as JSON objects in AWS S3 or a self-hosted MinIO, and so tests
// can substitute the mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the profile bucket.
//   - PutObject / GetObject: write and read a profile document.
//   - StatObject: cheap existence check.
//   - RemoveObject: delete a profile document.
//
// IsNotFound classifies missing-key errors so callers can tell an absent
// document from a failed read.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
