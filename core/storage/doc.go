// Package storage provides an abstraction over S3-compatible object storage.
//
// It wraps the MinIO Go client. The picking feature archives closed sessions
// (units, scan log, progress) as JSON objects, and the integrity feature checks
// that the archive bucket is reachable.
//
// The Client interface keeps storage mockable in tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
