// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the console can read sample log files and
// maintain the bucket layout on AWS S3 or a self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easy
// to mock storage interactions in unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, truncated, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "samples/nginx.log", cfg.Storage.MaxObjectBytes)
package storage
