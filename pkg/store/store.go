// Package store provides the key-value blob storage the diagram library
// persists into.
//
// The library treats storage as opaque: diagram collections are serialized
// JSON written under a fixed key. Four backends implement the same Store
// interface:
//   - memory: in-process map for tests and development
//   - file: one file per key in a config directory, the CLI default
//   - redis: shared storage for multi-instance deployments
//   - mongo: document storage when the platform already runs MongoDB
//
// Every backend is safe for use from a single session at a time; the blob
// under a key is written atomically as a whole.
package store

import "context"

// Store is the opaque key-value blob store interface.
type Store interface {
	// Get retrieves the blob stored under key.
	// The second return is false when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a blob under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes the blob under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
