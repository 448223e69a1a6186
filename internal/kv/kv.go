// Package kv provides the key-value persistence layer behind the account
// directory and the expense ledger. State is a small set of JSON blobs keyed
// by fixed string keys, so the store interface is deliberately minimal.
package kv

import "context"

// Store is the injectable persistence dependency. Production uses the SQLite
// implementation; tests use the in-memory one.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes the full value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
