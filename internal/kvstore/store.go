// Package kvstore is the single local key-value store shared by the wallet
// shell and the handshake sessions. Every operation is a single read or
// write; there are no multi-key transactions and the last writer wins.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value atomically: readers see the old or the new value, never a mix.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver    string // file, sqlite, redis, memory
	Path      string // directory for file, database file for sqlite
	RedisAddr string
	RedisDB   int
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "file":
		return NewFileStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(ctx, opts.Path)
	case "redis":
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
