// Package objects implements the content-addressed object store. Blobs and
// commit records share one namespace; an object's identity is the hash of its
// bytes, so writing the same bytes twice is a no-op.
package objects

import "context"

// Store is a content-addressed object store.
type Store interface {
	// Put stores data and returns its identity.
	Put(ctx context.Context, data []byte) (string, error)
	// Get returns the bytes stored under id, or models.ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Has reports whether id is present.
	Has(ctx context.Context, id string) (bool, error)
}

// Reader is the read side of a Store.
type Reader interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// MinPrefixLength is the shortest abbreviation accepted for an object id.
const MinPrefixLength = 4

// PrefixResolver expands abbreviated object ids.
type PrefixResolver interface {
	ResolvePrefix(ctx context.Context, prefix string) (string, error)
}
