package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Store.Get when no value exists at the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the key-value contract the service is built on. Values are opaque
// strings keyed by short code. Reads may be eventually consistent; every
// method is an I/O boundary and must honor the caller's context.
type Store interface {
	// Get returns the value at key, or ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Put writes the value at key with upsert semantics.
	Put(ctx context.Context, key string, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ConditionalStore is implemented by backends that can create a key only if
// it does not exist yet, closing the check-then-write race on creation.
type ConditionalStore interface {
	Store

	// PutIfAbsent writes the value only when the key has no value yet.
	// It reports whether the write happened.
	PutIfAbsent(ctx context.Context, key string, value string) (bool, error)
}
