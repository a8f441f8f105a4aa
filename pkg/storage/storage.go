package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound error = errors.New("stored file not found")

// Storage keeps document bytes apart from their database records.
//
// Keys are opaque to callers. What Save returns is what Open and
// Remove take.
type Storage interface {
	// Save writes the content of r under key.
	//
	// # Returns
	//
	// - int64: number of bytes written
	//
	// - error
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open opens the content stored under key.
	//
	// # Returns
	//
	// - io.ReadCloser: the content. The caller should close it.
	//
	// - error: ErrNotFound when nothing is stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the content stored under key.
	//
	// Removing a key which does not exist is not an error.
	Remove(ctx context.Context, key string) error
}
