package db

import "context"

type Interface interface {
	// Version returns the current schema version; 0 when the database
	// is empty.
	Version(ctx context.Context) (int, error)

	// Upgrade applies all newer schema versions in one transaction.
	Upgrade(ctx context.Context) error

	// Context derives a context which is cancelled when the schema in
	// the database falls behind the schema repository on disk.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
