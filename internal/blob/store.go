package blob

import (
	"context"
	"errors"
)

// ErrNotFound reports that an object is absent. Absence is a normal outcome
// for callers (idempotency probes, optional configs) and must stay
// distinguishable from backend failures.
var ErrNotFound = errors.New("blob: object not found")

// Store is the gateway to the object store backing all job state and
// artifacts.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Upload streams a local file to the given key.
	Upload(ctx context.Context, key string, localPath string) error

	// ListPrefixes returns the immediate child prefixes under prefix,
	// delimiter "/", with the parent prefix and trailing slash stripped.
	ListPrefixes(ctx context.Context, prefix string) ([]string, error)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
