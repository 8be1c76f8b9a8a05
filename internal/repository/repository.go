package repository

import (
	"context"
	"fmt"
)

// Error constants for the repository layer
var (
	ErrKeyNotFound  = RepositoryError("key not found")
	ErrWriteFailed  = RepositoryError("write failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Collection keys. Each key holds one JSON document: an ordered array of
// entity documents.
const (
	KeyUsers            = "users"
	KeyExercises        = "exercises"        // Working exercise set shown to users
	KeyExercisesCatalog = "exercisesCatalog" // Base catalog, the one synced from the remote source
	KeySessions         = "sessions"
)

// Backend is the raw key-value store the adapter writes through. Get must
// return ErrKeyNotFound (possibly wrapped) when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// StorageDecodeError describes a stored document that could not be decoded.
// Load never returns it; it is only logged.
type StorageDecodeError struct {
	Key string
	Err error
}

func (e *StorageDecodeError) Error() string {
	return fmt.Sprintf("decode stored document %q: %v", e.Key, e.Err)
}

func (e *StorageDecodeError) Unwrap() error {
	return e.Err
}
