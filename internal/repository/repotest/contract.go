// Package repotest holds the behaviour every repository.Backend must share.
package repotest

import (
	"alcyxob/training-manager/internal/repository"
	"bytes"
	"context"
	"errors"
	"testing"
)

// RunBackendContract exercises a Backend produced by newBackend. Each
// subtest receives a fresh, empty backend.
func RunBackendContract(t *testing.T, newBackend func(t *testing.T) repository.Backend) {
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		b := newBackend(t)
		if _, err := b.Get(ctx, repository.KeySessions); !errors.Is(err, repository.ErrKeyNotFound) {
			t.Fatalf("Get(missing) error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("PutGetOverwrite", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Put(ctx, repository.KeyUsers, []byte(`[1]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := b.Put(ctx, repository.KeyUsers, []byte(`[2]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := b.Get(ctx, repository.KeyUsers)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, []byte(`[2]`)) {
			t.Fatalf("Get = %s, want [2]", got)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		b := newBackend(t)
		if err := b.Put(ctx, repository.KeyExercises, []byte(`[]`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		for i := 0; i < 2; i++ {
			if err := b.Delete(ctx, repository.KeyExercises); err != nil {
				t.Fatalf("Delete #%d: %v", i+1, err)
			}
		}
		if _, err := b.Get(ctx, repository.KeyExercises); !errors.Is(err, repository.ErrKeyNotFound) {
			t.Fatalf("Get after Delete error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		b := newBackend(t)
		for _, key := range []string{repository.KeyUsers, repository.KeyExercisesCatalog, repository.KeySessions} {
			if err := b.Put(ctx, key, []byte(`[]`)); err != nil {
				t.Fatalf("Put(%s): %v", key, err)
			}
		}
		if err := b.Clear(ctx); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		for _, key := range []string{repository.KeyUsers, repository.KeyExercisesCatalog, repository.KeySessions} {
			if _, err := b.Get(ctx, key); !errors.Is(err, repository.ErrKeyNotFound) {
				t.Errorf("Get(%s) after Clear error = %v", key, err)
			}
		}
	})
}
