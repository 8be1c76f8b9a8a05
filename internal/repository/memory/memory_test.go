package memory

import (
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/repository/repotest"
	"context"
	"testing"
)

func TestBackendContract(t *testing.T) {
	repotest.RunBackendContract(t, func(t *testing.T) repository.Backend {
		return New()
	})
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	b := New()
	if err := b.Put(ctx, "k", []byte("abc")); err != nil {
		t.Fatal(err)
	}
	got, _ := b.Get(ctx, "k")
	got[0] = 'z'
	again, _ := b.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get: %q", again)
	}
	if keys := b.Keys(); len(keys) != 1 || keys[0] != "k" {
		t.Errorf("Keys() = %v", keys)
	}
}
