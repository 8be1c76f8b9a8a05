package file

import (
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/repository/repotest"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBackendContract(t *testing.T) {
	repotest.RunBackendContract(t, func(t *testing.T) repository.Backend {
		b, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return b
	})
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := New(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Put(context.Background(), repository.KeyExercisesCatalog, []byte(`[]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "exercisesCatalog.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want [exercisesCatalog.json]", names)
	}
}

func TestClearKeepsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := b.Put(context.Background(), repository.KeyUsers, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := b.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "README.txt")); err != nil {
		t.Errorf("foreign file removed: %v", err)
	}
}
