package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Backend != BackendFile || cfg.Storage.Dir != "data" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Catalog.Source != CatalogSourceHTTP || cfg.Catalog.URL != DefaultCatalogURL {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Catalog.Timeout != 15*time.Second {
		t.Errorf("catalog timeout = %v, want 15s", cfg.Catalog.Timeout)
	}
	if cfg.Pagination.PageSize != 10 {
		t.Errorf("page size = %d, want 10", cfg.Pagination.PageSize)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
storage:
  backend: mongo
database:
  uri: mongodb://db:27017
  name: gym
catalog:
  timeout: 2s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DATABASE_NAME", "gym_from_env")
	t.Setenv("S3_BUCKET_NAME", "bucket-from-env")

	cfg, err := LoadConfig(dir, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Backend != BackendMongo {
		t.Errorf("backend = %q, want mongo", cfg.Storage.Backend)
	}
	if cfg.Database.URI != "mongodb://db:27017" {
		t.Errorf("uri = %q", cfg.Database.URI)
	}
	if cfg.Database.Name != "gym_from_env" {
		t.Errorf("env should override file: name = %q", cfg.Database.Name)
	}
	if cfg.S3.BucketName != "bucket-from-env" {
		t.Errorf("bucket = %q", cfg.S3.BucketName)
	}
	if cfg.Catalog.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", cfg.Catalog.Timeout)
	}
}

func TestLoadConfigFlagsWin(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "file")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.Int("page-size", 0, "")
	if err := flags.Parse([]string{"--backend=memory", "--page-size=25"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(t.TempDir(), flags)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Pagination.PageSize != 25 {
		t.Errorf("page size = %d, want 25", cfg.Pagination.PageSize)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown backend":   {"STORAGE_BACKEND": "redis"},
		"s3 without bucket": {"STORAGE_BACKEND": "s3"},
		"unknown source":    {"CATALOG_SOURCE": "ftp"},
		"zero page size":    {"PAGINATION_PAGE_SIZE": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(t.TempDir(), nil); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
