package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage backends understood by the application.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendS3     = "s3"
)

// Catalog sources.
const (
	CatalogSourceHTTP = "http"
	CatalogSourceS3   = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file, environment variables or flags.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	S3         S3Config         `mapstructure:"s3"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // memory | file | mongo | s3
	Dir     string `mapstructure:"dir"`     // Used by the file backend
}

type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// CatalogConfig describes where the remote exercise catalog lives.
type CatalogConfig struct {
	Source  string        `mapstructure:"source"` // http | s3
	URL     string        `mapstructure:"url"`
	S3Key   string        `mapstructure:"s3_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PaginationConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// DefaultCatalogURL is the public list the legacy front-end synced from.
const DefaultCatalogURL = "https://jsonblob.com/api/jsonBlob/1424456914355544064"

// LoadConfig reads configuration from <path>/config.yaml, environment
// variables and, when flags is non-nil, command-line flags (highest priority).
func LoadConfig(path string, flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars: storage.backend -> STORAGE_BACKEND.
	// Only keys with a default are picked up by Unmarshal, so every key gets one.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "data")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "training_manager")
	v.SetDefault("database.collection", "documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.prefix", "training-manager")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("catalog.source", CatalogSourceHTTP)
	v.SetDefault("catalog.url", DefaultCatalogURL)
	v.SetDefault("catalog.s3_key", "catalog/exercises.json")
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("pagination.page_size", 10)

	if flags != nil {
		if err = bindFlags(v, flags); err != nil {
			return
		}
	}

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// Defaults and env vars are enough to run.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"backend":     "storage.backend",
	"data-dir":    "storage.dir",
	"mongo-uri":   "database.uri",
	"catalog-url": "catalog.url",
	"page-size":   "pagination.page_size",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendMongo, BackendS3:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendS3 && c.S3.BucketName == "" {
		return errors.New("s3.bucket_name is required for the s3 backend")
	}
	switch c.Catalog.Source {
	case CatalogSourceHTTP:
		if c.Catalog.URL == "" {
			return errors.New("catalog.url is required for the http catalog source")
		}
	case CatalogSourceS3:
		if c.S3.BucketName == "" || c.Catalog.S3Key == "" {
			return errors.New("s3.bucket_name and catalog.s3_key are required for the s3 catalog source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination.page_size must be positive, got %d", c.Pagination.PageSize)
	}
	return nil
}
