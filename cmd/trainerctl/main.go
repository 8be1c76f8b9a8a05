// trainerctl manages users, the exercise catalog and training sessions
// from the command line.
//
// Usage:
//
//	trainerctl [global flags] <users|exercises|sessions|catalog|reset> <command> [flags]
package main

import (
	"alcyxob/training-manager/internal/catalog"
	"alcyxob/training-manager/internal/config"
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/repository/file"
	"alcyxob/training-manager/internal/repository/memory"
	mongorepo "alcyxob/training-manager/internal/repository/mongo"
	"alcyxob/training-manager/internal/service"
	"alcyxob/training-manager/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("trainerctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configDir := flags.String("config", ".", "directory containing config.yaml")
	assumeYes := flags.BoolP("yes", "y", false, "answer yes to confirmation prompts")
	verbose := flags.BoolP("verbose", "v", false, "log progress to stderr")
	flags.String("backend", "", "storage backend: memory, file, mongo or s3")
	flags.String("data-dir", "", "directory used by the file backend")
	flags.String("mongo-uri", "", "MongoDB connection URI")
	flags.String("catalog-url", "", "URL of the remote exercise catalog")
	flags.Int("page-size", 0, "items per page in list output")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Printf("INFO: Configuration loaded (backend=%s)", cfg.Storage.Backend)

	// --- Storage ---
	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Storage.Backend, err)
	}
	defer closeBackend()
	store := repository.NewStore(backend)

	source, err := catalogSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("catalog source: %w", err)
	}

	// --- Services ---
	ids := service.NewIDGenerator(nil)
	users := service.NewUserService(store, ids)
	exercises := service.NewExerciseService(store, ids)
	a := &app{
		store:     store,
		users:     users,
		exercises: exercises,
		sessions:  service.NewSessionService(store, ids, users, exercises),
		catalog:   catalog.NewSynchronizer(store, source, cfg.Catalog.Timeout),
		pageSize:  cfg.Pagination.PageSize,
		out:       stdout,
		in:        os.Stdin,
		assumeYes: *assumeYes,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
	return a.execute(ctx, flags.Args())
}

// openBackend builds the configured Backend. The returned func releases
// any connection it holds.
func openBackend(ctx context.Context, cfg config.Config) (repository.Backend, func(), error) {
	noop := func() {}
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Println("WARN: Using in-memory storage; nothing will persist after exit")
		return memory.New(), noop, nil

	case config.BackendFile:
		backend, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil

	case config.BackendMongo:
		conn, err := mongorepo.Open(ctx, cfg.Database.URI, cfg.Database.Name, cfg.Database.Collection)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := conn.Close(); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}
		return conn.Backend, closeFn, nil

	case config.BackendS3:
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return s3Storage, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Storage.Backend)
}

func catalogSource(ctx context.Context, cfg config.Config) (catalog.Source, error) {
	if cfg.Catalog.Source == config.CatalogSourceS3 {
		objects, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return &catalog.S3Source{Objects: objects, Key: cfg.Catalog.S3Key}, nil
	}
	return &catalog.HTTPSource{URL: cfg.Catalog.URL, Client: &http.Client{Timeout: cfg.Catalog.Timeout}}, nil
}
