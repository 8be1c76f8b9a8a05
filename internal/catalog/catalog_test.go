package catalog_test

import (
	"alcyxob/training-manager/internal/catalog"
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/repository/memory"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func serve(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func loadKey(t *testing.T, store *repository.Store, key string) []domain.Exercise {
	t.Helper()
	return repository.LoadList(context.Background(), store, key, nil, domain.ExerciseFromDocument)
}

func TestRefreshStoresNumberedCatalog(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[
		{"name":"Squats","description":"Legs","bodyPart":"Legs","equipment":"Barbell"},
		{"name":"Push-up","bodyPart":"Chest"},
		{"name":"Plank"}
	]`)
	store := repository.NewStore(memory.New())
	syncer := catalog.NewSynchronizer(store, &catalog.HTTPSource{URL: srv.URL}, time.Second)

	got, err := syncer.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := []domain.Exercise{
		{ID: 1, Name: "Squats", Description: "Legs", BodyPart: "legs", Equipment: "barbell"},
		{ID: 2, Name: "Push-up", Description: "Exercise for Chest", BodyPart: "chest"},
		{ID: 3, Name: "Plank", Description: "Exercise for body part"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Refresh = %+v, want %+v", got, want)
	}
	for _, key := range []string{repository.KeyExercisesCatalog, repository.KeyExercises} {
		if stored := loadKey(t, store, key); !reflect.DeepEqual(stored, want) {
			t.Errorf("%s = %+v, want %+v", key, stored, want)
		}
	}
}

func TestRefreshReplacesPreviousCatalog(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `[{"nombre":"Sentadilla","parteCuerpo":"Piernas","elemento":"Barra"}]`)
	store := repository.NewStore(memory.New())
	old := repository.Documents([]domain.Exercise{domain.NewExercise(99, "Old", "Gone", "", "")}, domain.Exercise.Document)
	if err := store.Save(context.Background(), repository.KeyExercisesCatalog, old); err != nil {
		t.Fatal(err)
	}

	if _, err := catalog.NewSynchronizer(store, &catalog.HTTPSource{URL: srv.URL}, 0).Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := []domain.Exercise{{ID: 1, Name: "Sentadilla", Description: "Exercise for Piernas", BodyPart: "piernas", Equipment: "barra"}}
	if got := loadKey(t, store, repository.KeyExercisesCatalog); !reflect.DeepEqual(got, want) {
		t.Errorf("catalog = %+v, want %+v", got, want)
	}
}

func TestRefreshFailuresLeaveStorageUntouched(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"server error", http.StatusInternalServerError, `oops`, func(err error) bool {
			var fe *catalog.RemoteFetchError
			return errors.As(err, &fe) && fe.StatusCode == http.StatusInternalServerError
		}},
		{"not a list", http.StatusOK, `{"name":"Squats"}`, func(err error) bool {
			var fe *catalog.RemoteFormatError
			return errors.As(err, &fe)
		}},
		{"invalid json", http.StatusOK, `[{`, func(err error) bool {
			var fe *catalog.RemoteFormatError
			return errors.As(err, &fe)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := serve(t, tt.status, tt.body)
			backend := memory.New()
			store := repository.NewStore(backend)
			existing := []domain.Exercise{domain.NewExercise(7, "Row", "Back", "back", "cable")}
			docs := repository.Documents(existing, domain.Exercise.Document)
			if err := store.Save(context.Background(), repository.KeyExercisesCatalog, docs); err != nil {
				t.Fatal(err)
			}

			_, err := catalog.NewSynchronizer(store, &catalog.HTTPSource{URL: srv.URL}, 0).Refresh(context.Background())
			if !tt.check(err) {
				t.Fatalf("Refresh error = %v", err)
			}
			if got := loadKey(t, store, repository.KeyExercisesCatalog); !reflect.DeepEqual(got, existing) {
				t.Errorf("catalog = %+v, want unchanged", got)
			}
			if keys := backend.Keys(); !reflect.DeepEqual(keys, []string{repository.KeyExercisesCatalog}) {
				t.Errorf("keys = %v, want only the catalog", keys)
			}
		})
	}
}

func TestNormalizeSkipsUnusableRecords(t *testing.T) {
	got, err := catalog.Normalize([]byte(`[42, {"description":"no name"}, {"name":"  "}, {"name":"Dip","equipment":"Bars"}, null]`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []domain.Exercise{{ID: 1, Name: "Dip", Description: "Exercise for body part", Equipment: "bars"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeEmptyList(t *testing.T) {
	got, err := catalog.Normalize([]byte(`[]`))
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Normalize([]) = %#v, %v, want empty list", got, err)
	}
}

func TestEnsureCatalogSkipsWhenPresent(t *testing.T) {
	srv, hits := serve(t, http.StatusOK, `[{"name":"Squats"}]`)
	store := repository.NewStore(memory.New())
	syncer := catalog.NewSynchronizer(store, &catalog.HTTPSource{URL: srv.URL}, 0)

	ran, err := syncer.EnsureCatalog(context.Background())
	if err != nil || !ran {
		t.Fatalf("EnsureCatalog(empty) = %v, %v, want true, nil", ran, err)
	}
	ran, err = syncer.EnsureCatalog(context.Background())
	if err != nil || ran {
		t.Fatalf("EnsureCatalog(populated) = %v, %v, want false, nil", ran, err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("remote fetched %d times, want 1", n)
	}
}

// blockingSource holds Fetch open until released.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) Fetch(ctx context.Context) ([]byte, error) {
	close(s.started)
	<-s.release
	return []byte(`[]`), nil
}

func TestRefreshRejectsConcurrentRun(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	syncer := catalog.NewSynchronizer(repository.NewStore(memory.New()), src, 0)

	done := make(chan error, 1)
	go func() {
		_, err := syncer.Refresh(context.Background())
		done <- err
	}()
	<-src.started

	if _, err := syncer.Refresh(context.Background()); !errors.Is(err, catalog.ErrRefreshInProgress) {
		t.Errorf("concurrent Refresh = %v, want ErrRefreshInProgress", err)
	}
	close(src.release)
	if err := <-done; err != nil {
		t.Errorf("first Refresh = %v", err)
	}
}

type fakeObjects map[string][]byte

func (f fakeObjects) GetObject(_ context.Context, key string) ([]byte, error) {
	body, ok := f[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return body, nil
}

func TestS3Source(t *testing.T) {
	objects := fakeObjects{"catalog/exercises.json": []byte(`[{"name":"Squats"}]`)}

	body, err := (&catalog.S3Source{Objects: objects, Key: "catalog/exercises.json"}).Fetch(context.Background())
	if err != nil || string(body) != `[{"name":"Squats"}]` {
		t.Fatalf("Fetch = %q, %v", body, err)
	}

	_, err = (&catalog.S3Source{Objects: objects, Key: "missing.json"}).Fetch(context.Background())
	var fe *catalog.RemoteFetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch(missing) = %v, want RemoteFetchError 404", err)
	}
}
