package service_test

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"alcyxob/training-manager/internal/repository/memory"
	"alcyxob/training-manager/internal/service"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type failingPutBackend struct {
	*memory.Backend
	failKey string
	armed   bool
}

var errPutFailed = errors.New("put failed")

func (b *failingPutBackend) Put(ctx context.Context, key string, data []byte) error {
	if b.armed && key == b.failKey {
		return errPutFailed
	}
	return b.Backend.Put(ctx, key, data)
}

func sampleCatalog() []domain.Exercise {
	return []domain.Exercise{
		domain.NewExercise(1, "Squats", "Legs", "Legs", "Barbell"),
		domain.NewExercise(2, "Front squat", "Legs", "legs", "barbell"),
		domain.NewExercise(3, "Goblet squat", "Legs", "legs", "dumbbell"),
		domain.NewExercise(4, "Push-up", "Chest", "chest", ""),
		domain.NewExercise(5, "Row", "Back", "back", "cable"),
	}
}

func TestCreateExerciseWritesBothKeys(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.exercises.CreateExercise(ctx, service.NewExerciseInput{
		Name: "Plank", Description: "Core hold", BodyPart: " Core ", Equipment: "",
	})
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	if created.BodyPart != "core" {
		t.Errorf("BodyPart = %q, want normalized %q", created.BodyPart, "core")
	}

	for _, key := range []string{repository.KeyExercisesCatalog, repository.KeyExercises} {
		got := repository.LoadList(ctx, f.store, key, nil, domain.ExerciseFromDocument)
		if len(got) != 1 || got[0] != *created {
			t.Errorf("%s = %+v, want [%+v]", key, got, *created)
		}
	}
}

func TestCreateExerciseValidation(t *testing.T) {
	f := newFixture(t, nil)
	tests := []struct {
		input service.NewExerciseInput
		field string
	}{
		{service.NewExerciseInput{Description: "x"}, "name"},
		{service.NewExerciseInput{Name: "Plank", Description: "  "}, "description"},
	}
	for _, tt := range tests {
		_, err := f.exercises.CreateExercise(context.Background(), tt.input)
		var verr *service.ValidationError
		if !errors.As(err, &verr) || verr.Field != tt.field {
			t.Errorf("CreateExercise(%+v) = %v, want validation error on %s", tt.input, err, tt.field)
		}
	}
}

func TestListExercisesFilterThenPaginate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedCatalog(t, sampleCatalog()...)

	tests := []struct {
		name    string
		filter  service.ExerciseFilter
		page    service.PageRequest
		wantIDs []int64
		total   int
	}{
		{"all", service.ExerciseFilter{}, service.PageRequest{Number: 1}, []int64{1, 2, 3, 4, 5}, 5},
		{"name substring", service.ExerciseFilter{Name: "SQUAT"}, service.PageRequest{Number: 1}, []int64{1, 2, 3}, 3},
		{"name and equipment", service.ExerciseFilter{Name: "squat", Equipment: "Barbell"}, service.PageRequest{Number: 1}, []int64{1, 2}, 2},
		{"body part", service.ExerciseFilter{BodyPart: "legs"}, service.PageRequest{Number: 2, Size: 2}, []int64{3}, 3},
		{"no match", service.ExerciseFilter{BodyPart: "neck"}, service.PageRequest{Number: 1}, []int64{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := f.exercises.ListExercises(ctx, tt.filter, tt.page)
			ids := []int64{}
			for _, e := range page.Items {
				ids = append(ids, e.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if page.Total != tt.total {
				t.Errorf("Total = %d, want %d", page.Total, tt.total)
			}
		})
	}
}

func TestUpdateAndDeleteExercise(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedCatalog(t, sampleCatalog()...)

	updated, err := f.exercises.UpdateExercise(ctx, 4, service.ExercisePatch{Equipment: strPtr("Mat")})
	if err != nil {
		t.Fatalf("UpdateExercise: %v", err)
	}
	if updated.Name != "Push-up" || updated.Equipment != "mat" {
		t.Errorf("UpdateExercise = %+v, want Push-up on mat", updated)
	}
	if _, err := f.exercises.UpdateExercise(ctx, 42, service.ExercisePatch{}); !errors.Is(err, service.ErrExerciseNotFound) {
		t.Errorf("UpdateExercise(missing) = %v, want ErrExerciseNotFound", err)
	}

	if deleted, err := f.exercises.DeleteExercise(ctx, 5, nil); err != nil || !deleted {
		t.Fatalf("DeleteExercise = %v, %v, want true, nil", deleted, err)
	}
	if deleted, err := f.exercises.DeleteExercise(ctx, 5, nil); err != nil || deleted {
		t.Fatalf("DeleteExercise(again) = %v, %v, want false, nil", deleted, err)
	}
	working := repository.LoadList(ctx, f.store, repository.KeyExercises, nil, domain.ExerciseFromDocument)
	if len(working) != 4 {
		t.Errorf("working set has %d exercises, want 4", len(working))
	}
}

func TestExerciseWriteIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	backend := &failingPutBackend{Backend: memory.New(), failKey: repository.KeyExercises}
	f := newFixture(t, backend)
	f.seedCatalog(t, sampleCatalog()...)
	backend.armed = true

	if _, err := f.exercises.CreateExercise(ctx, service.NewExerciseInput{Name: "Plank", Description: "Core"}); !errors.Is(err, errPutFailed) {
		t.Fatalf("CreateExercise = %v, want %v", err, errPutFailed)
	}
	for _, key := range []string{repository.KeyExercisesCatalog, repository.KeyExercises} {
		got := repository.LoadList(ctx, f.store, key, nil, domain.ExerciseFromDocument)
		if !reflect.DeepEqual(got, sampleCatalog()) {
			t.Errorf("%s changed after failed write: %+v", key, got)
		}
	}
}

func TestFacets(t *testing.T) {
	f := newFixture(t, nil)
	f.seedCatalog(t, sampleCatalog()...)
	got := f.exercises.Facets(context.Background())
	want := service.Facets{
		BodyParts: []string{"back", "chest", "legs"},
		Equipment: []string{"barbell", "cable", "dumbbell"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Facets = %+v, want %+v", got, want)
	}
}

func TestListExercisesPagesCoverFilteredSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	catalog := sampleCatalog()
	for i := 0; i < 7; i++ {
		catalog = append(catalog, domain.NewExercise(int64(100+i), fmt.Sprintf("Lunge %d", i), "Legs", "legs", "dumbbell"))
	}
	f.seedCatalog(t, catalog...)

	filters := []service.ExerciseFilter{
		{},
		{BodyPart: "legs"},
		{Name: "lunge", Equipment: "dumbbell"},
		{Equipment: "kettlebell"},
	}
	for _, filter := range filters {
		for _, size := range []int{1, 2, 3, 10} {
			var want []domain.Exercise
			for _, e := range catalog {
				if matchesExerciseFilter(filter, e) {
					want = append(want, e)
				}
			}

			first := f.exercises.ListExercises(ctx, filter, service.PageRequest{Number: 1, Size: size})
			var got []domain.Exercise
			for n := 1; n <= first.TotalPages(); n++ {
				page := f.exercises.ListExercises(ctx, filter, service.PageRequest{Number: n, Size: size})
				if page.Total != len(want) {
					t.Errorf("filter %+v size %d page %d: Total = %d, want %d", filter, size, n, page.Total, len(want))
				}
				got = append(got, page.Items...)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("filter %+v size %d: pages = %+v, want %+v", filter, size, got, want)
			}
		}
	}
}

// matchesExerciseFilter restates the filter rules independently of the service.
func matchesExerciseFilter(f service.ExerciseFilter, e domain.Exercise) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.BodyPart != "" && e.BodyPart != domain.NormalizeCategory(f.BodyPart) {
		return false
	}
	return f.Equipment == "" || e.Equipment == domain.NormalizeCategory(f.Equipment)
}
