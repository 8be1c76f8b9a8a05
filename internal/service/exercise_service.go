package service

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NewExerciseInput holds the fields needed to add an exercise to the catalog.
type NewExerciseInput struct {
	Name        string
	Description string
	BodyPart    string
	Equipment   string
}

// ExercisePatch names the fields an update may change. Nil fields are kept.
type ExercisePatch struct {
	Name        *string
	Description *string
	BodyPart    *string
	Equipment   *string
}

// ExerciseFilter combines a name substring with exact categorical matches.
// Empty fields match everything.
type ExerciseFilter struct {
	Name      string
	BodyPart  string
	Equipment string
}

func (f ExerciseFilter) match(e domain.Exercise) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Name)); q != "" && !strings.Contains(strings.ToLower(e.Name), q) {
		return false
	}
	if bp := domain.NormalizeCategory(f.BodyPart); bp != "" && e.BodyPart != bp {
		return false
	}
	if eq := domain.NormalizeCategory(f.Equipment); eq != "" && e.Equipment != eq {
		return false
	}
	return true
}

// Facets lists the distinct categorical values present in the catalog, for
// populating filter pickers.
type Facets struct {
	BodyParts []string
	Equipment []string
}

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, input NewExerciseInput) (*domain.Exercise, error)
	GetExercise(ctx context.Context, id int64) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, id int64, patch ExercisePatch) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error)
	ListExercises(ctx context.Context, filter ExerciseFilter, page PageRequest) Page[domain.Exercise]
	Catalog(ctx context.Context) []domain.Exercise
	Facets(ctx context.Context) Facets
}

// --- Service Implementation ---

// exerciseService reads the base catalog and writes every change to both
// the catalog and the working set, as one batch.
type exerciseService struct {
	mu    sync.Mutex
	store *repository.Store
	ids   *IDGenerator
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(store *repository.Store, ids *IDGenerator) ExerciseService {
	return &exerciseService{store: store, ids: ids}
}

func (s *exerciseService) load(ctx context.Context) []domain.Exercise {
	return repository.LoadList(ctx, s.store, repository.KeyExercisesCatalog, []domain.Exercise{}, domain.ExerciseFromDocument)
}

func (s *exerciseService) save(ctx context.Context, exercises []domain.Exercise) error {
	docs := repository.Documents(exercises, domain.Exercise.Document)
	return s.store.SaveBatch(ctx,
		repository.Entry{Key: repository.KeyExercisesCatalog, Value: docs},
		repository.Entry{Key: repository.KeyExercises, Value: docs},
	)
}

func validateExerciseText(name, description string) error {
	if name == "" {
		return invalid("name", "is required")
	}
	if description == "" {
		return invalid("description", "is required")
	}
	return nil
}

// CreateExercise adds an exercise to the catalog.
func (s *exerciseService) CreateExercise(ctx context.Context, input NewExerciseInput) (*domain.Exercise, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if err := validateExerciseText(name, description); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exercises := s.load(ctx)
	taken := make([]int64, len(exercises))
	for i, e := range exercises {
		taken[i] = e.ID
	}
	exercise := domain.NewExercise(s.ids.Next(taken...), name, description, input.BodyPart, input.Equipment)

	if err := s.save(ctx, append(exercises, exercise)); err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return &exercise, nil
}

// GetExercise retrieves a single exercise from the catalog.
func (s *exerciseService) GetExercise(ctx context.Context, id int64) (*domain.Exercise, error) {
	for _, e := range s.Catalog(ctx) {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, ErrExerciseNotFound
}

// UpdateExercise applies patch to the exercise with the given id.
func (s *exerciseService) UpdateExercise(ctx context.Context, id int64, patch ExercisePatch) (*domain.Exercise, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name", "cannot be blank")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, invalid("description", "cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exercises := s.load(ctx)
	for i := range exercises {
		if exercises[i].ID != id {
			continue
		}
		current := exercises[i]
		name, description := current.Name, current.Description
		bodyPart, equipment := current.BodyPart, current.Equipment
		if patch.Name != nil {
			name = *patch.Name
		}
		if patch.Description != nil {
			description = *patch.Description
		}
		if patch.BodyPart != nil {
			bodyPart = *patch.BodyPart
		}
		if patch.Equipment != nil {
			equipment = *patch.Equipment
		}
		updated := domain.NewExercise(id, name, description, bodyPart, equipment)
		exercises[i] = updated

		if err := s.save(ctx, exercises); err != nil {
			return nil, fmt.Errorf("update exercise: %w", err)
		}
		return &updated, nil
	}
	return nil, ErrExerciseNotFound
}

// DeleteExercise removes the exercise if present. Sessions keep their
// references, which then render as unknown.
func (s *exerciseService) DeleteExercise(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exercises := s.load(ctx)
	idx := -1
	for i, e := range exercises {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	if !confirmed(confirm, fmt.Sprintf("Delete exercise %q?", exercises[idx].Name)) {
		return false, nil
	}

	remaining := append(exercises[:idx:idx], exercises[idx+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return false, fmt.Errorf("delete exercise: %w", err)
	}
	return true, nil
}

// ListExercises filters the catalog and returns one page.
func (s *exerciseService) ListExercises(ctx context.Context, filter ExerciseFilter, page PageRequest) Page[domain.Exercise] {
	return Paginate(filterItems(s.Catalog(ctx), filter.match), page)
}

// Catalog returns the whole base catalog in stored order.
func (s *exerciseService) Catalog(ctx context.Context) []domain.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Facets collects distinct, sorted body parts and equipment.
func (s *exerciseService) Facets(ctx context.Context) Facets {
	bodyParts := map[string]struct{}{}
	equipment := map[string]struct{}{}
	for _, e := range s.Catalog(ctx) {
		if e.BodyPart != "" {
			bodyParts[e.BodyPart] = struct{}{}
		}
		if e.Equipment != "" {
			equipment[e.Equipment] = struct{}{}
		}
	}
	return Facets{BodyParts: sortedKeys(bodyParts), Equipment: sortedKeys(equipment)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
