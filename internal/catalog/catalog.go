// Package catalog keeps the local exercise catalog in sync with a remote list.
package catalog

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// ErrRefreshInProgress is returned when a refresh starts while another runs.
var ErrRefreshInProgress = errors.New("catalog refresh already in progress")

// Field names accepted for each exercise attribute, in lookup order.
var (
	nameKeys        = []string{"name", "nombre"}
	descriptionKeys = []string{"description", "descripcion"}
	bodyPartKeys    = []string{"bodyPart", "parteCuerpo"}
	equipmentKeys   = []string{"equipment", "elemento"}
)

// Synchronizer replaces the stored catalog with the remote one.
type Synchronizer struct {
	store   *repository.Store
	source  Source
	timeout time.Duration
	mu      sync.Mutex
}

// NewSynchronizer creates a Synchronizer. A zero timeout means none.
func NewSynchronizer(store *repository.Store, source Source, timeout time.Duration) *Synchronizer {
	return &Synchronizer{store: store, source: source, timeout: timeout}
}

// Refresh fetches the remote list, renumbers it 1..N and writes it to both
// the catalog and the working set. On any error nothing is written.
func (s *Synchronizer) Refresh(ctx context.Context) ([]domain.Exercise, error) {
	if !s.mu.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	body, err := s.source.Fetch(ctx)
	if err != nil {
		log.Printf("ERROR: Catalog fetch failed: %v", err)
		return nil, err
	}
	exercises, err := Normalize(body)
	if err != nil {
		log.Printf("ERROR: Catalog payload rejected: %v", err)
		return nil, err
	}

	docs := repository.Documents(exercises, domain.Exercise.Document)
	err = s.store.SaveBatch(ctx,
		repository.Entry{Key: repository.KeyExercisesCatalog, Value: docs},
		repository.Entry{Key: repository.KeyExercises, Value: docs},
	)
	if err != nil {
		return nil, fmt.Errorf("store catalog: %w", err)
	}
	log.Printf("INFO: Catalog synchronized (%d exercises)", len(exercises))
	return exercises, nil
}

// EnsureCatalog refreshes only when no catalog is stored yet. It reports
// whether a refresh ran.
func (s *Synchronizer) EnsureCatalog(ctx context.Context) (bool, error) {
	existing := repository.LoadList(ctx, s.store, repository.KeyExercisesCatalog, []domain.Exercise{}, domain.ExerciseFromDocument)
	if len(existing) > 0 {
		return false, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Normalize turns a remote payload into exercises with ids 1..N. Records
// that are not objects or lack a name are skipped.
func Normalize(body []byte) ([]domain.Exercise, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &RemoteFormatError{Reason: "invalid JSON", Err: err}
	}
	records, ok := payload.([]any)
	if !ok {
		return nil, &RemoteFormatError{Reason: "expected a list of exercises"}
	}

	exercises := make([]domain.Exercise, 0, len(records))
	for i, raw := range records {
		record, ok := raw.(map[string]any)
		if !ok {
			log.Printf("WARN: Skipping catalog record %d: not an object", i)
			continue
		}
		name := field(record, nameKeys)
		if name == "" {
			log.Printf("WARN: Skipping catalog record %d: missing name", i)
			continue
		}
		bodyPart := field(record, bodyPartKeys)
		description := field(record, descriptionKeys)
		if description == "" {
			description = placeholderDescription(bodyPart)
		}
		id := int64(len(exercises) + 1)
		exercises = append(exercises, domain.NewExercise(id, name, description, bodyPart, field(record, equipmentKeys)))
	}
	return exercises, nil
}

func placeholderDescription(bodyPart string) string {
	if bodyPart == "" {
		bodyPart = "body part"
	}
	return "Exercise for " + bodyPart
}

// field returns the first non-blank scalar value among keys.
func field(record map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
