package repository

import (
	"alcyxob/training-manager/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Store is the typed persistence adapter over a Backend. Values are stored
// as JSON documents; reads never fail loudly: absent or corrupt documents
// fall back to the caller's default.
type Store struct {
	backend Backend
}

// NewStore creates a Store writing through backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Entry is one key/value pair written by SaveBatch.
type Entry struct {
	Key   string
	Value any
}

// Save encodes value as JSON and overwrites key.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// SaveBatch writes every entry in order. All values are encoded before the
// first write; if a write fails, the keys already written are restored to
// their previous raw contents (or removed if they were absent).
func (s *Store) SaveBatch(ctx context.Context, entries ...Entry) error {
	encoded := make([][]byte, len(entries))
	for i, entry := range entries {
		data, err := json.Marshal(entry.Value)
		if err != nil {
			return fmt.Errorf("encode %q: %w", entry.Key, err)
		}
		encoded[i] = data
	}

	previous := make([]snapshot, len(entries))
	for i, entry := range entries {
		data, err := s.backend.Get(ctx, entry.Key)
		switch {
		case err == nil:
			previous[i] = snapshot{data: data, present: true}
		case errors.Is(err, ErrKeyNotFound):
		default:
			return fmt.Errorf("snapshot %q: %w", entry.Key, err)
		}
	}

	for i, entry := range entries {
		if err := s.backend.Put(ctx, entry.Key, encoded[i]); err != nil {
			s.restore(ctx, entries[:i], previous[:i])
			return fmt.Errorf("save %q: %w", entry.Key, err)
		}
	}
	return nil
}

type snapshot struct {
	data    []byte
	present bool
}

func (s *Store) restore(ctx context.Context, entries []Entry, previous []snapshot) {
	for i := len(entries) - 1; i >= 0; i-- {
		key := entries[i].Key
		var err error
		if previous[i].present {
			err = s.backend.Put(ctx, key, previous[i].data)
		} else {
			err = s.backend.Delete(ctx, key)
		}
		if err != nil {
			log.Printf("ERROR: Failed to roll back key %q: %v", key, err)
		}
	}
}

// Remove deletes key. Failures are logged and swallowed.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		log.Printf("WARN: Failed to remove key %q: %v", key, err)
	}
}

// Clear deletes every key. Failures are logged and swallowed.
func (s *Store) Clear(ctx context.Context) {
	if err := s.backend.Clear(ctx); err != nil {
		log.Printf("WARN: Failed to clear storage: %v", err)
	}
}

// raw returns the stored bytes for key, or false when absent or unreadable.
func (s *Store) raw(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Printf("WARN: Failed to read key %q: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func logDecodeFailure(key string, err error) {
	log.Printf("WARN: %v", &StorageDecodeError{Key: key, Err: err})
}

// LoadList reads the sequence stored at key. Without a decoder the JSON is
// unmarshalled straight into []T. With one, each element is decoded
// independently and malformed elements are dropped. fallback is returned
// when the key is absent, unreadable or not a JSON array.
func LoadList[T any](ctx context.Context, s *Store, key string, fallback []T, decode func(domain.Document) (T, bool)) []T {
	data, ok := s.raw(ctx, key)
	if !ok {
		return fallback
	}

	if decode == nil {
		var out []T
		if err := json.Unmarshal(data, &out); err != nil {
			logDecodeFailure(key, err)
			return fallback
		}
		if out == nil {
			return fallback
		}
		return out
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		logDecodeFailure(key, err)
		return fallback
	}
	if items == nil {
		return fallback
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		var value T
		doc, ok := domain.AsDocument(item)
		if ok {
			value, ok = decode(doc)
		}
		if !ok {
			logDecodeFailure(key, fmt.Errorf("element %d is malformed", i))
			continue
		}
		out = append(out, value)
	}
	return out
}

// Load reads a single value stored at key, decoding it with decode when
// given. fallback is returned when the key is absent or undecodable.
func Load[T any](ctx context.Context, s *Store, key string, fallback T, decode func(domain.Document) (T, bool)) T {
	data, ok := s.raw(ctx, key)
	if !ok {
		return fallback
	}

	if decode == nil {
		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			logDecodeFailure(key, err)
			return fallback
		}
		return out
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logDecodeFailure(key, err)
		return fallback
	}
	value, ok := decode(doc)
	if !ok {
		logDecodeFailure(key, errors.New("document is malformed"))
		return fallback
	}
	return value
}

// Documents converts entities into their stored form using encode.
func Documents[T any](items []T, encode func(T) domain.Document) []domain.Document {
	docs := make([]domain.Document, 0, len(items))
	for _, item := range items {
		docs = append(docs, encode(item))
	}
	return docs
}
