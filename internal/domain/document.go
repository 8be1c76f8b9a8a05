// internal/domain/document.go
package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Document is the JSON-compatible shape every entity is persisted as.
// Values are whatever encoding/json produces (float64, string, []any,
// map[string]any) or the native Go values written by the encoders.
type Document = map[string]any

// Kind identifies an entity type for the generic Serialize/Deserialize pair.
type Kind string

const (
	KindUser     Kind = "user"
	KindExercise Kind = "exercise"
	KindSession  Kind = "session"
)

// Serialize converts an entity into its Document form.
func Serialize(v any) (Document, error) {
	switch e := v.(type) {
	case User:
		return e.Document(), nil
	case *User:
		return e.Document(), nil
	case Exercise:
		return e.Document(), nil
	case *Exercise:
		return e.Document(), nil
	case Session:
		return e.Document(), nil
	case *Session:
		return e.Document(), nil
	default:
		return nil, fmt.Errorf("domain: cannot serialize %T", v)
	}
}

// Deserialize rebuilds an entity of the given kind. The boolean is false
// when the document is missing or malformed.
func Deserialize(kind Kind, doc Document) (any, bool) {
	switch kind {
	case KindUser:
		return UserFromDocument(doc)
	case KindExercise:
		return ExerciseFromDocument(doc)
	case KindSession:
		return SessionFromDocument(doc)
	default:
		return nil, false
	}
}

// intField reads the first present key as an integer. Numeric strings are
// accepted in base 10 only; booleans and fractional numbers are not.
func intField(doc Document, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		switch n := raw.(type) {
		case bool:
			return 0, false
		case float64:
			if n != math.Trunc(n) {
				return 0, false
			}
		case string:
			v, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
		v, err := cast.ToInt64E(raw)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

// stringField reads the first present key as trimmed text.
func stringField(doc Document, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := doc[key]
		if !ok || raw == nil {
			continue
		}
		switch raw.(type) {
		case map[string]any, []any:
			return "", false
		}
		s, err := cast.ToStringE(raw)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return "", false
}

// listField returns a slice-valued key, accepting both the decoded JSON
// shape and the native shape written by the encoders.
func listField(doc Document, key string) ([]Document, bool) {
	switch items := doc[key].(type) {
	case nil:
		return nil, true
	case []any:
		out := make([]Document, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				out = append(out, nil)
				continue
			}
			out = append(out, m)
		}
		return out, true
	case []Document:
		return items, true
	default:
		return nil, false
	}
}

// AsDocument converts a decoded JSON value into a Document if it is an object.
func AsDocument(v any) (Document, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
