// internal/domain/exercise.go
package domain

import (
	"fmt"
	"strings"
)

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BodyPart    string `json:"bodyPart,omitempty"`  // Lower-cased, e.g. "legs", "chest"
	Equipment   string `json:"equipment,omitempty"` // Lower-cased, e.g. "barbell", "body weight"
}

// NewExercise builds a normalized Exercise.
func NewExercise(id int64, name, description, bodyPart, equipment string) Exercise {
	return Exercise{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		BodyPart:    NormalizeCategory(bodyPart),
		Equipment:   NormalizeCategory(equipment),
	}
}

// NormalizeCategory is applied to categorical fields (body part, equipment)
// both when storing and when filtering.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Info renders the exercise as "Name: description".
func (e Exercise) Info() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Description)
}

// Document serializes the exercise.
func (e Exercise) Document() Document {
	return Document{
		"id":          e.ID,
		"name":        e.Name,
		"description": e.Description,
		"bodyPart":    e.BodyPart,
		"equipment":   e.Equipment,
	}
}

// ExerciseFromDocument deserializes an exercise. An id and a name are
// required; everything else defaults to empty.
func ExerciseFromDocument(doc Document) (Exercise, bool) {
	if doc == nil {
		return Exercise{}, false
	}
	id, ok := intField(doc, "id")
	if !ok {
		return Exercise{}, false
	}
	name, ok := stringField(doc, "name")
	if !ok {
		return Exercise{}, false
	}
	description, _ := stringField(doc, "description")
	bodyPart, _ := stringField(doc, "bodyPart")
	equipment, _ := stringField(doc, "equipment")
	return NewExercise(id, name, description, bodyPart, equipment), true
}
