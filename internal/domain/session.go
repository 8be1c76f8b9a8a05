// internal/domain/session.go
package domain

import "strings"

// SessionExercise prescribes one exercise within a session.
type SessionExercise struct {
	ExerciseID int64 `json:"exerciseId"` // May dangle if the exercise was deleted
	Sets       int   `json:"sets"`
	Reps       int   `json:"reps"`
}

// Session is a training session for one client.
type Session struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	ClientID  int64             `json:"clientId"`            // Link to a User with RoleClient
	TrainerID int64             `json:"trainerId,omitempty"` // Optional, zero when unset
	Exercises []SessionExercise `json:"exercises"`           // At most one entry per ExerciseID
}

// NewSession builds a normalized Session with no exercises.
func NewSession(id int64, title string, clientID, trainerID int64) Session {
	return Session{
		ID:        id,
		Title:     strings.TrimSpace(title),
		ClientID:  clientID,
		TrainerID: trainerID,
		Exercises: []SessionExercise{},
	}
}

// Upsert inserts line, or replaces sets/reps of the existing entry with the
// same ExerciseID in place.
func (s *Session) Upsert(line SessionExercise) {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == line.ExerciseID {
			s.Exercises[i].Sets = line.Sets
			s.Exercises[i].Reps = line.Reps
			return
		}
	}
	s.Exercises = append(s.Exercises, line)
}

// RemoveExercise drops the entry for exerciseID and reports whether one existed.
func (s *Session) RemoveExercise(exerciseID int64) bool {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == exerciseID {
			s.Exercises = append(s.Exercises[:i], s.Exercises[i+1:]...)
			return true
		}
	}
	return false
}

// Line returns the entry for exerciseID.
func (s Session) Line(exerciseID int64) (SessionExercise, bool) {
	for _, line := range s.Exercises {
		if line.ExerciseID == exerciseID {
			return line, true
		}
	}
	return SessionExercise{}, false
}

// Clone returns a copy that shares no slice storage with s.
func (s Session) Clone() Session {
	out := s
	out.Exercises = append([]SessionExercise(nil), s.Exercises...)
	if out.Exercises == nil {
		out.Exercises = []SessionExercise{}
	}
	return out
}

// Document serializes the session.
func (s Session) Document() Document {
	lines := make([]any, 0, len(s.Exercises))
	for _, line := range s.Exercises {
		lines = append(lines, Document{
			"exerciseId": line.ExerciseID,
			"sets":       line.Sets,
			"reps":       line.Reps,
		})
	}
	doc := Document{
		"id":        s.ID,
		"title":     s.Title,
		"clientId":  s.ClientID,
		"exercises": lines,
	}
	if s.TrainerID != 0 {
		doc["trainerId"] = s.TrainerID
	}
	return doc
}

// SessionFromDocument deserializes a session. Exercise lines that are not
// well-formed are dropped; duplicates collapse onto the last occurrence.
func SessionFromDocument(doc Document) (Session, bool) {
	if doc == nil {
		return Session{}, false
	}
	id, ok := intField(doc, "id")
	if !ok {
		return Session{}, false
	}
	clientID, ok := intField(doc, "clientId")
	if !ok {
		return Session{}, false
	}
	title, _ := stringField(doc, "title")
	trainerID, _ := intField(doc, "trainerId")
	lines, ok := listField(doc, "exercises")
	if !ok {
		return Session{}, false
	}

	session := NewSession(id, title, clientID, trainerID)
	for _, raw := range lines {
		line, ok := sessionExerciseFromDocument(raw)
		if !ok {
			continue
		}
		session.Upsert(line)
	}
	return session, true
}

func sessionExerciseFromDocument(doc Document) (SessionExercise, bool) {
	if doc == nil {
		return SessionExercise{}, false
	}
	exerciseID, ok := intField(doc, "exerciseId")
	if !ok {
		return SessionExercise{}, false
	}
	sets, ok := intField(doc, "sets")
	if !ok || sets <= 0 {
		return SessionExercise{}, false
	}
	reps, ok := intField(doc, "reps")
	if !ok || reps <= 0 {
		return SessionExercise{}, false
	}
	return SessionExercise{ExerciseID: exerciseID, Sets: int(sets), Reps: int(reps)}, true
}
