package service

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"context"
	"fmt"
	"strings"
	"sync"
)

// Labels shown in place of references that no longer resolve.
const (
	UnknownClientLabel   = "Unknown"
	UnknownExerciseLabel = "Unknown exercise"
)

// NewSessionInput holds the fields needed to create a session.
type NewSessionInput struct {
	Title     string
	ClientID  int64
	TrainerID int64 // Optional
	Exercises []domain.SessionExercise
}

// SessionPatch names the fields an update may change. Nil fields are kept.
// A non-nil Exercises replaces the whole list.
type SessionPatch struct {
	Title     *string
	ClientID  *int64
	TrainerID *int64
	Exercises *[]domain.SessionExercise
}

// SessionFilter matches on a title substring and, optionally, one client.
type SessionFilter struct {
	Title    string
	ClientID int64 // Zero matches every client
}

func (f SessionFilter) match(s domain.Session) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Title)); q != "" && !strings.Contains(strings.ToLower(s.Title), q) {
		return false
	}
	return f.ClientID == 0 || s.ClientID == f.ClientID
}

// ExerciseLine is one session entry resolved against the catalog.
type ExerciseLine struct {
	ExerciseID int64
	Name       string
	Sets       int
	Reps       int
	Resolved   bool // False when the exercise no longer exists
}

// String renders the line as "<name> - <sets>x<reps>".
func (l ExerciseLine) String() string {
	return fmt.Sprintf("%s - %dx%d", l.Name, l.Sets, l.Reps)
}

// SessionView is a session with its references resolved for display.
type SessionView struct {
	Session        domain.Session
	ClientName     string
	ClientResolved bool
	Lines          []ExerciseLine
}

// --- Service Interface ---
type SessionService interface {
	CreateSession(ctx context.Context, input NewSessionInput) (*domain.Session, error)
	GetSession(ctx context.Context, id int64) (*domain.Session, error)
	UpdateSession(ctx context.Context, id int64, patch SessionPatch) (*domain.Session, error)
	DeleteSession(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error)
	AddExercise(ctx context.Context, sessionID int64, line domain.SessionExercise) (*domain.Session, error)
	RemoveExercise(ctx context.Context, sessionID, exerciseID int64) (*domain.Session, error)
	ListSessions(ctx context.Context, filter SessionFilter, page PageRequest) Page[domain.Session]
	ListSessionViews(ctx context.Context, filter SessionFilter, page PageRequest) Page[SessionView]
	ViewSession(ctx context.Context, id int64) (*SessionView, error)
}

// --- Service Implementation ---
type sessionService struct {
	mu        sync.Mutex
	store     *repository.Store
	ids       *IDGenerator
	users     UserService
	exercises ExerciseService
}

// NewSessionService creates a new instance of sessionService. Users and
// exercises are consulted to validate references and to build views.
func NewSessionService(store *repository.Store, ids *IDGenerator, users UserService, exercises ExerciseService) SessionService {
	return &sessionService{store: store, ids: ids, users: users, exercises: exercises}
}

func (s *sessionService) load(ctx context.Context) []domain.Session {
	return repository.LoadList(ctx, s.store, repository.KeySessions, []domain.Session{}, domain.SessionFromDocument)
}

func (s *sessionService) save(ctx context.Context, sessions []domain.Session) error {
	return s.store.Save(ctx, repository.KeySessions, repository.Documents(sessions, domain.Session.Document))
}

// validateClient checks that clientID names an existing client user.
func (s *sessionService) validateClient(ctx context.Context, clientID int64) error {
	if clientID <= 0 {
		return invalid("clientId", "is required")
	}
	for _, u := range s.users.AllUsers(ctx) {
		if u.ID == clientID {
			if !u.IsClient() {
				return invalid("clientId", fmt.Sprintf("user %d is not a client", clientID))
			}
			return nil
		}
	}
	return invalid("clientId", fmt.Sprintf("user %d does not exist", clientID))
}

func validateLine(line domain.SessionExercise) error {
	if line.Sets <= 0 {
		return invalid("sets", "must be positive")
	}
	if line.Reps <= 0 {
		return invalid("reps", "must be positive")
	}
	return nil
}

func (s *sessionService) catalogIDs(ctx context.Context) map[int64]struct{} {
	ids := map[int64]struct{}{}
	for _, e := range s.exercises.Catalog(ctx) {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// buildLines validates a replacement exercise list. Lines already present in
// current may keep referencing deleted exercises; new ones must resolve.
func (s *sessionService) buildLines(ctx context.Context, current domain.Session, lines []domain.SessionExercise) ([]domain.SessionExercise, error) {
	known := s.catalogIDs(ctx)
	out := domain.Session{Exercises: []domain.SessionExercise{}}
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
		if _, existing := current.Line(line.ExerciseID); !existing {
			if _, ok := known[line.ExerciseID]; !ok {
				return nil, ErrExerciseNotFound
			}
		}
		out.Upsert(line)
	}
	return out.Exercises, nil
}

// CreateSession validates the client and exercises and stores a new session.
func (s *sessionService) CreateSession(ctx context.Context, input NewSessionInput) (*domain.Session, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if err := s.validateClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.load(ctx)
	taken := make([]int64, len(sessions))
	for i, existing := range sessions {
		taken[i] = existing.ID
	}
	session := domain.NewSession(s.ids.Next(taken...), title, input.ClientID, input.TrainerID)
	lines, err := s.buildLines(ctx, session, input.Exercises)
	if err != nil {
		return nil, err
	}
	session.Exercises = lines

	if err := s.save(ctx, append(sessions, session)); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// GetSession retrieves a single session.
func (s *sessionService) GetSession(ctx context.Context, id int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.load(ctx) {
		if session.ID == id {
			return &session, nil
		}
	}
	return nil, ErrSessionNotFound
}

// modify loads the sessions, applies fn to the one with the given id and
// persists the result.
func (s *sessionService) modify(ctx context.Context, id int64, op string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.load(ctx)
	for i := range sessions {
		if sessions[i].ID != id {
			continue
		}
		updated := sessions[i].Clone()
		if err := fn(&updated); err != nil {
			return nil, err
		}
		sessions[i] = updated
		if err := s.save(ctx, sessions); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &updated, nil
	}
	return nil, ErrSessionNotFound
}

// UpdateSession applies patch to the session with the given id.
func (s *sessionService) UpdateSession(ctx context.Context, id int64, patch SessionPatch) (*domain.Session, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, invalid("title", "cannot be blank")
	}
	if patch.TrainerID != nil && *patch.TrainerID < 0 {
		return nil, invalid("trainerId", "cannot be negative")
	}

	return s.modify(ctx, id, "update session", func(session *domain.Session) error {
		if patch.ClientID != nil && *patch.ClientID != session.ClientID {
			if err := s.validateClient(ctx, *patch.ClientID); err != nil {
				return err
			}
			session.ClientID = *patch.ClientID
		}
		if patch.Title != nil {
			session.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.TrainerID != nil {
			session.TrainerID = *patch.TrainerID
		}
		if patch.Exercises != nil {
			lines, err := s.buildLines(ctx, *session, *patch.Exercises)
			if err != nil {
				return err
			}
			session.Exercises = lines
		}
		return nil
	})
}

// DeleteSession removes the session if present.
func (s *sessionService) DeleteSession(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.load(ctx)
	idx := -1
	for i, session := range sessions {
		if session.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	if !confirmed(confirm, fmt.Sprintf("Delete session %q?", sessions[idx].Title)) {
		return false, nil
	}

	remaining := append(sessions[:idx:idx], sessions[idx+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return true, nil
}

// AddExercise inserts a line, or updates sets/reps when the session already
// has that exercise.
func (s *sessionService) AddExercise(ctx context.Context, sessionID int64, line domain.SessionExercise) (*domain.Session, error) {
	if err := validateLine(line); err != nil {
		return nil, err
	}
	if _, ok := s.catalogIDs(ctx)[line.ExerciseID]; !ok {
		return nil, ErrExerciseNotFound
	}
	return s.modify(ctx, sessionID, "add exercise", func(session *domain.Session) error {
		session.Upsert(line)
		return nil
	})
}

// RemoveExercise drops a line. Removing a line that is not there is a no-op.
func (s *sessionService) RemoveExercise(ctx context.Context, sessionID, exerciseID int64) (*domain.Session, error) {
	return s.modify(ctx, sessionID, "remove exercise", func(session *domain.Session) error {
		session.RemoveExercise(exerciseID)
		return nil
	})
}

// ListSessions filters by title/client and returns one page.
func (s *sessionService) ListSessions(ctx context.Context, filter SessionFilter, page PageRequest) Page[domain.Session] {
	s.mu.Lock()
	sessions := s.load(ctx)
	s.mu.Unlock()
	return Paginate(filterItems(sessions, filter.match), page)
}

// ListSessionViews is ListSessions with every item resolved for display.
func (s *sessionService) ListSessionViews(ctx context.Context, filter SessionFilter, page PageRequest) Page[SessionView] {
	sessions := s.ListSessions(ctx, filter, page)
	r := s.newResolver(ctx)
	views := Page[SessionView]{
		Items:  make([]SessionView, 0, len(sessions.Items)),
		Total:  sessions.Total,
		Number: sessions.Number,
		Size:   sessions.Size,
	}
	for _, session := range sessions.Items {
		views.Items = append(views.Items, r.view(session))
	}
	return views
}

// ViewSession resolves a single session for display.
func (s *sessionService) ViewSession(ctx context.Context, id int64) (*SessionView, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.newResolver(ctx).view(*session)
	return &view, nil
}

// resolver holds name lookups for one rendering pass.
type resolver struct {
	users     map[int64]string
	exercises map[int64]string
}

func (s *sessionService) newResolver(ctx context.Context) resolver {
	r := resolver{users: map[int64]string{}, exercises: map[int64]string{}}
	for _, u := range s.users.AllUsers(ctx) {
		r.users[u.ID] = u.Name
	}
	for _, e := range s.exercises.Catalog(ctx) {
		r.exercises[e.ID] = e.Name
	}
	return r
}

func (r resolver) view(session domain.Session) SessionView {
	view := SessionView{Session: session, ClientName: UnknownClientLabel}
	if name, ok := r.users[session.ClientID]; ok {
		view.ClientName = name
		view.ClientResolved = true
	}
	view.Lines = make([]ExerciseLine, 0, len(session.Exercises))
	for _, line := range session.Exercises {
		el := ExerciseLine{ExerciseID: line.ExerciseID, Name: UnknownExerciseLabel, Sets: line.Sets, Reps: line.Reps}
		if name, ok := r.exercises[line.ExerciseID]; ok {
			el.Name = name
			el.Resolved = true
		}
		view.Lines = append(view.Lines, el)
	}
	return view
}
