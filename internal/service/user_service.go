package service

import (
	"alcyxob/training-manager/internal/domain"
	"alcyxob/training-manager/internal/repository"
	"context"
	"fmt"
	"strings"
	"sync"
)

// NewUserInput holds the fields needed to register a user.
type NewUserInput struct {
	Name string
	Role string // Case-insensitive; blank or unknown means client
}

// UserPatch names the fields an update may change. Nil fields are kept.
type UserPatch struct {
	Name *string
	Role *string
}

// UserFilter matches users whose name or role contains Query, ignoring case.
type UserFilter struct {
	Query string
}

func (f UserFilter) match(u domain.User) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(string(u.Role), q)
}

// --- Service Interface ---
type UserService interface {
	CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error)
	ListUsers(ctx context.Context, filter UserFilter, page PageRequest) Page[domain.User]
	AllUsers(ctx context.Context) []domain.User
	ListClients(ctx context.Context) []domain.User
	SeedDemoUsers(ctx context.Context) (bool, error)
}

// --- Service Implementation ---

// userService implements UserService on the "users" key.
type userService struct {
	mu    sync.Mutex
	store *repository.Store
	ids   *IDGenerator
}

// NewUserService creates a new instance of userService.
func NewUserService(store *repository.Store, ids *IDGenerator) UserService {
	return &userService{store: store, ids: ids}
}

func (s *userService) load(ctx context.Context) []domain.User {
	return repository.LoadList(ctx, s.store, repository.KeyUsers, []domain.User{}, domain.UserFromDocument)
}

func (s *userService) save(ctx context.Context, users []domain.User) error {
	return s.store.Save(ctx, repository.KeyUsers, repository.Documents(users, domain.User.Document))
}

// CreateUser registers a new user with a fresh id.
func (s *userService) CreateUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load(ctx)
	taken := make([]int64, len(users))
	for i, u := range users {
		taken[i] = u.ID
	}
	user := domain.NewUser(s.ids.Next(taken...), name, input.Role)

	if err := s.save(ctx, append(users, user)); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// GetUser retrieves a single user.
func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.load(ctx) {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateUser applies patch to the user with the given id.
func (s *userService) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*domain.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name", "cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load(ctx)
	for i := range users {
		if users[i].ID != id {
			continue
		}
		updated := users[i]
		if patch.Name != nil {
			updated.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Role != nil {
			updated.Role = domain.ParseRole(*patch.Role)
		}
		users[i] = updated
		if err := s.save(ctx, users); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &updated, nil
	}
	return nil, ErrUserNotFound
}

// DeleteUser removes the user if present. Sessions that reference the user
// are left alone and resolve the client as unknown. The boolean reports
// whether something was deleted.
func (s *userService) DeleteUser(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load(ctx)
	idx := -1
	for i, u := range users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	if !confirmed(confirm, fmt.Sprintf("Delete user %q?", users[idx].Name)) {
		return false, nil
	}

	remaining := append(users[:idx:idx], users[idx+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return true, nil
}

// ListUsers filters by name/role and returns one page.
func (s *userService) ListUsers(ctx context.Context, filter UserFilter, page PageRequest) Page[domain.User] {
	return Paginate(filterItems(s.AllUsers(ctx), filter.match), page)
}

// AllUsers returns every stored user in insertion order.
func (s *userService) AllUsers(ctx context.Context) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// ListClients returns the users a session can be assigned to.
func (s *userService) ListClients(ctx context.Context) []domain.User {
	return filterItems(s.AllUsers(ctx), func(u domain.User) bool { return u.IsClient() })
}

// SeedDemoUsers stores a small demo roster when no users exist yet.
func (s *userService) SeedDemoUsers(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.load(ctx)) > 0 {
		return false, nil
	}
	demo := []domain.User{
		domain.NewUser(1, "Ana", string(domain.RoleAdmin)),
		domain.NewUser(2, "Luis", string(domain.RoleTrainer)),
		domain.NewUser(3, "Marta", string(domain.RoleClient)),
	}
	if err := s.save(ctx, demo); err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	return true, nil
}
