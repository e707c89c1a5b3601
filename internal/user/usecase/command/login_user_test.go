package command

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
)

type mockUserRepo struct {
	mu      sync.Mutex
	users   map[uint]*domain.User
	byEmail map[string]uint
	nextID  uint
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	m := &mockUserRepo{
		users:   make(map[uint]*domain.User),
		byEmail: make(map[string]uint),
	}
	for _, u := range users {
		m.users[u.ID] = u
		m.byEmail[u.Email] = u.ID
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserRepo) Create(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[user.Email]; exists {
		return apperr.ErrConflict
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) FindByID(id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return m.users[id], nil
}

func (m *mockUserRepo) FindAll(limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) SetActive(id uint, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	user.IsActive = active
	return nil
}

func (m *mockUserRepo) AssignRole(userID uint, roleName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.ErrNotFound
	}
	user.Roles = append(user.Roles, domain.Role{Name: roleName})
	return nil
}

func (m *mockUserRepo) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func testUser(t *testing.T, id uint, email, password string, active bool, roles ...domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		IsActive:     active,
		Roles:        roles,
	}
}

func TestLoginUser(t *testing.T) {
	admin := testUser(t, 1, "admin@erp.com", "admin123", true, domain.Role{
		Name: "ADMIN",
		Permissions: []domain.Permission{
			{Code: "users.read"},
			{Code: "users.write"},
		},
	})
	repo := newMockUserRepo(admin)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handler := NewLoginUserHandler(repo, tokens)

	resp, err := handler.Handle(LoginUserCommand{Email: "admin@erp.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" || resp.TokenType != "bearer" {
		t.Fatalf("bad token response: %+v", resp)
	}
	if len(resp.Permissions) != 2 {
		t.Fatalf("permissions = %v, want users.read and users.write", resp.Permissions)
	}

	userID, err := tokens.Validate(resp.Token)
	if err != nil || userID != 1 {
		t.Fatalf("token does not validate to user 1: %d, %v", userID, err)
	}
}

func TestLoginUserWrongCredentials(t *testing.T) {
	repo := newMockUserRepo(testUser(t, 1, "admin@erp.com", "admin123", true))
	handler := NewLoginUserHandler(repo, auth.NewTokenManager("test-secret", time.Hour))

	// Unknown email and wrong password must be indistinguishable
	for _, cmd := range []LoginUserCommand{
		{Email: "nobody@erp.com", Password: "admin123"},
		{Email: "admin@erp.com", Password: "wrong"},
	} {
		_, err := handler.Handle(cmd)
		if !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", cmd.Email, err)
		}
	}
}

func TestLoginUserInactive(t *testing.T) {
	repo := newMockUserRepo(testUser(t, 1, "former@erp.com", "secret123", false))
	handler := NewLoginUserHandler(repo, auth.NewTokenManager("test-secret", time.Hour))

	_, err := handler.Handle(LoginUserCommand{Email: "former@erp.com", Password: "secret123"})
	if !errors.Is(err, apperr.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}

	// Wrong password on an inactive account still reports bad credentials,
	// not the account state
	_, err = handler.Handle(LoginUserCommand{Email: "former@erp.com", Password: "wrong"})
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	repo := newMockUserRepo()
	handler := NewCreateUserHandler(repo)

	user, err := handler.Handle(CreateUserCommand{
		Email:    "new@erp.com",
		Password: "secret123",
		IsActive: true,
		Roles:    []string{"EMPLOYEE"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
	if len(user.Roles) != 1 || user.Roles[0].Name != "EMPLOYEE" {
		t.Fatalf("role not assigned: %+v", user.Roles)
	}

	if _, err := handler.Handle(CreateUserCommand{Email: "new@erp.com", Password: "secret123"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	handler := NewCreateUserHandler(newMockUserRepo())

	tests := []struct {
		name string
		cmd  CreateUserCommand
	}{
		{"missing email", CreateUserCommand{Password: "secret123"}},
		{"bad email", CreateUserCommand{Email: "not-an-email", Password: "secret123"}},
		{"short password", CreateUserCommand{Email: "a@b.com", Password: "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := handler.Handle(tt.cmd); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
