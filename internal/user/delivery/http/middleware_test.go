package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
)

type stubUserRepo struct {
	users map[uint]*domain.User
}

func (s *stubUserRepo) Create(user *domain.User) error { return nil }

func (s *stubUserRepo) FindByID(id uint) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return user, nil
}

func (s *stubUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *stubUserRepo) FindAll(limit, offset int) ([]domain.User, error) { return nil, nil }
func (s *stubUserRepo) Update(user *domain.User) error                   { return nil }

func (s *stubUserRepo) SetActive(id uint, active bool) error {
	user, ok := s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	user.IsActive = active
	return nil
}

func (s *stubUserRepo) AssignRole(userID uint, roleName string) error { return nil }
func (s *stubUserRepo) Count() (int64, error)                        { return int64(len(s.users)), nil }

func managerUser() *domain.User {
	return &domain.User{
		ID:       1,
		Email:    "manager@erp.com",
		IsActive: true,
		Roles: []domain.Role{{
			Name:        "MANAGER",
			Permissions: []domain.Permission{{Code: "inv.products.read"}},
		}},
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func doRequest(t *testing.T, handler http.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*domain.User{1: managerUser()}}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(repo, tokens)

	token, err := tokens.Generate(1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if rec := doRequest(t, mw.Authenticate(okHandler), token); rec.Code != http.StatusOK {
		t.Fatalf("valid token: status %d, want 200", rec.Code)
	}
	if rec := doRequest(t, mw.Authenticate(okHandler), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status %d, want 401", rec.Code)
	}
	if rec := doRequest(t, mw.Authenticate(okHandler), "not-a-token"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", rec.Code)
	}

	expired := auth.NewTokenManager("test-secret", -time.Hour)
	expiredToken, _ := expired.Generate(1)
	if rec := doRequest(t, mw.Authenticate(okHandler), expiredToken); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status %d, want 401", rec.Code)
	}
}

// A deactivation must take effect on the very next request, even though the
// token itself is still valid, and must read as the account state, not as a
// permission problem.
func TestAuthenticateDeactivatedMidSession(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*domain.User{1: managerUser()}}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(repo, tokens)

	token, _ := tokens.Generate(1)
	if rec := doRequest(t, mw.Authenticate(okHandler), token); rec.Code != http.StatusOK {
		t.Fatalf("before deactivation: status %d, want 200", rec.Code)
	}

	repo.users[1].IsActive = false

	rec := doRequest(t, mw.Authenticate(okHandler), token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("after deactivation: status %d, want 403", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body.Code != "inactive_user" {
		t.Fatalf("error code = %q, want inactive_user", body.Code)
	}
}

func TestRequirePermissions(t *testing.T) {
	repo := &stubUserRepo{users: map[uint]*domain.User{1: managerUser()}}
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(repo, tokens)

	token, _ := tokens.Generate(1)

	granted := mw.RequirePermissions("inv.products.read")(okHandler)
	if rec := doRequest(t, granted, token); rec.Code != http.StatusOK {
		t.Fatalf("granted permission: status %d, want 200", rec.Code)
	}

	denied := mw.RequirePermissions("inv.stock.transact")(okHandler)
	rec := doRequest(t, denied, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing permission: status %d, want 403", rec.Code)
	}
	var body struct {
		Code              string `json:"code"`
		MissingPermission string `json:"missing_permission"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if body.Code != "forbidden" || body.MissingPermission != "inv.stock.transact" {
		t.Fatalf("error body = %+v, want forbidden / inv.stock.transact", body)
	}
}
