package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
)

// CreateUserCommand represents the command to create a new user
type CreateUserCommand struct {
	Email    string
	Password string
	IsActive bool
	Roles    []string
}

// CreateUserHandler handles user creation command
type CreateUserHandler struct {
	repo domain.UserRepository
}

// NewCreateUserHandler creates a new create user handler
func NewCreateUserHandler(repo domain.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{repo: repo}
}

// Handle executes the create user command
func (h *CreateUserHandler) Handle(cmd CreateUserCommand) (*domain.User, error) {
	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", apperr.ErrInvalidInput)
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", apperr.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        cmd.Email,
		PasswordHash: hash,
		IsActive:     cmd.IsActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.repo.Create(user); err != nil {
		return nil, err
	}

	for _, role := range cmd.Roles {
		if err := h.repo.AssignRole(user.ID, role); err != nil {
			return nil, fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}

	return user, nil
}
