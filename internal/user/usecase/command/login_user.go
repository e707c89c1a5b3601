package command

import (
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/authz"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token       string       `json:"token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", apperr.ErrInvalidInput)
	}

	user, err := h.repo.FindByEmail(cmd.Email)
	if err != nil {
		// Do not reveal whether the email exists
		return nil, fmt.Errorf("incorrect email or password: %w", apperr.ErrUnauthenticated)
	}

	if !auth.CheckPassword(user.PasswordHash, cmd.Password) {
		return nil, fmt.Errorf("incorrect email or password: %w", apperr.ErrUnauthenticated)
	}

	if !user.IsActive {
		return nil, apperr.ErrInactiveUser
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:       token,
		TokenType:   "bearer",
		User:        user,
		Permissions: authz.Resolve(user.Roles).Codes(),
	}, nil
}
