package command

import (
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/user/domain"
)

// AssignRoleCommand represents the command to grant a role to a user
type AssignRoleCommand struct {
	UserID   uint
	RoleName string
}

// AssignRoleHandler handles role assignment command
type AssignRoleHandler struct {
	repo domain.UserRepository
}

// NewAssignRoleHandler creates a new assign role handler
func NewAssignRoleHandler(repo domain.UserRepository) *AssignRoleHandler {
	return &AssignRoleHandler{repo: repo}
}

// Handle executes the assign role command
func (h *AssignRoleHandler) Handle(cmd AssignRoleCommand) (*domain.User, error) {
	if cmd.UserID == 0 || cmd.RoleName == "" {
		return nil, fmt.Errorf("user id and role name are required: %w", apperr.ErrInvalidInput)
	}

	if err := h.repo.AssignRole(cmd.UserID, cmd.RoleName); err != nil {
		return nil, err
	}

	// Reload so the response reflects the new grant graph
	user, err := h.repo.FindByID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}
