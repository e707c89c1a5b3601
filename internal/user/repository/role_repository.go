package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/user/domain"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GORM role repository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindRoleByName retrieves a role with its permissions preloaded
func (r *GormRoleRepository) FindRoleByName(name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}
	return &role, nil
}

// ListRoles retrieves all roles with their permissions
func (r *GormRoleRepository) ListRoles() ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.Preload("Permissions").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// ListPermissions retrieves the seeded permission catalog
func (r *GormRoleRepository) ListPermissions() ([]domain.Permission, error) {
	var permissions []domain.Permission
	if err := r.db.Order("code ASC").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}
