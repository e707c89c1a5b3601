package domain

import (
	"time"
)

// User represents an authenticated principal capable of holding roles
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // Never expose password hash in JSON
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// Role is a named bundle of permissions assignable to users
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Role) TableName() string {
	return "roles"
}

// Permission is an atomic capability code gating one operation class.
// Permissions are seeded once and never mutated afterwards.
type Permission struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
}

// TableName specifies the table name
func (Permission) TableName() string {
	return "permissions"
}

// UserRepository defines the contract for user data access. Reads that feed
// authorization must preload roles and their permissions so permission
// resolution always sees the current grant graph.
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(limit, offset int) ([]User, error)
	Update(user *User) error
	SetActive(id uint, active bool) error
	AssignRole(userID uint, roleName string) error
	Count() (int64, error)
}

// RoleRepository defines the contract for role and permission data access
type RoleRepository interface {
	FindRoleByName(name string) (*Role, error)
	ListRoles() ([]Role, error)
	ListPermissions() ([]Permission, error)
}
