// Package seed provisions the permission catalog, the built-in roles and
// the bootstrap accounts. Seeding is idempotent: existing rows are matched
// by their natural keys and updated in place, so running it on every
// startup is safe.
package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	hrdomain "github.com/tair/erp-backend/internal/hr/domain"
	userdomain "github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
	"github.com/tair/erp-backend/pkg/logger"
)

var permissionCatalog = []userdomain.Permission{
	{Code: "users.read", Description: "Read users"},
	{Code: "users.write", Description: "Create/Update users"},
	{Code: "roles.read", Description: "Read roles"},
	{Code: "roles.write", Description: "Update roles"},
	{Code: "audit.read", Description: "Read audit logs"},
	{Code: "hr.employees.read", Description: "Read employees"},
	{Code: "hr.employees.write", Description: "Manage employees"},
	{Code: "hr.departments.read", Description: "Read departments"},
	{Code: "hr.departments.write", Description: "Manage departments"},
	// hr.leave.read is reserved: leave listing is gated by authentication
	// plus caller scoping, not by this code.
	{Code: "hr.leave.read", Description: "Read leave requests"},
	{Code: "hr.leave.submit", Description: "Submit leave requests"},
	{Code: "hr.leave.approve", Description: "Approve/Reject leave requests"},
	{Code: "inv.products.read", Description: "Read products"},
	{Code: "inv.products.write", Description: "Manage products"},
	{Code: "inv.stock.transact", Description: "Perform stock transactions"},
	{Code: "crm.customers.read", Description: "Read customers"},
	{Code: "crm.customers.write", Description: "Manage customers"},
	{Code: "crm.leads.read", Description: "Read leads"},
	{Code: "crm.leads.write", Description: "Manage leads"},
	{Code: "crm.opportunities.read", Description: "Read opportunities"},
	{Code: "crm.opportunities.write", Description: "Manage opportunities"},
	{Code: "dashboard.read", Description: "Read dashboard"},
}

var roleGrants = map[string][]string{
	"ADMIN": allPermissionCodes(),
	"MANAGER": {
		"dashboard.read", "hr.employees.read", "hr.leave.read", "hr.leave.approve",
		"inv.products.read", "inv.stock.transact", "crm.customers.read",
		"crm.leads.read", "crm.opportunities.read",
	},
	"EMPLOYEE": {
		"dashboard.read", "hr.leave.read", "hr.leave.submit", "inv.products.read",
	},
}

var bootstrapUsers = []struct {
	Email    string
	Password string
	Role     string
}{
	{"admin@erp.com", "admin123", "ADMIN"},
	{"manager@erp.com", "manager123", "MANAGER"},
	{"employee@erp.com", "employee123", "EMPLOYEE"},
}

var departments = []string{"IT", "HR", "Sales", "Operations"}

func allPermissionCodes() []string {
	codes := make([]string, 0, len(permissionCatalog))
	for _, p := range permissionCatalog {
		codes = append(codes, p.Code)
	}
	return codes
}

// Run seeds the database inside one transaction
func Run(ctx context.Context, db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		perms, err := seedPermissions(tx)
		if err != nil {
			return err
		}
		roles, err := seedRoles(tx, perms)
		if err != nil {
			return err
		}
		if err := seedUsers(tx, roles); err != nil {
			return err
		}
		return seedDepartments(tx)
	})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Info(ctx).
		Int("permissions", len(permissionCatalog)).
		Int("roles", len(roleGrants)).
		Int("users", len(bootstrapUsers)).
		Msg("Database seeded")
	return nil
}

func seedPermissions(tx *gorm.DB) (map[string]userdomain.Permission, error) {
	out := make(map[string]userdomain.Permission, len(permissionCatalog))
	for _, p := range permissionCatalog {
		var perm userdomain.Permission
		err := tx.Where(userdomain.Permission{Code: p.Code}).
			Assign(userdomain.Permission{Description: p.Description}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return nil, fmt.Errorf("permission %s: %w", p.Code, err)
		}
		out[perm.Code] = perm
	}
	return out, nil
}

func seedRoles(tx *gorm.DB, perms map[string]userdomain.Permission) (map[string]userdomain.Role, error) {
	out := make(map[string]userdomain.Role, len(roleGrants))
	for name, codes := range roleGrants {
		var role userdomain.Role
		if err := tx.Where(userdomain.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return nil, fmt.Errorf("role %s: %w", name, err)
		}

		granted := make([]userdomain.Permission, 0, len(codes))
		for _, code := range codes {
			perm, ok := perms[code]
			if !ok {
				return nil, fmt.Errorf("role %s grants unknown permission %s", name, code)
			}
			granted = append(granted, perm)
		}
		// Replace so removed grants disappear on re-seed
		if err := tx.Model(&role).Association("Permissions").Replace(granted); err != nil {
			return nil, fmt.Errorf("role %s permissions: %w", name, err)
		}
		out[name] = role
	}
	return out, nil
}

func seedUsers(tx *gorm.DB, roles map[string]userdomain.Role) error {
	for _, u := range bootstrapUsers {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}

		var user userdomain.User
		err = tx.Where(userdomain.User{Email: u.Email}).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = userdomain.User{Email: u.Email, PasswordHash: hash, IsActive: true}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
			role := roles[u.Role]
			if err := tx.Model(&user).Association("Roles").Append(&role); err != nil {
				return fmt.Errorf("user %s role: %w", u.Email, err)
			}
		case err != nil:
			return fmt.Errorf("user %s: %w", u.Email, err)
		default:
			if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
				return fmt.Errorf("user %s: %w", u.Email, err)
			}
		}
	}
	return nil
}

func seedDepartments(tx *gorm.DB) error {
	for _, name := range departments {
		var dept hrdomain.Department
		if err := tx.Where(hrdomain.Department{Name: name}).FirstOrCreate(&dept).Error; err != nil {
			return fmt.Errorf("department %s: %w", name, err)
		}
	}
	return nil
}
