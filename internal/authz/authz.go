// Package authz holds the pure authorization decision logic. It never
// touches persistence: callers load the user's role graph and hand it in.
package authz

import (
	"fmt"

	"github.com/tair/erp-backend/internal/user/domain"
)

// PermissionSet is a resolved set of permission codes
type PermissionSet map[string]struct{}

// Has reports whether the set contains the given code
func (s PermissionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the set as a sorted-insensitive slice for transport
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	return codes
}

// ForbiddenError reports a denied authorization decision. Missing names the
// first required code the user lacks; permission codes are not secret.
type ForbiddenError struct {
	Missing string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("missing permission: %s", e.Missing)
}

// Resolve computes the permission set granted to a user through its roles:
// the union of every assigned role's permission codes. A user with no roles
// resolves to the empty set.
func Resolve(roles []domain.Role) PermissionSet {
	set := make(PermissionSet)
	for _, role := range roles {
		for _, perm := range role.Permissions {
			set[perm.Code] = struct{}{}
		}
	}
	return set
}

// Authorize checks required permission codes in the order given and returns
// a ForbiddenError naming the first missing one. Any missing code denies;
// the ordering only affects which code is reported. Returns nil on allow.
func Authorize(granted PermissionSet, required ...string) error {
	for _, code := range required {
		if !granted.Has(code) {
			return &ForbiddenError{Missing: code}
		}
	}
	return nil
}
