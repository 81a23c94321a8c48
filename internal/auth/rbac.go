package auth

import "fmt"

// Permission is a capability token of the form resource:action.
type Permission string

// Resources covered by the permission space.
const (
	ResourcePatients     = "patients"
	ResourceAppointments = "appointments"
	ResourceClinical     = "clinical"
	ResourceTreatments   = "treatments"
	ResourceBilling      = "billing"
	ResourceReports      = "reports"
	ResourceUsers        = "users"
)

// Actions recognised within a permission token.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// rolePermissions is process-wide constant data, never mutated at runtime.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		"patients:read",
		"patients:write",
		"patients:delete",
		"appointments:read",
		"appointments:write",
		"appointments:delete",
		"billing:read",
		"billing:write",
		"reports:read",
		"users:read",
		"users:write",
	},
	RoleFisioterapis: {
		"patients:read",
		"appointments:read",
		"appointments:write",
		"clinical:read",
		"clinical:write",
		"treatments:read",
		"treatments:write",
		"reports:read",
	},
}

// PermissionsFor returns the permissions granted to a role. Unknown roles
// yield an empty set (fail-closed).
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role Role, perm Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// CanAccess composes resource and action into a permission token and checks it.
func CanAccess(role Role, resource, action string) bool {
	return HasPermission(role, Permission(fmt.Sprintf("%s:%s", resource, action)))
}
