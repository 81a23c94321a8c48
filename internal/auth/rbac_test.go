package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsForMatchesHasPermission(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleFisioterapis} {
		for _, perm := range PermissionsFor(role) {
			assert.True(t, HasPermission(role, perm), "role %s perm %s", role, perm)
		}
	}
}

func TestRoleGrants(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, "billing:write"))
	assert.False(t, HasPermission(RoleFisioterapis, "billing:write"))
	assert.True(t, HasPermission(RoleFisioterapis, "clinical:write"))
	assert.False(t, HasPermission(RoleAdmin, "clinical:write"))
	assert.True(t, HasPermission(RoleAdmin, "users:write"))
	assert.False(t, HasPermission(RoleFisioterapis, "users:write"))
	assert.True(t, HasPermission(RoleAdmin, "patients:delete"))
	assert.False(t, HasPermission(RoleFisioterapis, "patients:delete"))
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	assert.Empty(t, PermissionsFor(Role("resepsionis")))
	assert.False(t, HasPermission(Role("resepsionis"), "patients:read"))
	assert.False(t, CanAccess(Role(""), "patients", "read"))
}

func TestCanAccessComposesToken(t *testing.T) {
	assert.True(t, CanAccess(RoleFisioterapis, "treatments", "write"))
	assert.False(t, CanAccess(RoleFisioterapis, "users", "write"))
	assert.True(t, CanAccess(RoleAdmin, "appointments", "delete"))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleAdmin)
	perms[0] = "tampered:write"
	assert.False(t, HasPermission(RoleAdmin, "tampered:write"))
}

func TestRoleValidation(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleFisioterapis.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
