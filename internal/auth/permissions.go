package auth

import "github.com/nerrad567/gray-logic-node/internal/tag"

// Permission represents a named capability.
type Permission string

// Permission constants.
const (
	PermValuesRead  Permission = "values:read"
	PermValuesWrite Permission = "values:write"
	PermSchemaRead  Permission = "schema:read"
	PermLogRead     Permission = "log:read"
	PermHandlerRun  Permission = "handler:run"
)

// rolePermissions is the single source of truth for the role model.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermValuesRead,
		PermSchemaRead,
		PermLogRead,
	},
	RoleOperator: {
		PermValuesRead,
		PermValuesWrite,
		PermSchemaRead,
		PermLogRead,
	},
	RoleAdmin: {
		PermValuesRead,
		PermValuesWrite,
		PermSchemaRead,
		PermLogRead,
		PermHandlerRun,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	perms := rolePermissions[role]
	if perms == nil {
		return nil
	}
	result := make([]Permission, len(perms))
	copy(result, perms)
	return result
}

// ReadMask returns the Tag requester mask for reads by role, 0 when
// the role may not read values.
func ReadMask(role Role) tag.Access {
	if HasPermission(role, PermValuesRead) {
		return tag.Read
	}
	return 0
}

// WriteMask returns the Tag requester mask for writes by role, 0 when
// the role may not write values.
func WriteMask(role Role) tag.Access {
	if HasPermission(role, PermValuesWrite) {
		return tag.Write
	}
	return 0
}
