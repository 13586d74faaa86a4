package auth

import "errors"

// Role represents an authorisation tier.
type Role string

const (
	// RoleViewer may read values, schema and log.
	RoleViewer Role = "viewer"

	// RoleOperator may additionally write Tag values.
	RoleOperator Role = "operator"

	// RoleAdmin may additionally run lifecycle commands.
	RoleAdmin Role = "admin"
)

// ValidRoles lists the roles a token may carry.
var ValidRoles = []Role{RoleViewer, RoleOperator, RoleAdmin}

// IsValidRole returns true if r is one of ValidRoles.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Sentinel errors for auth operations.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
	ErrForbidden    = errors.New("insufficient permissions")
)
