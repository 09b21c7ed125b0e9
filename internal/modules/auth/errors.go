package auth

import "realtyflow/internal/domain"

var (
	ErrInvalidCredentials = domain.Unauthorized("INVALID_CREDENTIALS", "Username or password is incorrect")
	ErrRoleMismatch       = domain.Unauthorized("ROLE_MISMATCH", "User does not have the selected role")
	ErrUserInactive       = domain.Forbidden("USER_INACTIVE", "User account is disabled")
	ErrUserExists         = domain.Conflict("USER_EXISTS", "Username or email is already registered")
	ErrRoleNotAllowed     = domain.Validation("ROLE_NOT_ALLOWED", "Only sales_admin and sales_executive accounts can be registered")
	ErrUserNotFound       = domain.NotFound("USER_NOT_FOUND", "User not found")
)
