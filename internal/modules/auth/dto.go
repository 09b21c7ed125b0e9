package auth

import "realtyflow/internal/domain"

type LoginRequest struct {
	Username string          `json:"username" validate:"required"`
	Password string          `json:"password" validate:"required"`
	Role     domain.UserRole `json:"role" validate:"omitempty,oneof=master developer_hq sales_admin sales_executive"`
}

type RegisterRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=100"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=6"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.UserRole `json:"role" validate:"required"`
	Phone     string          `json:"phone"`
}

type LoginResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// MasterAccount is the bootstrap user created when none exists.
type MasterAccount struct {
	Username string
	Password string
	Email    string
}
