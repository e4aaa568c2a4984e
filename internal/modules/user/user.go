package user

import "time"

// Role classifies an account's privileges.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVIP      Role = "vip"
	RoleAdmin    Role = "admin"
	RoleUser     Role = "user"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCustomer, RoleVIP, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// Account represents a registered user. The username is the identity and
// never changes after registration. An empty PasswordHash means the account
// has no usable password: every verification fails.
type Account struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest holds the data for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"` // defaults to customer
	Password string `json:"password"`
}

// ChangePasswordRequest holds the data for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ResetPasswordRequest holds a reset token and the replacement password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
