package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RolePersonal Role = "personal"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePersonal
}

// User is an account record. Admins sign in to the console, personal users
// are bound to a single device after approval.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            *string    `json:"name,omitempty"`
	Role            Role       `json:"role"`
	DeviceID        *string    `json:"device_id,omitempty"`
	PasswordHash    *string    `json:"-"`
	OAuthProvider   *string    `json:"oauth_provider,omitempty"`
	OAuthProviderID *string    `json:"-"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
