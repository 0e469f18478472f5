package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// KnownRole reports whether the given role name is one the system recognises.
func KnownRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models a registered account. Roles is a unique set; every account
// carries at least RoleUser, granted at registration.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile holds the public-facing details of a user. Exactly one profile
// exists per user; it is created as a side effect of registration.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
