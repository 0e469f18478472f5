package ports

import "github.com/tunewave/music-api/internal/core/domain"

// Caller carries the authenticated identity threaded through every service
// operation. It is populated from JWT claims by the transport layer; services
// evaluate row predicates against it and re-check admin membership against
// the role store for privileged mutations.
type Caller struct {
	UserID   string
	Username string
	Roles    []string
}

// IsAdmin reports whether the caller's token claims include the admin role.
func (c Caller) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == domain.RoleAdmin {
			return true
		}
	}
	return false
}
