package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// AuthService implements registration and login. Registration creates the
// account together with its profile and the default user role.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
