package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// UserRepository persists accounts and their role memberships. Roles live on
// the user document as a unique set.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	// SetRoles replaces the user's role set and refreshes updated_at.
	SetRoles(ctx context.Context, userID string, roles []string) error
	// HasRole is the boolean membership check used to gate admin operations.
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Delete(ctx context.Context, userID string) error
}

// ProfileRepository persists the one-per-user profile rows.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
