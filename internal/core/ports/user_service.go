package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// ProfileInput carries the owner-writable profile fields.
type ProfileInput struct {
	DisplayName string
	AvatarURL   string
}

// ListUsersResult is returned by the admin user listing.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers profile self-service and the admin user panel.
type UserService interface {
	GetProfile(ctx context.Context, caller Caller) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, caller Caller, input ProfileInput) (*domain.Profile, error)

	ListUsers(ctx context.Context, caller Caller, page, limit int) (*ListUsersResult, error)
	// SetRoles replaces the target user's role set. Admin only; the user
	// role is always retained so accounts never end up roleless.
	SetRoles(ctx context.Context, caller Caller, userID string, roles []string) (*domain.User, error)
	// DeleteUser removes the account and cascades to its profile, playlists
	// and uploaded songs, pulling those songs from every playlist.
	DeleteUser(ctx context.Context, caller Caller, userID string) error
}
