package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// UserService covers profile self-service and the admin user panel,
// including the delete-user cascade.
type UserService struct {
	users     ports.UserRepository
	profiles  ports.ProfileRepository
	songs     ports.SongRepository
	playlists ports.PlaylistRepository
	logger    zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	profiles ports.ProfileRepository,
	songs ports.SongRepository,
	playlists ports.PlaylistRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		profiles:  profiles,
		songs:     songs,
		playlists: playlists,
		logger:    logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, caller ports.Caller) (*domain.Profile, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}
	return s.profiles.FindByUserID(ctx, caller.UserID)
}

// UpdateProfile mutates the caller's own profile. The owner-only update
// predicate is structural: the target is always the caller.
func (s *UserService) UpdateProfile(ctx context.Context, caller ports.Caller, input ports.ProfileInput) (*domain.Profile, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	profile, err := s.profiles.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	profile.DisplayName = input.DisplayName
	profile.AvatarURL = input.AvatarURL
	profile.UpdatedAt = time.Now().UTC()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) ListUsers(ctx context.Context, caller ports.Caller, page, limit int) (*ports.ListUsersResult, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	items, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// SetRoles replaces the target user's role set. Unknown role names are
// rejected; the base user role is always retained.
func (s *UserService) SetRoles(ctx context.Context, caller ports.Caller, userID string, roles []string) (*domain.User, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	seen := map[string]bool{domain.RoleUser: true}
	normalized := []string{domain.RoleUser}
	for _, r := range roles {
		if !domain.KnownRole(r) {
			return nil, domain.ErrUnknownRole
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		normalized = append(normalized, r)
	}

	if err := s.users.SetRoles(ctx, userID, normalized); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Strs("roles", normalized).Str("granted_by", caller.UserID).Msg("roles updated")
	return s.users.FindByID(ctx, userID)
}

// DeleteUser removes the account and cascades: profile, owned playlists,
// uploaded songs, and every playlist entry pointing at those songs.
func (s *UserService) DeleteUser(ctx context.Context, caller ports.Caller, userID string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	deletedSongs, err := s.songs.DeleteByUploader(ctx, userID)
	if err != nil {
		return err
	}
	for _, songID := range deletedSongs {
		if err := s.playlists.RemoveSongEverywhere(ctx, songID); err != nil {
			s.logger.Error().Err(err).Str("song_id", songID).Msg("failed to cascade song removal")
			return err
		}
	}

	if err := s.playlists.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil && err != domain.ErrProfileNotFound {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID).Str("deleted_by", caller.UserID).Int("songs_removed", len(deletedSongs)).Msg("user deleted")
	return nil
}

func (s *UserService) requireAdmin(ctx context.Context, caller ports.Caller) error {
	if caller.UserID == "" {
		return domain.ErrForbidden
	}
	ok, err := s.users.HasRole(ctx, caller.UserID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
