package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CatalogService implements song and category use cases. Row-level access
// rules are evaluated here: visibility on reads,
// ownership (or admin membership) on writes. Admin membership for privileged
// mutations is re-checked against the role store rather than trusted from
// token claims alone.
type CatalogService struct {
	songs      ports.SongRepository
	categories ports.CategoryRepository
	playlists  ports.PlaylistRepository
	users      ports.UserRepository
	logger     zerolog.Logger
}

func NewCatalogService(
	songs ports.SongRepository,
	categories ports.CategoryRepository,
	playlists ports.PlaylistRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		songs:      songs,
		categories: categories,
		playlists:  playlists,
		users:      users,
		logger:     logger,
	}
}

// --- Songs ---

// CreateSong registers a song uploaded by the caller. The uploader is always
// the caller itself; the insert predicate uploaded_by == caller cannot be
// bypassed because the field is never taken from the request.
func (s *CatalogService) CreateSong(ctx context.Context, caller ports.Caller, input ports.CreateSongInput) (*domain.Song, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}
	if input.CategoryID != "" {
		if _, err := s.categories.FindByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	song := &domain.Song{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Artist:          input.Artist,
		URL:             input.URL,
		DurationSeconds: input.DurationSeconds,
		CategoryID:      input.CategoryID,
		UploadedBy:      caller.UserID,
		Public:          input.Public,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.songs.Create(ctx, song); err != nil {
		s.logger.Error().Err(err).Msg("failed to create song")
		return nil, err
	}

	s.logger.Info().Str("song_id", song.ID).Str("uploaded_by", caller.UserID).Msg("song created")
	return song, nil
}

// GetSong returns the song when the select predicate admits the caller.
func (s *CatalogService) GetSong(ctx context.Context, caller ports.Caller, id string) (*domain.Song, error) {
	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !song.VisibleTo(caller.UserID, caller.IsAdmin()) {
		// Private songs are indistinguishable from absent ones to outsiders.
		return nil, domain.ErrSongNotFound
	}
	return song, nil
}

// ListSongs returns the page of songs visible to the caller.
func (s *CatalogService) ListSongs(ctx context.Context, caller ports.Caller, input ports.ListSongsInput) (*ports.ListSongsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := s.songs.List(ctx, ports.ListSongsFilter{
		ViewerID:      caller.UserID,
		ViewerIsAdmin: caller.IsAdmin(),
		CategoryID:    input.CategoryID,
		Search:        input.Search,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListSongsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateSong mutates a song. Owner or admin only.
func (s *CatalogService) UpdateSong(ctx context.Context, caller ports.Caller, id string, input ports.UpdateSongInput) (*domain.Song, error) {
	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireSongWrite(ctx, caller, song); err != nil {
		return nil, err
	}

	if input.Title != nil {
		song.Title = *input.Title
	}
	if input.Artist != nil {
		song.Artist = *input.Artist
	}
	if input.URL != nil {
		song.URL = *input.URL
	}
	if input.DurationSeconds != nil {
		song.DurationSeconds = *input.DurationSeconds
	}
	if input.CategoryID != nil {
		if *input.CategoryID != "" {
			if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
				return nil, err
			}
		}
		song.CategoryID = *input.CategoryID
	}
	if input.Public != nil {
		song.Public = *input.Public
	}
	song.UpdatedAt = time.Now().UTC()

	if err := s.songs.Update(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// DeleteSong removes a song and cascades to playlist entries referencing it.
func (s *CatalogService) DeleteSong(ctx context.Context, caller ports.Caller, id string) error {
	song, err := s.songs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireSongWrite(ctx, caller, song); err != nil {
		return err
	}

	if err := s.songs.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.playlists.RemoveSongEverywhere(ctx, id); err != nil {
		// The song itself is gone; orphaned entries are a data defect worth
		// surfacing loudly.
		s.logger.Error().Err(err).Str("song_id", id).Msg("failed to cascade song deletion to playlists")
		return err
	}

	s.logger.Info().Str("song_id", id).Str("deleted_by", caller.UserID).Msg("song deleted")
	return nil
}

// requireSongWrite enforces the update/delete predicate: owner or admin.
func (s *CatalogService) requireSongWrite(ctx context.Context, caller ports.Caller, song *domain.Song) error {
	if caller.UserID != "" && song.UploadedBy == caller.UserID {
		return nil
	}
	return s.requireAdmin(ctx, caller)
}

// --- Categories ---

func (s *CatalogService) CreateCategory(ctx context.Context, caller ports.Caller, input ports.CategoryInput) (*domain.Category, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, caller ports.Caller, id string, input ports.CategoryInput) (*domain.Category, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Description = input.Description
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category. Songs referencing it keep existing
// with their category reference cleared.
func (s *CatalogService) DeleteCategory(ctx context.Context, caller ports.Caller, id string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.songs.ClearCategory(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to clear category references")
		return err
	}

	s.logger.Info().Str("category_id", id).Msg("category deleted")
	return nil
}

// requireAdmin is the has_role(user, 'admin') check: membership comes from
// the role store, not from the token claims.
func (s *CatalogService) requireAdmin(ctx context.Context, caller ports.Caller) error {
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

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
