package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// AddSongDeduper absorbs rapid repeated add-song submissions (Redis-backed).
// Duplicates within the dedup window are treated as replays of the same
// intent and rejected as ErrDuplicateEntry.
type AddSongDeduper interface {
	IsDuplicate(ctx context.Context, playlistID, songID, callerID string) (bool, error)
	Mark(ctx context.Context, playlistID, songID, callerID string) error
}

// PlaylistService implements playlist CRUD and entry management. Ownership is
// the write predicate throughout; reads admit public playlists.
type PlaylistService struct {
	playlists ports.PlaylistRepository
	songs     ports.SongRepository
	dedup     AddSongDeduper
	logger    zerolog.Logger
}

func NewPlaylistService(
	playlists ports.PlaylistRepository,
	songs ports.SongRepository,
	dedup AddSongDeduper,
	logger zerolog.Logger,
) *PlaylistService {
	return &PlaylistService{playlists: playlists, songs: songs, dedup: dedup, logger: logger}
}

func (s *PlaylistService) Create(ctx context.Context, caller ports.Caller, input ports.PlaylistInput) (*domain.Playlist, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	playlist := &domain.Playlist{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     caller.UserID,
		Public:      input.Public,
		Entries:     []domain.PlaylistEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		s.logger.Error().Err(err).Msg("failed to create playlist")
		return nil, err
	}

	s.logger.Info().Str("playlist_id", playlist.ID).Str("owner_id", caller.UserID).Msg("playlist created")
	return playlist, nil
}

func (s *PlaylistService) Get(ctx context.Context, caller ports.Caller, id string) (*domain.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !playlist.VisibleTo(caller.UserID) {
		return nil, domain.ErrPlaylistNotFound
	}
	return playlist, nil
}

func (s *PlaylistService) List(ctx context.Context, caller ports.Caller, input ports.ListPlaylistsInput) (*ports.ListPlaylistsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := s.playlists.List(ctx, ports.ListPlaylistsFilter{
		ViewerID:  caller.UserID,
		OwnerOnly: input.Mine,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListPlaylistsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *PlaylistService) Update(ctx context.Context, caller ports.Caller, id string, input ports.PlaylistInput) (*domain.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	playlist.Name = input.Name
	playlist.Description = input.Description
	playlist.Public = input.Public
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	if _, err := s.ownedPlaylist(ctx, caller, id); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("playlist_id", id).Str("deleted_by", caller.UserID).Msg("playlist deleted")
	return nil
}

// AddSong appends the song at the end of the owner's playlist. The song must
// itself be visible to the caller; (playlist, song) uniqueness is enforced,
// and the dedup store short-circuits rapid duplicate submissions before any
// read.
func (s *PlaylistService) AddSong(ctx context.Context, caller ports.Caller, playlistID, songID string) (*domain.Playlist, error) {
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, playlistID, songID, caller.UserID)
		if err != nil {
			s.logger.Warn().Err(err).Str("playlist_id", playlistID).Msg("dedup check failed, processing anyway")
		} else if dup {
			s.logger.Debug().Str("playlist_id", playlistID).Str("song_id", songID).Msg("duplicate add-song suppressed")
			return nil, domain.ErrDuplicateEntry
		}
	}

	playlist, err := s.ownedPlaylist(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}

	song, err := s.songs.FindByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !song.VisibleTo(caller.UserID, caller.IsAdmin()) {
		return nil, domain.ErrSongNotFound
	}

	if playlist.ContainsSong(songID) {
		return nil, domain.ErrDuplicateEntry
	}

	playlist.Entries = append(playlist.Entries, domain.PlaylistEntry{
		SongID:   songID,
		Position: len(playlist.Entries),
		AddedAt:  time.Now().UTC(),
	})
	if err := s.playlists.ReplaceEntries(ctx, playlistID, playlist.Entries); err != nil {
		return nil, err
	}

	// Mark only after the entry is committed; a failed write must stay
	// retryable within the dedup window.
	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, playlistID, songID, caller.UserID); err != nil {
			s.logger.Warn().Err(err).Str("playlist_id", playlistID).Msg("failed to set dedup key")
		}
	}

	s.logger.Info().Str("playlist_id", playlistID).Str("song_id", songID).Msg("song added to playlist")
	return playlist, nil
}

// RemoveSong removes the entry and compacts the remaining positions so they
// stay 0-based and contiguous.
func (s *PlaylistService) RemoveSong(ctx context.Context, caller ports.Caller, playlistID, songID string) (*domain.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.PlaylistEntry, 0, len(playlist.Entries))
	found := false
	for _, e := range playlist.Entries {
		if e.SongID == songID {
			found = true
			continue
		}
		e.Position = len(kept)
		kept = append(kept, e)
	}
	if !found {
		return nil, domain.ErrEntryNotFound
	}

	playlist.Entries = kept
	if err := s.playlists.ReplaceEntries(ctx, playlistID, kept); err != nil {
		return nil, err
	}
	return playlist, nil
}

// MoveSong places the entry at the requested 0-based position. Out-of-range
// targets clamp to the queue ends.
func (s *PlaylistService) MoveSong(ctx context.Context, caller ports.Caller, playlistID, songID string, position int) (*domain.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, caller, playlistID)
	if err != nil {
		return nil, err
	}

	from := -1
	for i, e := range playlist.Entries {
		if e.SongID == songID {
			from = i
			break
		}
	}
	if from == -1 {
		return nil, domain.ErrEntryNotFound
	}

	if position < 0 {
		position = 0
	}
	if position >= len(playlist.Entries) {
		position = len(playlist.Entries) - 1
	}

	entry := playlist.Entries[from]
	entries := append(playlist.Entries[:from:from], playlist.Entries[from+1:]...)
	entries = append(entries[:position], append([]domain.PlaylistEntry{entry}, entries[position:]...)...)
	for i := range entries {
		entries[i].Position = i
	}

	playlist.Entries = entries
	if err := s.playlists.ReplaceEntries(ctx, playlistID, entries); err != nil {
		return nil, err
	}
	return playlist, nil
}

// ownedPlaylist fetches the playlist and enforces the ownership predicate.
// Non-owners cannot distinguish private playlists from missing ones.
func (s *PlaylistService) ownedPlaylist(ctx context.Context, caller ports.Caller, id string) (*domain.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.UserID == "" || playlist.OwnerID != caller.UserID {
		if playlist.VisibleTo(caller.UserID) {
			return nil, domain.ErrForbidden
		}
		return nil, domain.ErrPlaylistNotFound
	}
	return playlist, nil
}
