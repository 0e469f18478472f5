package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// PlaylistInput carries the writable playlist fields.
type PlaylistInput struct {
	Name        string
	Description string
	Public      bool
}

// ListPlaylistsInput carries the list endpoint parameters.
type ListPlaylistsInput struct {
	Mine  bool // restrict to the caller's own playlists
	Page  int
	Limit int
}

// ListPlaylistsResult is returned by ListPlaylists.
type ListPlaylistsResult struct {
	Items      []*domain.Playlist
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PlaylistService defines use-case operations for playlists and their
// entries. All mutations require ownership of the parent playlist.
type PlaylistService interface {
	Create(ctx context.Context, caller Caller, input PlaylistInput) (*domain.Playlist, error)
	Get(ctx context.Context, caller Caller, id string) (*domain.Playlist, error)
	List(ctx context.Context, caller Caller, input ListPlaylistsInput) (*ListPlaylistsResult, error)
	Update(ctx context.Context, caller Caller, id string, input PlaylistInput) (*domain.Playlist, error)
	Delete(ctx context.Context, caller Caller, id string) error

	// AddSong appends the song at the end of the playlist. Duplicate
	// (playlist, song) pairs are rejected; rapid repeated submissions are
	// additionally absorbed by the dedup store.
	AddSong(ctx context.Context, caller Caller, playlistID, songID string) (*domain.Playlist, error)
	// RemoveSong removes the song and compacts the remaining positions.
	RemoveSong(ctx context.Context, caller Caller, playlistID, songID string) (*domain.Playlist, error)
	// MoveSong places the song at the given 0-based position, shifting the
	// songs in between.
	MoveSong(ctx context.Context, caller Caller, playlistID, songID string, position int) (*domain.Playlist, error)
}
