package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// ListPlaylistsFilter carries query parameters for listing playlists. The
// repository returns playlists that are public or owned by ViewerID; when
// OwnerOnly is set only the viewer's own playlists are returned.
type ListPlaylistsFilter struct {
	ViewerID  string
	OwnerOnly bool
	Page      int
	Limit     int
}

// PlaylistRepository persists playlists with their embedded entries.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	FindByID(ctx context.Context, id string) (*domain.Playlist, error)
	List(ctx context.Context, filter ListPlaylistsFilter) ([]*domain.Playlist, int64, error)
	// Update persists name/description/visibility changes.
	Update(ctx context.Context, playlist *domain.Playlist) error
	Delete(ctx context.Context, id string) error

	// ReplaceEntries overwrites the playlist's entry list in one write. Used
	// for add, remove and reorder after the service has validated the change.
	ReplaceEntries(ctx context.Context, playlistID string, entries []domain.PlaylistEntry) error
	// RemoveSongEverywhere pulls the song from every playlist's entries.
	// Cascade counterpart of song deletion.
	RemoveSongEverywhere(ctx context.Context, songID string) error
	// DeleteByOwner removes all playlists owned by the user.
	DeleteByOwner(ctx context.Context, userID string) error
}
