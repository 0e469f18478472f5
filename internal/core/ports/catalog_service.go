package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// CreateSongInput carries all data needed to register a song. UploadedBy is
// always the caller; the service rejects any attempt to upload on behalf of
// another user.
type CreateSongInput struct {
	Title           string
	Artist          string
	URL             string
	DurationSeconds float64
	CategoryID      string
	Public          bool
}

// UpdateSongInput carries the mutable song fields. Nil pointers leave the
// field unchanged.
type UpdateSongInput struct {
	Title           *string
	Artist          *string
	URL             *string
	DurationSeconds *float64
	CategoryID      *string
	Public          *bool
}

// ListSongsInput carries the list endpoint parameters.
type ListSongsInput struct {
	CategoryID string
	Search     string
	Page       int
	Limit      int
}

// ListSongsResult is returned by ListSongs.
type ListSongsResult struct {
	Items      []*domain.Song
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
}

// CatalogService defines use-case operations for songs and categories. Every
// operation evaluates the row predicates against the caller.
type CatalogService interface {
	CreateSong(ctx context.Context, caller Caller, input CreateSongInput) (*domain.Song, error)
	GetSong(ctx context.Context, caller Caller, id string) (*domain.Song, error)
	ListSongs(ctx context.Context, caller Caller, input ListSongsInput) (*ListSongsResult, error)
	UpdateSong(ctx context.Context, caller Caller, id string, input UpdateSongInput) (*domain.Song, error)
	DeleteSong(ctx context.Context, caller Caller, id string) error

	CreateCategory(ctx context.Context, caller Caller, input CategoryInput) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, caller Caller, id string, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, caller Caller, id string) error
}
