package ports

import (
	"context"

	"github.com/tunewave/music-api/internal/core/domain"
)

// CategoryRepository persists song categories. Names are unique.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ListSongsFilter carries all query parameters for listing songs. The
// visibility fields are always set by the service layer: when ViewerIsAdmin
// is false the repository restricts results to public songs or songs
// uploaded by ViewerID, mirroring the row-level select predicate.
type ListSongsFilter struct {
	ViewerID      string
	ViewerIsAdmin bool
	CategoryID    string // optional: filter by category
	Search        string // optional: partial match on title or artist
	Page          int    // 1-based
	Limit         int    // max rows per page (capped at 100 by the service)
}

// SongRepository persists songs and performs the cascade-adjacent updates.
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	FindByID(ctx context.Context, id string) (*domain.Song, error)
	// List returns a page of songs matching filter and the total count.
	List(ctx context.Context, filter ListSongsFilter) ([]*domain.Song, int64, error)
	Update(ctx context.Context, song *domain.Song) error
	Delete(ctx context.Context, id string) error
	// ClearCategory removes the category reference from every song pointing
	// at it. Songs themselves survive category deletion.
	ClearCategory(ctx context.Context, categoryID string) error
	// DeleteByUploader removes all songs uploaded by the user and returns
	// the IDs of the removed songs so playlist entries can be cascaded.
	DeleteByUploader(ctx context.Context, userID string) ([]string, error)
}
