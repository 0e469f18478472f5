package handler

import (
	"time"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

type playlistRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
	Public      bool   `json:"public"`
}

type addSongRequest struct {
	SongID string `json:"song_id" validate:"required"`
}

type moveSongRequest struct {
	Position int `json:"position"`
}

type playlistEntryResponse struct {
	SongID   string    `json:"song_id"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

type playlistResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	OwnerID     string                  `json:"owner_id"`
	Public      bool                    `json:"public"`
	Entries     []playlistEntryResponse `json:"entries"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// playlistSummaryResponse is the lightweight item used in list responses.
// It intentionally omits the entries to keep payloads small.
type playlistSummaryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Public      bool      `json:"public"`
	SongCount   int       `json:"song_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listPlaylistsResponse struct {
	Data       []playlistSummaryResponse `json:"data"`
	Pagination paginationResponse        `json:"pagination"`
}

func toPlaylistResponse(p *domain.Playlist) playlistResponse {
	entries := make([]playlistEntryResponse, 0, len(p.Entries))
	for _, e := range p.Entries {
		entries = append(entries, playlistEntryResponse{
			SongID:   e.SongID,
			Position: e.Position,
			AddedAt:  e.AddedAt,
		})
	}
	return playlistResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Public:      p.Public,
		Entries:     entries,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListPlaylistsResponse(result *ports.ListPlaylistsResult) listPlaylistsResponse {
	items := make([]playlistSummaryResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, playlistSummaryResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     p.OwnerID,
			Public:      p.Public,
			SongCount:   len(p.Entries),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return listPlaylistsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	}
}
