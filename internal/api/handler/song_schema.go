package handler

import (
	"time"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

type createSongRequest struct {
	Title           string  `json:"title"            validate:"required,min=1,max=200"`
	Artist          string  `json:"artist"           validate:"max=200"`
	URL             string  `json:"url"              validate:"required,url"`
	DurationSeconds float64 `json:"duration_seconds" validate:"gte=0"`
	CategoryID      string  `json:"category_id"`
	Public          bool    `json:"public"`
}

// updateSongRequest uses pointers so absent fields are left unchanged.
type updateSongRequest struct {
	Title           *string  `json:"title"`
	Artist          *string  `json:"artist"`
	URL             *string  `json:"url"`
	DurationSeconds *float64 `json:"duration_seconds"`
	CategoryID      *string  `json:"category_id"`
	Public          *bool    `json:"public"`
}

// songResponse is the transport view of a song. It is intentionally separate
// from the domain type so the JSON contract is not coupled to internal
// changes.
type songResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist,omitempty"`
	URL             string    `json:"url"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	CategoryID      string    `json:"category_id,omitempty"`
	UploadedBy      string    `json:"uploaded_by,omitempty"`
	Public          bool      `json:"public"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type listSongsResponse struct {
	Data       []songResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toSongResponse(s *domain.Song) songResponse {
	return songResponse{
		ID:              s.ID,
		Title:           s.Title,
		Artist:          s.Artist,
		URL:             s.URL,
		DurationSeconds: s.DurationSeconds,
		CategoryID:      s.CategoryID,
		UploadedBy:      s.UploadedBy,
		Public:          s.Public,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toListSongsResponse(result *ports.ListSongsResult) listSongsResponse {
	items := make([]songResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, toSongResponse(s))
	}
	return listSongsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	}
}
