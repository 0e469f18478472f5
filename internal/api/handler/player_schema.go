package handler

import (
	"time"

	"github.com/tunewave/music-api/internal/core/ports"
)

type loadQueueRequest struct {
	PlaylistID string `json:"playlist_id" validate:"required"`
}

type seekRequest struct {
	Position float64 `json:"position" validate:"gte=0"`
}

type volumeRequest struct {
	Volume float64 `json:"volume" validate:"gte=0,lte=1"`
}

type toggleFlagRequest struct {
	Enabled bool `json:"enabled"`
}

type mediaEventRequest struct {
	Type      string    `json:"type"      validate:"required,oneof=ended timeupdate loadedmetadata"`
	Position  float64   `json:"position"  validate:"gte=0"`
	Duration  float64   `json:"duration"  validate:"gte=0"`
	Timestamp time.Time `json:"timestamp"`
}

// toMediaEventInput maps the HTTP request to the service DTO. The session
// owner comes from the token, never from the payload.
func toMediaEventInput(r mediaEventRequest, userID string) ports.MediaEventInput {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return ports.MediaEventInput{
		UserID:    userID,
		Type:      r.Type,
		Position:  r.Position,
		Duration:  r.Duration,
		Timestamp: ts,
	}
}
