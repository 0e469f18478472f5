package ports

import (
	"context"
	"time"

	"github.com/tunewave/music-api/internal/core/domain"
)

// Media event types posted by the client when its audio element fires the
// corresponding DOM event.
const (
	MediaEventEnded = "ended"
	MediaEventTick  = "timeupdate"
	MediaEventReady = "loadedmetadata"
)

// MediaEventInput is the DTO passed from the transport layer to the player
// event pipeline. UserID identifies the session the event belongs to.
type MediaEventInput struct {
	UserID    string
	Type      string
	Position  float64
	Duration  float64
	Timestamp time.Time
}

// PlayerService drives per-user playback sessions. Transport commands apply
// synchronously; media events arrive through ProcessEvent via the dispatcher.
type PlayerService interface {
	GetState(ctx context.Context, caller Caller) (*domain.Player, error)
	// LoadPlaylist loads a visible playlist's songs into the caller's queue.
	LoadPlaylist(ctx context.Context, caller Caller, playlistID string) (*domain.Player, error)
	TogglePlay(ctx context.Context, caller Caller) (*domain.Player, error)
	Next(ctx context.Context, caller Caller) (*domain.Player, error)
	Prev(ctx context.Context, caller Caller) (*domain.Player, error)
	Seek(ctx context.Context, caller Caller, seconds float64) (*domain.Player, error)
	SetVolume(ctx context.Context, caller Caller, volume float64) (*domain.Player, error)
	SetShuffle(ctx context.Context, caller Caller, on bool) (*domain.Player, error)
	SetRepeat(ctx context.Context, caller Caller, on bool) (*domain.Player, error)

	// ProcessEvent applies a single media lifecycle event to the session.
	ProcessEvent(ctx context.Context, event MediaEventInput) error
}
