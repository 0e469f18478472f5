package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// PlayerStateStore persists player sessions between requests (Redis-backed).
// Load returns (nil, nil) when no session exists; callers get a fresh idle
// player in that case. Update runs fn against the current stored state and
// persists the result atomically, so two writers can never overwrite each
// other; a missing session is presented to fn as a fresh idle player.
type PlayerStateStore interface {
	Load(ctx context.Context, userID string) (*domain.Player, error)
	Update(ctx context.Context, userID string, fn func(*domain.Player) error) (*domain.Player, error)
}

// PlayerService drives per-user playback sessions: transport commands apply
// synchronously over the stored state, media lifecycle events arrive through
// ProcessEvent from the dispatcher workers.
type PlayerService struct {
	store     PlayerStateStore
	playlists ports.PlaylistRepository
	songs     ports.SongRepository
	pick      domain.PickFunc
	logger    zerolog.Logger
}

func NewPlayerService(
	store PlayerStateStore,
	playlists ports.PlaylistRepository,
	songs ports.SongRepository,
	logger zerolog.Logger,
) *PlayerService {
	return &PlayerService{
		store:     store,
		playlists: playlists,
		songs:     songs,
		logger:    logger,
	}
}

// WithPick overrides the shuffle index source. Tests use this for
// deterministic next-song selection.
func (s *PlayerService) WithPick(pick domain.PickFunc) *PlayerService {
	s.pick = pick
	return s
}

func (s *PlayerService) GetState(ctx context.Context, caller ports.Caller) (*domain.Player, error) {
	return s.load(ctx, caller.UserID)
}

// LoadPlaylist resolves the playlist through the visibility predicate and
// loads the songs the caller may see into the session queue, paused at the
// first item.
func (s *PlayerService) LoadPlaylist(ctx context.Context, caller ports.Caller, playlistID string) (*domain.Player, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !playlist.VisibleTo(caller.UserID) {
		return nil, domain.ErrPlaylistNotFound
	}

	items := make([]domain.QueueItem, 0, len(playlist.Entries))
	for _, entry := range playlist.Entries {
		song, err := s.songs.FindByID(ctx, entry.SongID)
		if err != nil {
			// A racing song deletion leaves a dangling entry; skip it.
			s.logger.Warn().Str("song_id", entry.SongID).Str("playlist_id", playlistID).Msg("queue skips missing song")
			continue
		}
		if !song.VisibleTo(caller.UserID, caller.IsAdmin()) {
			continue
		}
		items = append(items, domain.QueueItem{
			SongID:          song.ID,
			Title:           song.Title,
			Artist:          song.Artist,
			URL:             song.URL,
			DurationSeconds: song.DurationSeconds,
		})
	}

	player, err := s.store.Update(ctx, caller.UserID, func(p *domain.Player) error {
		p.LoadQueue(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", caller.UserID).Str("playlist_id", playlistID).Int("queue_len", len(items)).Msg("queue loaded")
	return player, nil
}

func (s *PlayerService) TogglePlay(ctx context.Context, caller ports.Caller) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.TogglePlay() })
}

func (s *PlayerService) Next(ctx context.Context, caller ports.Caller) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.Next(s.pick) })
}

func (s *PlayerService) Prev(ctx context.Context, caller ports.Caller) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.Prev() })
}

func (s *PlayerService) Seek(ctx context.Context, caller ports.Caller, seconds float64) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.Seek(seconds) })
}

func (s *PlayerService) SetVolume(ctx context.Context, caller ports.Caller, volume float64) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.SetVolume(volume) })
}

func (s *PlayerService) SetShuffle(ctx context.Context, caller ports.Caller, on bool) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.Shuffle = on })
}

func (s *PlayerService) SetRepeat(ctx context.Context, caller ports.Caller, on bool) (*domain.Player, error) {
	return s.mutate(ctx, caller, func(p *domain.Player) { p.Repeat = on })
}

// ProcessEvent applies a media lifecycle event to the owning session. Called
// from dispatcher workers; events for one user are processed in order.
func (s *PlayerService) ProcessEvent(ctx context.Context, event ports.MediaEventInput) error {
	if event.UserID == "" {
		return fmt.Errorf("process media event: missing user id")
	}

	_, err := s.store.Update(ctx, event.UserID, func(p *domain.Player) error {
		switch event.Type {
		case ports.MediaEventEnded:
			p.OnMediaEnded(s.pick)
		case ports.MediaEventTick:
			p.OnMediaTimeUpdate(event.Position, event.Duration)
		case ports.MediaEventReady:
			p.OnMediaReady(event.Duration)
		default:
			return fmt.Errorf("unknown type %q", event.Type)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("process media event: %w", err)
	}
	return nil
}

func (s *PlayerService) load(ctx context.Context, userID string) (*domain.Player, error) {
	if userID == "" {
		return nil, domain.ErrForbidden
	}
	player, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		player = domain.NewPlayer()
	}
	return player, nil
}

func (s *PlayerService) mutate(ctx context.Context, caller ports.Caller, fn func(*domain.Player)) (*domain.Player, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}
	return s.store.Update(ctx, caller.UserID, func(p *domain.Player) error {
		fn(p)
		return nil
	})
}
