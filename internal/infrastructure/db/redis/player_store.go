package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tunewave/music-api/internal/core/domain"
)

// Sessions outlive browser reloads but not long absences; a week mirrors the
// retention a client-local store effectively had.
const playerTTL = 7 * 24 * time.Hour

// maxUpdateRetries bounds how often Update re-runs after losing a WATCH race.
const maxUpdateRetries = 5

// PlayerStateStore persists player sessions as JSON under player:<user_id>,
// so a session survives restarts and client reconnects.
type PlayerStateStore struct {
	client *redis.Client
}

// NewPlayerStateStore creates a PlayerStateStore wrapping the given client.
func NewPlayerStateStore(client *redis.Client) *PlayerStateStore {
	return &PlayerStateStore{client: client}
}

// Load returns the stored session, or (nil, nil) when none exists.
func (s *PlayerStateStore) Load(ctx context.Context, userID string) (*domain.Player, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load player state: %w", err)
	}

	var player domain.Player
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode player state: %w", err)
	}
	return &player, nil
}

// Update applies fn to the stored session and writes the result back under
// optimistic locking. The key is watched for the whole load-apply-save cycle,
// so a concurrent writer aborts the transaction and the cycle retries against
// the fresh state. A missing session is presented to fn as a new idle player.
func (s *PlayerStateStore) Update(ctx context.Context, userID string, fn func(*domain.Player) error) (*domain.Player, error) {
	key := s.key(userID)
	var updated *domain.Player

	txn := func(tx *redis.Tx) error {
		player := domain.NewPlayer()
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("load player state: %w", err)
		default:
			player = &domain.Player{}
			if err := json.Unmarshal(raw, player); err != nil {
				return fmt.Errorf("decode player state: %w", err)
			}
		}

		if err := fn(player); err != nil {
			return err
		}

		payload, err := json.Marshal(player)
		if err != nil {
			return fmt.Errorf("encode player state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, playerTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = player
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update player state: lost the write race %d times", maxUpdateRetries)
}

func (s *PlayerStateStore) key(userID string) string {
	return "player:" + userID
}
