package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 10 * time.Second

// AddSongDeduper absorbs rapid repeated add-song submissions from the same
// caller. Key format: addsong:<playlist_id>:<song_id>:<caller_id>
//
// The TTL is short on purpose: it only needs to outlast a burst of repeated
// clicks; the durable uniqueness guarantee lives on the playlist document
// itself.
type AddSongDeduper struct {
	client *redis.Client
}

// NewAddSongDeduper creates an AddSongDeduper wrapping the given Redis client.
func NewAddSongDeduper(client *redis.Client) *AddSongDeduper {
	return &AddSongDeduper{client: client}
}

// IsDuplicate reports whether this exact submission was seen within the window.
func (d *AddSongDeduper) IsDuplicate(ctx context.Context, playlistID, songID, callerID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(playlistID, songID, callerID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the submission (expires after dedupTTL).
func (d *AddSongDeduper) Mark(ctx context.Context, playlistID, songID, callerID string) error {
	return d.client.Set(ctx, d.key(playlistID, songID, callerID), "1", dedupTTL).Err()
}

func (d *AddSongDeduper) key(playlistID, songID, callerID string) string {
	return fmt.Sprintf("addsong:%s:%s:%s", playlistID, songID, callerID)
}
