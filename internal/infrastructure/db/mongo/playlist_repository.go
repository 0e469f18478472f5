package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

const playlistsCollection = "playlists"

// PlaylistRepository persists playlists with their entries embedded in the
// document, so playlist deletion cascades to the associations implicitly.
type PlaylistRepository struct {
	coll *mongo.Collection
}

func NewPlaylistRepository(db *mongo.Database) *PlaylistRepository {
	return &PlaylistRepository{coll: db.Collection(playlistsCollection)}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, playlist); err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id string) (*domain.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Playlist
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	if p.Entries == nil {
		p.Entries = []domain.PlaylistEntry{}
	}
	return &p, nil
}

func (r *PlaylistRepository) List(ctx context.Context, filter ports.ListPlaylistsFilter) ([]*domain.Playlist, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var query bson.M
	switch {
	case filter.OwnerOnly:
		query = bson.M{"owner_id": filter.ViewerID}
	case filter.ViewerID != "":
		query = bson.M{"$or": []bson.M{{"public": true}, {"owner_id": filter.ViewerID}}}
	default:
		query = bson.M{"public": true}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list playlists: %w", err)
	}
	defer cur.Close(ctx)

	var playlists []*domain.Playlist
	for cur.Next(ctx) {
		var p domain.Playlist
		if err := cur.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("decode playlist: %w", err)
		}
		if p.Entries == nil {
			p.Entries = []domain.PlaylistEntry{}
		}
		playlists = append(playlists, &p)
	}
	return playlists, total, cur.Err()
}

func (r *PlaylistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": playlist.ID}, bson.M{
		"$set": bson.M{
			"name":        playlist.Name,
			"description": playlist.Description,
			"public":      playlist.Public,
			"updated_at":  playlist.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("update playlist: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

// ReplaceEntries overwrites the entries array and refreshes updated_at.
func (r *PlaylistRepository) ReplaceEntries(ctx context.Context, playlistID string, entries []domain.PlaylistEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entries == nil {
		entries = []domain.PlaylistEntry{}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": playlistID}, bson.M{
		"$set": bson.M{"entries": entries, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("replace entries: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

// RemoveSongEverywhere pulls the song from every playlist's entries.
func (r *PlaylistRepository) RemoveSongEverywhere(ctx context.Context, songID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"entries.song_id": songID},
		bson.M{
			"$pull": bson.M{"entries": bson.M{"song_id": songID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("remove song everywhere: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) DeleteByOwner(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"owner_id": userID}); err != nil {
		return fmt.Errorf("delete playlists by owner: %w", err)
	}
	return nil
}

// EnsureIndexes creates the query-path indexes.
func (r *PlaylistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "public", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "entries.song_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
