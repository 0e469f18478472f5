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

const songsCollection = "songs"

// SongRepository persists songs. The row-level visibility rule is expressed
// as a query filter built from the viewer fields of ListSongsFilter.
type SongRepository struct {
	coll *mongo.Collection
}

func NewSongRepository(db *mongo.Database) *SongRepository {
	return &SongRepository{coll: db.Collection(songsCollection)}
}

func (r *SongRepository) Create(ctx context.Context, song *domain.Song) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, song); err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

func (r *SongRepository) FindByID(ctx context.Context, id string) (*domain.Song, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Song
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("find song: %w", err)
	}
	return &s, nil
}

func (r *SongRepository) List(ctx context.Context, filter ports.ListSongsFilter) ([]*domain.Song, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if !filter.ViewerIsAdmin {
		visible := []bson.M{{"public": true}}
		if filter.ViewerID != "" {
			visible = append(visible, bson.M{"uploaded_by": filter.ViewerID})
		}
		query["$or"] = visible
	}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$and"] = []bson.M{{"$or": []bson.M{{"title": pattern}, {"artist": pattern}}}}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count songs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list songs: %w", err)
	}
	defer cur.Close(ctx)

	var songs []*domain.Song
	for cur.Next(ctx) {
		var s domain.Song
		if err := cur.Decode(&s); err != nil {
			return nil, 0, fmt.Errorf("decode song: %w", err)
		}
		songs = append(songs, &s)
	}
	return songs, total, cur.Err()
}

func (r *SongRepository) Update(ctx context.Context, song *domain.Song) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": song.ID}, song)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// ClearCategory unsets the category reference on every song pointing at the
// deleted category. The songs themselves are untouched.
func (r *SongRepository) ClearCategory(ctx context.Context, categoryID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateMany(ctx,
		bson.M{"category_id": categoryID},
		bson.M{
			"$unset": bson.M{"category_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("clear category: %w", err)
	}
	return nil
}

// DeleteByUploader removes all songs uploaded by the user and returns their
// IDs for the playlist-entry cascade.
func (r *SongRepository) DeleteByUploader(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"uploaded_by": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find songs by uploader: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode song id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		if _, err := r.coll.DeleteMany(ctx, bson.M{"uploaded_by": userID}); err != nil {
			return nil, fmt.Errorf("delete songs by uploader: %w", err)
		}
	}
	return ids, nil
}

// EnsureIndexes creates the query-path indexes.
func (r *SongRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploaded_by", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "public", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
