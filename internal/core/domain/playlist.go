package domain

import "time"

// PlaylistEntry associates a song with a playlist at an ordering position.
// Positions are 0-based and contiguous; (playlist, song) pairs are unique.
type PlaylistEntry struct {
	SongID   string    `json:"song_id" bson:"song_id"`
	Position int       `json:"position" bson:"position"`
	AddedAt  time.Time `json:"added_at" bson:"added_at"`
}

// Playlist is a named, ordered collection of songs owned by a single user.
// Entries travel with the playlist document, so deleting a playlist removes
// its associations implicitly.
type Playlist struct {
	ID          string          `json:"id" bson:"_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     string          `json:"owner_id" bson:"owner_id"`
	Public      bool            `json:"public" bson:"public"`
	Entries     []PlaylistEntry `json:"entries" bson:"entries"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// VisibleTo applies the playlist row predicate: public or owned by the viewer.
// Admins get no special read access to private playlists.
func (p *Playlist) VisibleTo(viewerID string) bool {
	return p.Public || (viewerID != "" && p.OwnerID == viewerID)
}

// ContainsSong reports whether the playlist already holds the given song.
func (p *Playlist) ContainsSong(songID string) bool {
	for _, e := range p.Entries {
		if e.SongID == songID {
			return true
		}
	}
	return false
}
