package domain

import "time"

// Category groups songs by genre or theme. Names are unique.
type Category struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Song is a playable track. URL points at a direct-download audio source
// consumed by the client's media element; no transcoding happens server-side.
// CategoryID and UploadedBy are optional: a song survives the deletion of its
// category (the reference is cleared), while deleting the uploader removes
// their songs.
type Song struct {
	ID              string    `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Artist          string    `json:"artist,omitempty" bson:"artist,omitempty"`
	URL             string    `json:"url" bson:"url"`
	DurationSeconds float64   `json:"duration_seconds,omitempty" bson:"duration_seconds,omitempty"`
	CategoryID      string    `json:"category_id,omitempty" bson:"category_id,omitempty"`
	UploadedBy      string    `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty"`
	Public          bool      `json:"public" bson:"public"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// VisibleTo applies the song row predicate: public, owned by the viewer, or
// the viewer is an admin.
func (s *Song) VisibleTo(viewerID string, isAdmin bool) bool {
	return s.Public || (viewerID != "" && s.UploadedBy == viewerID) || isAdmin
}
