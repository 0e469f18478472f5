package service

import (
	"context"
	"sort"
	"sync"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// In-memory repository stubs shared by the service tests. They implement the
// same not-found and duplicate semantics as the mongo repositories.

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int64, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := (page - 1) * limit
	out := []*domain.User{}
	for i := start; i < len(ids) && i < start+limit; i++ {
		clone := *r.users[ids[i]]
		out = append(out, &clone)
	}
	return out, int64(len(ids)), nil
}

func (r *stubUserRepo) SetRoles(_ context.Context, userID string, roles []string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = append([]string(nil), roles...)
	return nil
}

func (r *stubUserRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return u.HasRole(role), nil
}

func (r *stubUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

type stubProfileRepo struct {
	profiles map[string]*domain.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	clone := *profile
	r.profiles[clone.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if _, ok := r.profiles[profile.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	clone := *profile
	r.profiles[clone.UserID] = &clone
	return nil
}

func (r *stubProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	if _, ok := r.profiles[userID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.profiles, userID)
	return nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return domain.ErrCategoryExists
		}
	}
	clone := *category
	r.categories[clone.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	clone := *category
	r.categories[clone.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type stubSongRepo struct {
	songs map[string]*domain.Song
}

func newStubSongRepo() *stubSongRepo {
	return &stubSongRepo{songs: make(map[string]*domain.Song)}
}

func (r *stubSongRepo) Create(_ context.Context, song *domain.Song) error {
	clone := *song
	r.songs[clone.ID] = &clone
	return nil
}

func (r *stubSongRepo) FindByID(_ context.Context, id string) (*domain.Song, error) {
	s, ok := r.songs[id]
	if !ok {
		return nil, domain.ErrSongNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSongRepo) List(_ context.Context, filter ports.ListSongsFilter) ([]*domain.Song, int64, error) {
	matched := []*domain.Song{}
	for _, s := range r.songs {
		if !s.VisibleTo(filter.ViewerID, filter.ViewerIsAdmin) {
			continue
		}
		if filter.CategoryID != "" && s.CategoryID != filter.CategoryID {
			continue
		}
		clone := *s
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubSongRepo) Update(_ context.Context, song *domain.Song) error {
	if _, ok := r.songs[song.ID]; !ok {
		return domain.ErrSongNotFound
	}
	clone := *song
	r.songs[clone.ID] = &clone
	return nil
}

func (r *stubSongRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.songs[id]; !ok {
		return domain.ErrSongNotFound
	}
	delete(r.songs, id)
	return nil
}

func (r *stubSongRepo) ClearCategory(_ context.Context, categoryID string) error {
	for _, s := range r.songs {
		if s.CategoryID == categoryID {
			s.CategoryID = ""
		}
	}
	return nil
}

func (r *stubSongRepo) DeleteByUploader(_ context.Context, userID string) ([]string, error) {
	removed := []string{}
	for id, s := range r.songs {
		if s.UploadedBy == userID {
			removed = append(removed, id)
			delete(r.songs, id)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

type stubPlaylistRepo struct {
	playlists  map[string]*domain.Playlist
	replaceErr error
}

func newStubPlaylistRepo() *stubPlaylistRepo {
	return &stubPlaylistRepo{playlists: make(map[string]*domain.Playlist)}
}

func clonePlaylist(p *domain.Playlist) *domain.Playlist {
	clone := *p
	clone.Entries = append([]domain.PlaylistEntry(nil), p.Entries...)
	if clone.Entries == nil {
		clone.Entries = []domain.PlaylistEntry{}
	}
	return &clone
}

func (r *stubPlaylistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	r.playlists[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (r *stubPlaylistRepo) FindByID(_ context.Context, id string) (*domain.Playlist, error) {
	p, ok := r.playlists[id]
	if !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	return clonePlaylist(p), nil
}

func (r *stubPlaylistRepo) List(_ context.Context, filter ports.ListPlaylistsFilter) ([]*domain.Playlist, int64, error) {
	matched := []*domain.Playlist{}
	for _, p := range r.playlists {
		if filter.OwnerOnly {
			if p.OwnerID != filter.ViewerID {
				continue
			}
		} else if !p.VisibleTo(filter.ViewerID) {
			continue
		}
		matched = append(matched, clonePlaylist(p))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *stubPlaylistRepo) Update(_ context.Context, playlist *domain.Playlist) error {
	if _, ok := r.playlists[playlist.ID]; !ok {
		return domain.ErrPlaylistNotFound
	}
	r.playlists[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (r *stubPlaylistRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.playlists[id]; !ok {
		return domain.ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	return nil
}

func (r *stubPlaylistRepo) ReplaceEntries(_ context.Context, playlistID string, entries []domain.PlaylistEntry) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	p, ok := r.playlists[playlistID]
	if !ok {
		return domain.ErrPlaylistNotFound
	}
	p.Entries = append([]domain.PlaylistEntry(nil), entries...)
	return nil
}

func (r *stubPlaylistRepo) RemoveSongEverywhere(_ context.Context, songID string) error {
	for _, p := range r.playlists {
		kept := p.Entries[:0]
		for _, e := range p.Entries {
			if e.SongID != songID {
				kept = append(kept, e)
			}
		}
		p.Entries = kept
	}
	return nil
}

func (r *stubPlaylistRepo) DeleteByOwner(_ context.Context, userID string) error {
	for id, p := range r.playlists {
		if p.OwnerID == userID {
			delete(r.playlists, id)
		}
	}
	return nil
}

type stubDeduper struct {
	duplicate bool
	marked    map[string]bool
}

func newStubDeduper() *stubDeduper {
	return &stubDeduper{marked: make(map[string]bool)}
}

func (d *stubDeduper) IsDuplicate(_ context.Context, playlistID, songID, callerID string) (bool, error) {
	if d.duplicate {
		return true, nil
	}
	return d.marked[playlistID+"/"+songID+"/"+callerID], nil
}

func (d *stubDeduper) Mark(_ context.Context, playlistID, songID, callerID string) error {
	d.marked[playlistID+"/"+songID+"/"+callerID] = true
	return nil
}

type stubPlayerStore struct {
	mu     sync.Mutex
	states map[string]*domain.Player
	saves  int
}

func newStubPlayerStore() *stubPlayerStore {
	return &stubPlayerStore{states: make(map[string]*domain.Player)}
}

func clonePlayer(p *domain.Player) *domain.Player {
	clone := *p
	clone.Queue = append([]domain.QueueItem(nil), p.Queue...)
	return &clone
}

func (s *stubPlayerStore) Load(_ context.Context, userID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return clonePlayer(p), nil
}

func (s *stubPlayerStore) Update(_ context.Context, userID string, fn func(*domain.Player) error) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.states[userID]
	if !ok {
		player = domain.NewPlayer()
	}
	if err := fn(player); err != nil {
		return nil, err
	}
	s.states[userID] = player
	s.saves++
	return clonePlayer(player), nil
}
