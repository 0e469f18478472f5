package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

type catalogFixture struct {
	svc       *CatalogService
	users     *stubUserRepo
	songs     *stubSongRepo
	playlists *stubPlaylistRepo
	cats      *stubCategoryRepo
}

func newCatalogFixture() *catalogFixture {
	users := newStubUserRepo()
	songs := newStubSongRepo()
	playlists := newStubPlaylistRepo()
	cats := newStubCategoryRepo()
	return &catalogFixture{
		svc:       NewCatalogService(songs, cats, playlists, users, zerolog.Nop()),
		users:     users,
		songs:     songs,
		playlists: playlists,
		cats:      cats,
	}
}

func (f *catalogFixture) addUser(id string, roles ...string) ports.Caller {
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	f.users.users[id] = &domain.User{ID: id, Username: id, Roles: roles}
	return ports.Caller{UserID: id, Username: id, Roles: roles}
}

func (f *catalogFixture) addSong(id, owner string, public bool) *domain.Song {
	song := &domain.Song{
		ID:         id,
		Title:      id,
		URL:        "https://cdn.example.com/" + id + ".mp3",
		UploadedBy: owner,
		Public:     public,
		CreatedAt:  time.Now().UTC(),
	}
	f.songs.songs[id] = song
	return song
}

func TestCatalogService_CreateSong_SetsUploader(t *testing.T) {
	f := newCatalogFixture()
	caller := f.addUser("alice")

	song, err := f.svc.CreateSong(context.Background(), caller, ports.CreateSongInput{
		Title:  "Test Song",
		URL:    "https://cdn.example.com/t.mp3",
		Public: true,
	})
	if err != nil {
		t.Fatalf("CreateSong returned error: %v", err)
	}
	if song.UploadedBy != "alice" {
		t.Fatalf("uploader must be the caller, got %s", song.UploadedBy)
	}
	if song.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCatalogService_CreateSong_UnknownCategory(t *testing.T) {
	f := newCatalogFixture()
	caller := f.addUser("alice")

	_, err := f.svc.CreateSong(context.Background(), caller, ports.CreateSongInput{
		Title:      "Test Song",
		URL:        "https://cdn.example.com/t.mp3",
		CategoryID: "missing",
	})
	if err != domain.ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCatalogService_GetSong_Visibility(t *testing.T) {
	f := newCatalogFixture()
	owner := f.addUser("alice")
	other := f.addUser("bob")
	admin := f.addUser("root", domain.RoleUser, domain.RoleAdmin)
	f.addSong("s1", "alice", false)

	if _, err := f.svc.GetSong(context.Background(), owner, "s1"); err != nil {
		t.Fatalf("owner must see a private song: %v", err)
	}
	if _, err := f.svc.GetSong(context.Background(), other, "s1"); err != domain.ErrSongNotFound {
		t.Fatalf("outsider must get not-found for a private song, got %v", err)
	}
	if _, err := f.svc.GetSong(context.Background(), admin, "s1"); err != nil {
		t.Fatalf("admin must see a private song: %v", err)
	}
}

func TestCatalogService_ListSongs_FiltersForViewer(t *testing.T) {
	f := newCatalogFixture()
	alice := f.addUser("alice")
	bob := f.addUser("bob")
	f.addSong("s1", "alice", true)
	f.addSong("s2", "alice", false)
	f.addSong("s3", "bob", false)

	result, err := f.svc.ListSongs(context.Background(), bob, ports.ListSongsInput{})
	if err != nil {
		t.Fatalf("ListSongs returned error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("bob must see public songs plus his own, got %d", result.Total)
	}

	result, err = f.svc.ListSongs(context.Background(), alice, ports.ListSongsInput{})
	if err != nil {
		t.Fatalf("ListSongs returned error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("alice must see her own songs plus public, got %d", result.Total)
	}
	if result.Page != 1 || result.Limit != defaultPageLimit {
		t.Fatalf("expected normalized pagination, got page %d limit %d", result.Page, result.Limit)
	}
}

func TestCatalogService_UpdateSong_OwnerOrAdmin(t *testing.T) {
	f := newCatalogFixture()
	owner := f.addUser("alice")
	other := f.addUser("bob")
	admin := f.addUser("root", domain.RoleUser, domain.RoleAdmin)
	f.addSong("s1", "alice", true)

	title := "Renamed"
	if _, err := f.svc.UpdateSong(context.Background(), other, "s1", ports.UpdateSongInput{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("non-owner update must be forbidden, got %v", err)
	}

	song, err := f.svc.UpdateSong(context.Background(), owner, "s1", ports.UpdateSongInput{Title: &title})
	if err != nil {
		t.Fatalf("owner update returned error: %v", err)
	}
	if song.Title != "Renamed" {
		t.Fatalf("title not updated: %s", song.Title)
	}

	adminTitle := "Admin renamed"
	if _, err := f.svc.UpdateSong(context.Background(), admin, "s1", ports.UpdateSongInput{Title: &adminTitle}); err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
}

func TestCatalogService_UpdateSong_PartialFields(t *testing.T) {
	f := newCatalogFixture()
	owner := f.addUser("alice")
	f.addSong("s1", "alice", false)

	public := true
	song, err := f.svc.UpdateSong(context.Background(), owner, "s1", ports.UpdateSongInput{Public: &public})
	if err != nil {
		t.Fatalf("UpdateSong returned error: %v", err)
	}
	if !song.Public {
		t.Fatalf("public flag not updated")
	}
	if song.Title != "s1" {
		t.Fatalf("omitted fields must stay untouched, got title %s", song.Title)
	}
}

func TestCatalogService_DeleteSong_CascadesToPlaylists(t *testing.T) {
	f := newCatalogFixture()
	owner := f.addUser("alice")
	f.addSong("s1", "alice", true)
	f.playlists.playlists["p1"] = &domain.Playlist{
		ID:      "p1",
		OwnerID: "bob",
		Entries: []domain.PlaylistEntry{{SongID: "s1", Position: 0}},
	}

	if err := f.svc.DeleteSong(context.Background(), owner, "s1"); err != nil {
		t.Fatalf("DeleteSong returned error: %v", err)
	}
	if _, ok := f.songs.songs["s1"]; ok {
		t.Fatalf("song not deleted")
	}
	if len(f.playlists.playlists["p1"].Entries) != 0 {
		t.Fatalf("song must be pulled from playlists on delete")
	}
}

func TestCatalogService_Categories_AdminOnly(t *testing.T) {
	f := newCatalogFixture()
	user := f.addUser("alice")
	admin := f.addUser("root", domain.RoleUser, domain.RoleAdmin)

	if _, err := f.svc.CreateCategory(context.Background(), user, ports.CategoryInput{Name: "Rock"}); err != domain.ErrForbidden {
		t.Fatalf("non-admin create must be forbidden, got %v", err)
	}

	category, err := f.svc.CreateCategory(context.Background(), admin, ports.CategoryInput{Name: "Rock"})
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}

	if _, err := f.svc.UpdateCategory(context.Background(), user, category.ID, ports.CategoryInput{Name: "Pop"}); err != domain.ErrForbidden {
		t.Fatalf("non-admin update must be forbidden, got %v", err)
	}
	if err := f.svc.DeleteCategory(context.Background(), user, category.ID); err != domain.ErrForbidden {
		t.Fatalf("non-admin delete must be forbidden, got %v", err)
	}
}

func TestCatalogService_RequireAdmin_ChecksRoleStore(t *testing.T) {
	f := newCatalogFixture()
	// Token claims admin but the role store does not have the membership.
	f.addUser("alice")
	forged := ports.Caller{UserID: "alice", Roles: []string{domain.RoleAdmin}}

	if _, err := f.svc.CreateCategory(context.Background(), forged, ports.CategoryInput{Name: "Rock"}); err != domain.ErrForbidden {
		t.Fatalf("admin membership must come from the role store, got %v", err)
	}
}

func TestCatalogService_DeleteCategory_ClearsSongReferences(t *testing.T) {
	f := newCatalogFixture()
	admin := f.addUser("root", domain.RoleUser, domain.RoleAdmin)

	category, err := f.svc.CreateCategory(context.Background(), admin, ports.CategoryInput{Name: "Rock"})
	if err != nil {
		t.Fatalf("CreateCategory returned error: %v", err)
	}
	song := f.addSong("s1", "root", true)
	song.CategoryID = category.ID

	if err := f.svc.DeleteCategory(context.Background(), admin, category.ID); err != nil {
		t.Fatalf("DeleteCategory returned error: %v", err)
	}
	if f.songs.songs["s1"].CategoryID != "" {
		t.Fatalf("song must survive with its category cleared, got %s", f.songs.songs["s1"].CategoryID)
	}
}
