package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

type stubPlayerService struct {
	state *domain.Player
}

func newStubPlayerService() *stubPlayerService {
	return &stubPlayerService{state: domain.NewPlayer()}
}

func (s *stubPlayerService) GetState(context.Context, ports.Caller) (*domain.Player, error) {
	return s.state, nil
}

func (s *stubPlayerService) LoadPlaylist(_ context.Context, _ ports.Caller, playlistID string) (*domain.Player, error) {
	if playlistID == "missing" {
		return nil, domain.ErrPlaylistNotFound
	}
	s.state.Queue = []domain.QueueItem{{SongID: "s1", URL: "https://cdn.example.com/s1.mp3"}}
	s.state.State = domain.TransportPaused
	return s.state, nil
}

func (s *stubPlayerService) TogglePlay(context.Context, ports.Caller) (*domain.Player, error) {
	s.state.TogglePlay()
	return s.state, nil
}

func (s *stubPlayerService) Next(context.Context, ports.Caller) (*domain.Player, error) {
	return s.state, nil
}

func (s *stubPlayerService) Prev(context.Context, ports.Caller) (*domain.Player, error) {
	return s.state, nil
}

func (s *stubPlayerService) Seek(_ context.Context, _ ports.Caller, seconds float64) (*domain.Player, error) {
	s.state.Seek(seconds)
	return s.state, nil
}

func (s *stubPlayerService) SetVolume(_ context.Context, _ ports.Caller, volume float64) (*domain.Player, error) {
	s.state.SetVolume(volume)
	return s.state, nil
}

func (s *stubPlayerService) SetShuffle(_ context.Context, _ ports.Caller, on bool) (*domain.Player, error) {
	s.state.Shuffle = on
	return s.state, nil
}

func (s *stubPlayerService) SetRepeat(_ context.Context, _ ports.Caller, on bool) (*domain.Player, error) {
	s.state.Repeat = on
	return s.state, nil
}

func (s *stubPlayerService) ProcessEvent(context.Context, ports.MediaEventInput) error {
	return nil
}

type stubDispatcher struct {
	events []ports.MediaEventInput
}

func (d *stubDispatcher) Enqueue(event ports.MediaEventInput) {
	d.events = append(d.events, event)
}

func (d *stubDispatcher) EnqueueBatch(events []ports.MediaEventInput) {
	d.events = append(d.events, events...)
}

func authedContext(e *echo.Echo, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")
	c.Set("username", "alice")
	c.Set("roles", []string{domain.RoleUser})
	return c, rec
}

func TestPlayerHandler_GetState(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, rec := authedContext(e, http.MethodGet, "/v1/player", "")
	if err := handler.GetState(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != "idle" {
		t.Fatalf("expected idle state, got %v", resp["state"])
	}
}

func TestPlayerHandler_GetState_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/v1/player", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.GetState(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPlayerHandler_LoadQueue(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, rec := authedContext(e, http.MethodPost, "/v1/player/queue", `{"playlist_id":"mix"}`)
	if err := handler.LoadQueue(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPlayerHandler_LoadQueue_MissingPlaylistID(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, _ := authedContext(e, http.MethodPost, "/v1/player/queue", `{}`)
	err := handler.LoadQueue(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestPlayerHandler_SeekAndVolume(t *testing.T) {
	e := newTestEcho()
	svc := newStubPlayerService()
	handler := NewPlayerHandler(svc, &stubDispatcher{})

	c, rec := authedContext(e, http.MethodPut, "/v1/player/seek", `{"position":12.5}`)
	if err := handler.Seek(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.state.Position != 12.5 {
		t.Fatalf("seek not applied: %d %f", rec.Code, svc.state.Position)
	}

	c, rec = authedContext(e, http.MethodPut, "/v1/player/volume", `{"volume":0.5}`)
	if err := handler.SetVolume(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || svc.state.Volume != 0.5 {
		t.Fatalf("volume not applied: %d %f", rec.Code, svc.state.Volume)
	}
}

func TestPlayerHandler_SetVolume_OutOfRange(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, _ := authedContext(e, http.MethodPut, "/v1/player/volume", `{"volume":1.5}`)
	err := handler.SetVolume(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestPlayerHandler_ReceiveEvent(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewPlayerHandler(newStubPlayerService(), dispatcher)

	c, rec := authedContext(e, http.MethodPost, "/v1/player/events",
		`{"type":"timeupdate","position":33.3,"duration":181}`)
	if err := handler.ReceiveEvent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", len(dispatcher.events))
	}
	event := dispatcher.events[0]
	if event.UserID != "user_1" {
		t.Fatalf("session owner must come from the token, got %s", event.UserID)
	}
	if event.Type != ports.MediaEventTick || event.Position != 33.3 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Fatalf("missing timestamp must be filled in")
	}
}

func TestPlayerHandler_ReceiveEvent_UnknownType(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, _ := authedContext(e, http.MethodPost, "/v1/player/events", `{"type":"seeked"}`)
	err := handler.ReceiveEvent(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestPlayerHandler_ReceiveEventBatch(t *testing.T) {
	e := newTestEcho()
	dispatcher := &stubDispatcher{}
	handler := NewPlayerHandler(newStubPlayerService(), dispatcher)

	body := `[{"type":"timeupdate","position":1},{"type":"ended","position":180}]`
	c, rec := authedContext(e, http.MethodPost, "/v1/player/events/batch", body)
	if err := handler.ReceiveEventBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(dispatcher.events) != 2 {
		t.Fatalf("expected 2 enqueued events, got %d", len(dispatcher.events))
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", resp["count"])
	}
}

func TestPlayerHandler_ReceiveEventBatch_Empty(t *testing.T) {
	e := newTestEcho()
	handler := NewPlayerHandler(newStubPlayerService(), &stubDispatcher{})

	c, _ := authedContext(e, http.MethodPost, "/v1/player/events/batch", `[]`)
	err := handler.ReceiveEventBatch(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
