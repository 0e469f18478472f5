package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tunewave/music-api/internal/api/metrics"
	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue media events.
type EventDispatcher interface {
	Enqueue(event ports.MediaEventInput)
	EnqueueBatch(events []ports.MediaEventInput)
}

// PlayerHandler exposes the per-user playback session. Transport commands
// apply synchronously and return the updated state; media events are
// acknowledged with 202 and flow through the dispatcher.
type PlayerHandler struct {
	service    ports.PlayerService
	dispatcher EventDispatcher
}

func NewPlayerHandler(service ports.PlayerService, dispatcher EventDispatcher) *PlayerHandler {
	return &PlayerHandler{service: service, dispatcher: dispatcher}
}

// GetState handles GET /v1/player.
//
// @Summary      Get the caller's playback state
// @Tags         player
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Player
// @Router       /v1/player [get]
func (h *PlayerHandler) GetState(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	state, err := h.service.GetState(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

// LoadQueue handles POST /v1/player/queue — replaces the queue with a
// playlist's songs.
//
// @Summary      Load a playlist into the queue
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      loadQueueRequest  true  "Playlist to load"
// @Success      200   {object}  domain.Player
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/player/queue [post]
func (h *PlayerHandler) LoadQueue(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req loadQueueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	state, err := h.service.LoadPlaylist(c.Request().Context(), caller, req.PlaylistID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

// TogglePlay handles POST /v1/player/toggle.
//
// @Summary      Toggle between playing and paused
// @Tags         player
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Player
// @Router       /v1/player/toggle [post]
func (h *PlayerHandler) TogglePlay(c echo.Context) error {
	return h.command(c, h.service.TogglePlay)
}

// Next handles POST /v1/player/next.
//
// @Summary      Advance to the next track
// @Tags         player
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Player
// @Router       /v1/player/next [post]
func (h *PlayerHandler) Next(c echo.Context) error {
	return h.command(c, h.service.Next)
}

// Prev handles POST /v1/player/prev.
//
// @Summary      Go back to the previous track
// @Tags         player
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Player
// @Router       /v1/player/prev [post]
func (h *PlayerHandler) Prev(c echo.Context) error {
	return h.command(c, h.service.Prev)
}

// Seek handles PUT /v1/player/seek.
//
// @Summary      Seek within the current track
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      seekRequest  true  "Target position in seconds"
// @Success      200   {object}  domain.Player
// @Failure      422   {object}  errorResponse
// @Router       /v1/player/seek [put]
func (h *PlayerHandler) Seek(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req seekRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	state, err := h.service.Seek(c.Request().Context(), caller, req.Position)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

// SetVolume handles PUT /v1/player/volume.
//
// @Summary      Set the playback volume
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      volumeRequest  true  "Volume between 0 and 1"
// @Success      200   {object}  domain.Player
// @Failure      422   {object}  errorResponse
// @Router       /v1/player/volume [put]
func (h *PlayerHandler) SetVolume(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req volumeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	state, err := h.service.SetVolume(c.Request().Context(), caller, req.Volume)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

// SetShuffle handles PUT /v1/player/shuffle.
//
// @Summary      Enable or disable shuffle
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      toggleFlagRequest  true  "Shuffle flag"
// @Success      200   {object}  domain.Player
// @Router       /v1/player/shuffle [put]
func (h *PlayerHandler) SetShuffle(c echo.Context) error {
	return h.setFlag(c, h.service.SetShuffle)
}

// SetRepeat handles PUT /v1/player/repeat.
//
// @Summary      Enable or disable single-track repeat
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      toggleFlagRequest  true  "Repeat flag"
// @Success      200   {object}  domain.Player
// @Router       /v1/player/repeat [put]
func (h *PlayerHandler) SetRepeat(c echo.Context) error {
	return h.setFlag(c, h.service.SetRepeat)
}

// ReceiveEvent handles POST /v1/player/events — enqueues a single media
// event, returns 202.
//
// @Summary      Ingest a media lifecycle event
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      mediaEventRequest  true  "Media event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/player/events [post]
func (h *PlayerHandler) ReceiveEvent(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req mediaEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toMediaEventInput(req, caller.UserID))
	metrics.MediaEventsReceivedTotal.WithLabelValues(req.Type).Inc()
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveEventBatch handles POST /v1/player/events/batch — enqueues a batch
// of media events, returns 202.
//
// @Summary      Ingest a batch of media lifecycle events
// @Tags         player
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []mediaEventRequest  true  "Array of media events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/player/events/batch [post]
func (h *PlayerHandler) ReceiveEventBatch(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var reqs []mediaEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.MediaEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		metrics.MediaEventsReceivedTotal.WithLabelValues(req.Type).Inc()
		inputs = append(inputs, toMediaEventInput(req, caller.UserID))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

func (h *PlayerHandler) command(c echo.Context, fn func(ctx context.Context, caller ports.Caller) (*domain.Player, error)) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	state, err := fn(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *PlayerHandler) setFlag(c echo.Context, fn func(ctx context.Context, caller ports.Caller, on bool) (*domain.Player, error)) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req toggleFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	state, err := fn(c.Request().Context(), caller, req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}
