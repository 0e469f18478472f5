package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tunewave/music-api/internal/api/metrics"
	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/ports"
)

// PlaylistHandler handles HTTP requests for playlists and their entries.
type PlaylistHandler struct {
	service ports.PlaylistService
}

func NewPlaylistHandler(service ports.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

// List handles GET /v1/playlists. Returns public playlists and the caller's
// own; ?mine=true restricts to the caller's.
//
// @Summary      List playlists
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        mine   query     bool  false  "Only the caller's playlists"
// @Param        page   query     int   false  "Page (1-based)"
// @Param        limit  query     int   false  "Page size (max 100)"
// @Success      200    {object}  listPlaylistsResponse
// @Router       /v1/playlists [get]
func (h *PlaylistHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	mine, _ := strconv.ParseBool(c.QueryParam("mine"))

	result, err := h.service.List(c.Request().Context(), caller, ports.ListPlaylistsInput{
		Mine:  mine,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPlaylistsResponse(result))
}

// Get handles GET /v1/playlists/:id.
//
// @Summary      Get a playlist with its entries
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Playlist ID"
// @Success      200  {object}  playlistResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/playlists/{id} [get]
func (h *PlaylistHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	playlist, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaylistResponse(playlist))
}

// Create handles POST /v1/playlists. The owner is always the caller.
//
// @Summary      Create a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      playlistRequest  true  "Playlist details"
// @Success      201   {object}  playlistResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/playlists [post]
func (h *PlaylistHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req playlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	playlist, err := h.service.Create(c.Request().Context(), caller, ports.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPlaylistResponse(playlist))
}

// Update handles PUT /v1/playlists/:id. Owner only.
//
// @Summary      Update a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Playlist ID"
// @Param        body  body      playlistRequest  true  "Playlist details"
// @Success      200   {object}  playlistResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/playlists/{id} [put]
func (h *PlaylistHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req playlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	playlist, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaylistResponse(playlist))
}

// Delete handles DELETE /v1/playlists/:id. Owner only.
//
// @Summary      Delete a playlist
// @Tags         playlists
// @Security     BearerAuth
// @Param        id  path  string  true  "Playlist ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/playlists/{id} [delete]
func (h *PlaylistHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSong handles POST /v1/playlists/:id/songs. Appends at the end; the
// (playlist, song) pair must be new.
//
// @Summary      Add a song to a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Playlist ID"
// @Param        body  body      addSongRequest  true  "Song to add"
// @Success      200   {object}  playlistResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/playlists/{id}/songs [post]
func (h *PlaylistHandler) AddSong(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req addSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	playlist, err := h.service.AddSong(c.Request().Context(), caller, c.Param("id"), req.SongID)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			metrics.PlaylistAddDedupTotal.WithLabelValues("hit").Inc()
		}
		return err
	}

	metrics.PlaylistAddDedupTotal.WithLabelValues("miss").Inc()
	return c.JSON(http.StatusOK, toPlaylistResponse(playlist))
}

// RemoveSong handles DELETE /v1/playlists/:id/songs/:songID.
//
// @Summary      Remove a song from a playlist
// @Tags         playlists
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Playlist ID"
// @Param        songID  path      string  true  "Song ID"
// @Success      200     {object}  playlistResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/playlists/{id}/songs/{songID} [delete]
func (h *PlaylistHandler) RemoveSong(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	playlist, err := h.service.RemoveSong(c.Request().Context(), caller, c.Param("id"), c.Param("songID"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaylistResponse(playlist))
}

// MoveSong handles PUT /v1/playlists/:id/songs/:songID/position.
//
// @Summary      Move a song within a playlist
// @Tags         playlists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string           true  "Playlist ID"
// @Param        songID  path      string           true  "Song ID"
// @Param        body    body      moveSongRequest  true  "Target position (0-based)"
// @Success      200     {object}  playlistResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/playlists/{id}/songs/{songID}/position [put]
func (h *PlaylistHandler) MoveSong(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req moveSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	playlist, err := h.service.MoveSong(c.Request().Context(), caller, c.Param("id"), c.Param("songID"), req.Position)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlaylistResponse(playlist))
}
