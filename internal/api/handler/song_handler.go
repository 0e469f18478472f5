package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tunewave/music-api/internal/api/metrics"
	"github.com/tunewave/music-api/internal/core/ports"
)

// SongHandler handles HTTP requests for the song catalog.
type SongHandler struct {
	service ports.CatalogService
}

func NewSongHandler(service ports.CatalogService) *SongHandler {
	return &SongHandler{service: service}
}

// List handles GET /v1/songs. Results are filtered by the row-level select
// predicate: public songs, the caller's own uploads, and everything for admins.
//
// @Summary      List songs visible to the caller
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Filter by category"
// @Param        search       query     string  false  "Partial match on title or artist"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listSongsResponse
// @Failure      401          {object}  errorResponse
// @Router       /v1/songs [get]
func (h *SongHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListSongs(c.Request().Context(), caller, ports.ListSongsInput{
		CategoryID: c.QueryParam("category_id"),
		Search:     c.QueryParam("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListSongsResponse(result))
}

// Get handles GET /v1/songs/:id.
//
// @Summary      Get a song
// @Tags         songs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Song ID"
// @Success      200  {object}  songResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/songs/{id} [get]
func (h *SongHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	song, err := h.service.GetSong(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSongResponse(song))
}

// Create handles POST /v1/songs. The uploader is always the caller; the
// request cannot set uploaded_by.
//
// @Summary      Register a song
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSongRequest  true  "Song details"
// @Success      201   {object}  songResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/songs [post]
func (h *SongHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	song, err := h.service.CreateSong(c.Request().Context(), caller, ports.CreateSongInput{
		Title:           req.Title,
		Artist:          req.Artist,
		URL:             req.URL,
		DurationSeconds: req.DurationSeconds,
		CategoryID:      req.CategoryID,
		Public:          req.Public,
	})
	if err != nil {
		return err
	}

	metrics.SongsUploadedTotal.WithLabelValues(visibilityLabel(song.Public)).Inc()
	return c.JSON(http.StatusCreated, toSongResponse(song))
}

// Update handles PUT /v1/songs/:id. Owner or admin.
//
// @Summary      Update a song
// @Tags         songs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Song ID"
// @Param        body  body      updateSongRequest  true  "Fields to change"
// @Success      200   {object}  songResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/songs/{id} [put]
func (h *SongHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	song, err := h.service.UpdateSong(c.Request().Context(), caller, c.Param("id"), ports.UpdateSongInput{
		Title:           req.Title,
		Artist:          req.Artist,
		URL:             req.URL,
		DurationSeconds: req.DurationSeconds,
		CategoryID:      req.CategoryID,
		Public:          req.Public,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSongResponse(song))
}

// Delete handles DELETE /v1/songs/:id. Owner or admin; playlist entries
// referencing the song are removed.
//
// @Summary      Delete a song
// @Tags         songs
// @Security     BearerAuth
// @Param        id  path  string  true  "Song ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/songs/{id} [delete]
func (h *SongHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteSong(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func visibilityLabel(public bool) string {
	if public {
		return "public"
	}
	return "private"
}
