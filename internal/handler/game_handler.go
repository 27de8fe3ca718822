package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"gamedex/backend/internal/catalog"
	"gamedex/backend/internal/feed"
	"gamedex/backend/internal/logger"
	"gamedex/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// GameInput defines the fields accepted when creating or updating a game.
type GameInput struct {
	PublisherID *string `json:"publisherId" example:"12345"`
	Name        string  `json:"name" binding:"required" example:"Dragon Quest"`
	Platform    string  `json:"platform" binding:"required" example:"iOS"`
	StoreID     *string `json:"storeId" example:"490367050"`
	BundleID    *string `json:"bundleId" example:"com.example.dragonquest"`
	AppVersion  *string `json:"appVersion" example:"1.4.2"`
	IsPublished bool    `json:"isPublished" example:"true"`
}

// SearchInput defines the optional search criteria. Absent fields mean
// "no constraint".
type SearchInput struct {
	Name     string `json:"name" example:"Drag"`
	Platform string `json:"platform" example:"iOS"`
}

// PopulateResponse reports the outcome of an ingestion run.
type PopulateResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// GameHandler serves the game catalog endpoints. It is constructed once at
// startup with its store and importer dependencies.
type GameHandler struct {
	store    catalog.Store
	importer *feed.Importer
	log      *logger.Logger
}

func NewGameHandler(store catalog.Store, importer *feed.Importer, baseLog *logger.Logger) *GameHandler {
	return &GameHandler{
		store:    store,
		importer: importer,
		log:      baseLog.With("component", "handler"),
	}
}

func (h *GameHandler) fieldsFromInput(input GameInput) catalog.Fields {
	return catalog.Fields{
		PublisherID: input.PublisherID,
		Name:        input.Name,
		Platform:    models.Platform(input.Platform),
		StoreID:     input.StoreID,
		BundleID:    input.BundleID,
		AppVersion:  input.AppVersion,
		IsPublished: input.IsPublished,
	}
}

// renderError maps the catalog/feed error taxonomy onto HTTP statuses.
func (h *GameHandler) renderError(c *gin.Context, err error) {
	var validationErr *catalog.ValidationError
	var notFoundErr *catalog.NotFoundError
	var fetchErr *feed.FetchError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: notFoundErr.Error()})
	case errors.As(err, &fetchErr):
		h.log.Error("feed fetch failed", "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: fetchErr.Error()})
	default:
		h.log.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// ListGames godoc
// @Summary      List all games
// @Description  Retrieves every game in the catalog.
// @Tags         games
// @Produce      json
// @Success      200  {array}   models.Game
// @Failure      500  {object}  ErrorResponse
// @Router       /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.store.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// SearchGames godoc
// @Summary      Search games
// @Description  Searches games by optional name substring (case-insensitive) and exact platform.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body SearchInput false "Search criteria"
// @Success      200  {array}   models.Game
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /games/search [post]
func (h *GameHandler) SearchGames(c *gin.Context) {
	var input SearchInput
	// An empty body is a valid "match everything" search.
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	games, err := h.store.Search(c.Request.Context(), catalog.Filter{
		Name:     input.Name,
		Platform: models.Platform(input.Platform),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// CreateGame godoc
// @Summary      Create a new game
// @Description  Creates a game from the supplied fields.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  models.Game
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.store.Create(c.Request.Context(), h.fieldsFromInput(input))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Replaces a game's fields by id.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        id    path      int       true  "Game ID"
// @Param        input body      GameInput true  "New Game Info"
// @Success      200   {object}  models.Game
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /games/{id} [put]
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID"})
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.store.Update(c.Request.Context(), uint(id), h.fieldsFromInput(input))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Permanently deletes a game by id.
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]uint "{"id": 1}"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid ID"})
		return
	}

	deletedID, err := h.store.Delete(c.Request.Context(), uint(id))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": deletedID})
}

// PopulateGames godoc
// @Summary      Populate the catalog from the top-games feeds
// @Description  Fetches both platform feeds and merges their entries into the catalog. Already-known games are skipped.
// @Tags         games
// @Produce      json
// @Success      200  {object}  PopulateResponse
// @Failure      502  {object}  ErrorResponse "Feed fetch failed"
// @Router       /games/populate [post]
func (h *GameHandler) PopulateGames(c *gin.Context) {
	count, err := h.importer.Run(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}

	message := "Database populated successfully with top games."
	if count == 0 {
		message = "No new games to add."
	}
	c.JSON(http.StatusOK, PopulateResponse{Message: message, Count: count})
}
