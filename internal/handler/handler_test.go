package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamedex/backend/internal/catalog"
	"gamedex/backend/internal/feed"
	"gamedex/backend/internal/handler"
	"gamedex/backend/internal/models"
	"gamedex/backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIOSURL     = "https://feeds.test/ios.json"
	testAndroidURL = "https://feeds.test/android.json"
)

type stubFetcher struct {
	payloads map[string][][]feed.RawEntry
	errs     map[string]error
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([][]feed.RawEntry, error) {
	if err := s.errs[url]; err != nil {
		return nil, err
	}
	return s.payloads[url], nil
}

func newRouter(t *testing.T, fetcher feed.Fetcher) (*gin.Engine, catalog.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewStore(testutil.DB(t), testutil.Logger(t))
	importer := feed.NewImporter(fetcher, store, testIOSURL, testAndroidURL, testutil.Logger(t))
	games := handler.NewGameHandler(store, importer, testutil.Logger(t))

	router := gin.New()
	api := router.Group("/api")
	gameRoutes := api.Group("/games")
	gameRoutes.GET("", games.ListGames)
	gameRoutes.POST("", games.CreateGame)
	gameRoutes.POST("/search", games.SearchGames)
	gameRoutes.POST("/populate", games.PopulateGames)
	gameRoutes.PUT("/:id", games.UpdateGame)
	gameRoutes.DELETE("/:id", games.DeleteGame)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateGameEndpoint(t *testing.T) {
	router, _ := newRouter(t, &stubFetcher{})

	rec := doJSON(t, router, http.MethodPost, "/api/games", gin.H{
		"name":        "Dragon Quest",
		"platform":    "iOS",
		"storeId":     "490367050",
		"isPublished": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var game models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.NotZero(t, game.ID)
	assert.Equal(t, "Dragon Quest", game.Name)
	assert.Equal(t, models.PlatformIOS, game.Platform)
}

func TestCreateGameRejectsMissingFields(t *testing.T) {
	router, _ := newRouter(t, &stubFetcher{})

	rec := doJSON(t, router, http.MethodPost, "/api/games", gin.H{"platform": "iOS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/games", gin.H{"name": "X", "platform": "Amiga"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	router, store := newRouter(t, &stubFetcher{})
	ctx := context.Background()

	for _, fields := range []catalog.Fields{
		{Name: "Dragon Quest", Platform: models.PlatformIOS},
		{Name: "Solitaire", Platform: models.PlatformAndroid},
	} {
		_, err := store.Create(ctx, fields)
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/games/search", gin.H{"name": "Drag"})
	require.Equal(t, http.StatusOK, rec.Code)

	var games []models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Dragon Quest", games[0].Name)

	// Empty criteria match everything.
	rec = doJSON(t, router, http.MethodPost, "/api/games/search", gin.H{})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	assert.Len(t, games, 2)
}

func TestUpdateGameNotFound(t *testing.T) {
	router, _ := newRouter(t, &stubFetcher{})

	rec := doJSON(t, router, http.MethodPut, "/api/games/42", gin.H{"name": "X", "platform": "iOS"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGameEndpoint(t *testing.T) {
	router, store := newRouter(t, &stubFetcher{})

	created, err := store.Create(context.Background(), catalog.Fields{Name: "Tetris", Platform: models.PlatformIOS})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/games/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]uint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, created.ID, body["id"])

	rec = doJSON(t, router, http.MethodDelete, "/api/games/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPopulateEndpoint(t *testing.T) {
	fetcher := &stubFetcher{payloads: map[string][][]feed.RawEntry{
		testIOSURL: {
			{{Name: "A", AppID: float64(1)}},
			{{Name: "B", AppID: float64(2)}},
		},
		testAndroidURL: {
			{{Name: "C", AppID: float64(3)}},
		},
	}}
	router, store := newRouter(t, fetcher)

	rec := doJSON(t, router, http.MethodPost, "/api/games/populate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.PopulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)

	// Re-running with identical feed content adds nothing.
	rec = doJSON(t, router, http.MethodPost, "/api/games/populate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)

	games, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 3)
}

func TestPopulateEndpointFeedFailure(t *testing.T) {
	fetcher := &stubFetcher{
		payloads: map[string][][]feed.RawEntry{
			testAndroidURL: {{{Name: "C", AppID: float64(3)}}},
		},
		errs: map[string]error{
			testIOSURL: &feed.FetchError{URL: testIOSURL, Err: errors.New("connection refused")},
		},
	}
	router, store := newRouter(t, fetcher)

	rec := doJSON(t, router, http.MethodPost, "/api/games/populate", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	games, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}
