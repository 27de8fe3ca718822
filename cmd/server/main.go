package main

import (
	"log"
	"net/http"
	"time"

	"gamedex/backend/internal/catalog"
	"gamedex/backend/internal/config"
	"gamedex/backend/internal/database"
	"gamedex/backend/internal/feed"
	"gamedex/backend/internal/handler"
	applog "gamedex/backend/internal/logger"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "gamedex/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Gamedex API
// @version         1.0
// @description     Mobile game catalog with bulk ingestion from the platform top-games feeds.
// @host            localhost:8080
// @BasePath        /api
func main() {
	baseLog, err := applog.New(config.AppConfig.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer baseLog.Sync()

	// Connect to the database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		baseLog.Fatal("failed to connect to database", "error", err)
	}

	// Wire the catalog store, the feed importer and the handlers.
	store := catalog.NewStore(db, baseLog)
	fetcher := feed.NewHTTPFetcher(time.Duration(config.AppConfig.FeedFetchTimeout)*time.Second, baseLog)
	importer := feed.NewImporter(fetcher, store, config.AppConfig.IOSFeedURL, config.AppConfig.AndroidFeedURL, baseLog)
	games := handler.NewGameHandler(store, importer, baseLog)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API routes
	api := router.Group("/api")
	{
		gameRoutes := api.Group("/games")
		{
			gameRoutes.GET("", games.ListGames)
			gameRoutes.POST("", games.CreateGame)
			gameRoutes.POST("/search", games.SearchGames)
			gameRoutes.POST("/populate", games.PopulateGames)
			gameRoutes.PUT("/:id", games.UpdateGame)
			gameRoutes.DELETE("/:id", games.DeleteGame)
		}
	}

	baseLog.Info("server listening", "addr", config.AppConfig.ServerAddr)
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
