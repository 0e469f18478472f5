package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tunewave/music-api/internal/api/handler"
	"github.com/tunewave/music-api/internal/api/middleware"
	"github.com/tunewave/music-api/internal/core/domain"
	"github.com/tunewave/music-api/internal/core/service"
	"github.com/tunewave/music-api/internal/infrastructure/config"
	mongorepo "github.com/tunewave/music-api/internal/infrastructure/db/mongo"
	redisstore "github.com/tunewave/music-api/internal/infrastructure/db/redis"
	"github.com/tunewave/music-api/internal/infrastructure/queue"
	"github.com/tunewave/music-api/pkg/logger"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the media event dispatcher, which the caller must Start.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client) (*echo.Echo, *queue.Dispatcher) {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("music"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	profileRepo := mongorepo.NewProfileRepository(db)
	categoryRepo := mongorepo.NewCategoryRepository(db)
	songRepo := mongorepo.NewSongRepository(db)
	playlistRepo := mongorepo.NewPlaylistRepository(db)
	dedup := redisstore.NewAddSongDeduper(rdb)
	playerStore := redisstore.NewPlayerStateStore(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret, cfg.TokenTTL)
	catalogService := service.NewCatalogService(songRepo, categoryRepo, playlistRepo, userRepo, log)
	playlistService := service.NewPlaylistService(playlistRepo, songRepo, dedup, log)
	playerService := service.NewPlayerService(playerStore, playlistRepo, songRepo, log)
	userService := service.NewUserService(userRepo, profileRepo, songRepo, playlistRepo, log)

	dispatcher := queue.NewDispatcher(cfg.EventWorkers, playerService, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	songHandler := handler.NewSongHandler(catalogService)
	playlistHandler := handler.NewPlaylistHandler(playlistService)
	playerHandler := handler.NewPlayerHandler(playerService, dispatcher)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	// --- Health probes and operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Public catalog browsing ---
	e.GET("/v1/categories", categoryHandler.List)
	e.GET("/v1/categories/:id", categoryHandler.Get)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	v1.GET("/songs", songHandler.List)
	v1.GET("/songs/:id", songHandler.Get)
	v1.POST("/songs", songHandler.Create)
	v1.PUT("/songs/:id", songHandler.Update)
	v1.DELETE("/songs/:id", songHandler.Delete)

	v1.GET("/playlists", playlistHandler.List)
	v1.GET("/playlists/:id", playlistHandler.Get)
	v1.POST("/playlists", playlistHandler.Create)
	v1.PUT("/playlists/:id", playlistHandler.Update)
	v1.DELETE("/playlists/:id", playlistHandler.Delete)
	v1.POST("/playlists/:id/songs", playlistHandler.AddSong)
	v1.DELETE("/playlists/:id/songs/:songID", playlistHandler.RemoveSong)
	v1.PUT("/playlists/:id/songs/:songID/position", playlistHandler.MoveSong)

	v1.GET("/profile", userHandler.GetProfile)
	v1.PUT("/profile", userHandler.UpdateProfile)

	v1.GET("/player", playerHandler.GetState)
	v1.POST("/player/queue", playerHandler.LoadQueue)
	v1.POST("/player/toggle", playerHandler.TogglePlay)
	v1.POST("/player/next", playerHandler.Next)
	v1.POST("/player/prev", playerHandler.Prev)
	v1.PUT("/player/seek", playerHandler.Seek)
	v1.PUT("/player/volume", playerHandler.SetVolume)
	v1.PUT("/player/shuffle", playerHandler.SetShuffle)
	v1.PUT("/player/repeat", playerHandler.SetRepeat)
	v1.POST("/player/events", playerHandler.ReceiveEvent)
	v1.POST("/player/events/batch", playerHandler.ReceiveEventBatch)

	// --- Admin routes ---
	// RBAC gates on token roles; the services re-check membership against the
	// role store before privileged mutations.
	admin := v1.Group("", middleware.RBAC(domain.RoleAdmin))
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)
	admin.GET("/users", userHandler.ListUsers)
	admin.PUT("/users/:id/roles", userHandler.SetRoles)
	admin.DELETE("/users/:id", userHandler.DeleteUser)

	return e, dispatcher
}
