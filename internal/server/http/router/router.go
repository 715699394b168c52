package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/profilehub/internal/config"
	"github.com/polkiloo/profilehub/internal/server/http/handlers"
	"github.com/polkiloo/profilehub/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OnboardingFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	engine.Use(middleware.LimitBody(cfg.MaxUploadBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	userHandler := handlers.NewUserHandler(facade, logger)
	assetHandler := handlers.NewAssetHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)

	engine.POST("/auth/register", userHandler.Register)
	engine.GET("/assets/:name", assetHandler.Get)
	engine.GET("/health", healthHandler.Check)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
