package api

import (
	"context"
	"net/http"
	"time"

	contentHandler "media-tracker/internal/api/handlers/content"
	"media-tracker/internal/api/handlers/health"
	"media-tracker/internal/api/middleware"
	"media-tracker/internal/core/ai/openrouter"
	"media-tracker/internal/core/catalog"
	"media-tracker/internal/core/generate"
	"media-tracker/internal/core/history"
	"media-tracker/internal/core/identity"
	"media-tracker/internal/core/recommend"
	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 120 * time.Second
	// Request body limit (1MB); the API only takes small GET/JSON traffic.
	maxBodySize = 1 << 20
)

// SetupRouter assembles the gin engine. The Redis-backed collaborators and
// the verification cache are constructed by the caller so their lifecycle
// outlives the router.
func SetupRouter(cfg *config.Config, store history.Store, resolver identity.Resolver, cache *catalog.ResultCache) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	modelClient := openrouter.NewClient(&cfg.OpenRouter)
	generator := generate.NewGenerator(modelClient)

	movieCatalog := catalog.NewMovieCatalog(&cfg.MovieCat)
	bookCatalog := catalog.NewBookCatalog(&cfg.BookCat)
	verifier := catalog.NewService(movieCatalog, bookCatalog, cache)

	curator := recommend.NewService(store, generator, verifier, cfg.History.Limit)

	common.LogInfo("Recommendation services initialized successfully",
		zap.Bool("cache_initialized", cache != nil),
		zap.String("environment", cfg.App.Env),
	)

	// Per-request timeout wrapper.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck(cfg))
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	{
		handler := contentHandler.NewHandler(curator)

		contentGroup := api.Group("/content")
		contentGroup.Use(middleware.Auth(resolver))
		{
			contentGroup.GET("/recommend", handler.HandleRecommend)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
