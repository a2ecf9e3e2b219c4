package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-tracker/internal/api"
	"media-tracker/internal/core/catalog"
	"media-tracker/internal/core/history"
	"media-tracker/internal/core/identity"
	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger needs the loaded config.
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("redis_addr", cfg.Redis.Addr),
		zap.Int("history_limit", cfg.History.Limit),
	)

	historyStore, err := history.NewRedisStore(&cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize history store", zap.Error(err))
	}
	defer historyStore.Close()

	sessionResolver, err := identity.NewRedisResolver(&cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize session resolver", zap.Error(err))
	}
	defer sessionResolver.Close()

	resultCache := catalog.NewResultCache(&cfg.Cache)
	if cfg.Cache.Enabled && resultCache == nil {
		common.LogFatal("Failed to initialize verification cache")
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	router, err := api.SetupRouter(cfg, historyStore, sessionResolver, resultCache)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
