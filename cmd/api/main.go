package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/xpanvictor/ticnote/internal/app"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/internal/database"
	"github.com/xpanvictor/ticnote/internal/server"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// @title Ticnote API
// @version 1.0
// @description Upload recordings, get transcriptions and summaries, and ask questions about them.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	logger := Logger.New(cfg.Debug)
	defer logger.Sync()
	logger.Infof("Logger initialized (env %s)", cfg.Env)

	config.Watch(viper.GetViper(), func(updated *config.Settings, err error) {
		if err != nil {
			logger.Warnf("ignoring config change: %v", err)
			return
		}
		logger.SetDebug(updated.Debug)
		logger.Infof("config reloaded, debug=%t", updated.Debug)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// redis is only needed to fan broadcasts out across instances
	var rc *redis.Client
	if cfg.Redis.Addr != "" {
		rc, err = database.NewRedis(cfg.Redis)
		if err != nil {
			logger.Fatalf("Failed to connect to redis: %v", err)
		}
	}

	application, err := app.NewApp(ctx, cfg, logger, afero.NewOsFs(), rc)
	if err != nil {
		logger.Fatalf("Failed to wire application: %v", err)
	}
	defer application.Close()

	go func() {
		if err := application.Run(ctx); err != nil {
			logger.Errorf("broadcast relay stopped: %v", err)
		}
	}()

	// compose router
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	server.InitializeRoutes(router, application.GetServerDependencies())

	// listen with graceful exit
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router.Handler(),
	}
	go func() {
		logger.Infof("Server listening on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server exiting: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
	logger.Info("Shutdown system")
}
