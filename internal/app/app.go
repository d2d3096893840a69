package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-redis/redis"
	"github.com/spf13/afero"
	"github.com/xpanvictor/ticnote/internal/config"
	"github.com/xpanvictor/ticnote/internal/domains/asset"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
	"github.com/xpanvictor/ticnote/internal/domains/insight"
	"github.com/xpanvictor/ticnote/internal/domains/pipeline"
	"github.com/xpanvictor/ticnote/internal/handlers"
	"github.com/xpanvictor/ticnote/internal/handlers/websocket"
	"github.com/xpanvictor/ticnote/internal/server"
	"github.com/xpanvictor/ticnote/pkg/Logger"
	"github.com/xpanvictor/ticnote/pkg/assistant"
	"github.com/xpanvictor/ticnote/pkg/io/stt"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	// RC is nil when no redis address is configured.
	RC *redis.Client
	FS afero.Fs

	Generator   assistant.Generator
	Transcriber stt.Transcriber
	Store       *asset.Store
	Insight     insight.Service
	Pipeline    *pipeline.Pipeline
	AuthService auth.AuthService

	Connections *websocket.ConnectionManager
	Relay       *websocket.RedisRelay
	WebSocket   *websocket.WebSocketHandler
	ServerDeps  server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, fs afero.Fs, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		RC:     rc,
		FS:     fs,
	}

	if err := app.setupDependencies(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context) error {
	// 1. providers
	factory := NewProviderFactory(a.Config, a.Logger)
	generator, err := factory.CreateGenerator(ctx)
	if err != nil {
		return err
	}
	transcriber, err := factory.CreateTranscriber()
	if err != nil {
		return err
	}
	a.Generator = generator
	a.Transcriber = transcriber

	// 2. storage
	a.Store = asset.NewStore(a.FS, a.Config.Server.UploadDir, a.Logger)
	if a.Config.ObjectStore.Endpoint != "" {
		mirror, err := asset.NewMinioMirror(ctx, a.Config.ObjectStore)
		if err != nil {
			return fmt.Errorf("failed to set up object store mirror: %w", err)
		}
		a.Store.WithMirror(mirror)
		a.Logger.Infof("mirroring uploads to %s/%s", a.Config.ObjectStore.Endpoint, a.Config.ObjectStore.Bucket)
	}

	// 3. services
	timeout := a.Config.Providers.Timeout
	a.Insight = insight.NewService(a.Generator, timeout, a.Logger)
	a.Pipeline = pipeline.New(a.Store, a.Transcriber, a.Insight, timeout, a.Logger)

	// 4. listeners
	a.Connections = websocket.NewConnectionManager(a.Logger)
	var broadcaster handlers.Broadcaster = a.Connections
	if a.RC != nil {
		a.Relay = websocket.NewRedisRelay(a.RC, a.Config.Redis.Channel, a.Connections, a.Logger)
		broadcaster = a.Relay
	}

	// 5. auth, optional
	var verifier auth.Verifier
	var authHandler *handlers.AuthHandler
	if a.Config.Auth.Enabled {
		tokenTTLHours := a.Config.Auth.TokenTTLHours
		if tokenTTLHours == 0 {
			tokenTTLHours = 24
		}

		a.AuthService = auth.NewAuthService(
			auth.NewAccountRepository(a.Config.Auth.Accounts),
			a.Logger,
			a.Config.Auth.JWTSecret,
			time.Duration(tokenTTLHours)*time.Hour,
		)
		verifier = a.AuthService
		authHandler = handlers.NewAuthHandler(a.AuthService, a.Logger)
	}

	a.WebSocket = websocket.NewWebSocketHandler(a.Logger, a.Insight, verifier, a.Connections)

	a.ServerDeps = server.Dependencies{
		Logger:           a.Logger,
		Uploads:          afero.NewHttpFs(a.FS).Dir(a.Config.Server.UploadDir),
		AudioHandler:     handlers.NewAudioHandler(a.Pipeline, broadcaster, a.Config.Server.MaxUploadBytes(), a.Logger),
		InsightHandler:   handlers.NewInsightHandler(a.Insight, a.Logger),
		WebSocketHandler: a.WebSocket,
		AuthHandler:      authHandler,
		Verifier:         verifier,
	}

	return nil
}

// Run blocks relaying broadcasts between instances until ctx is done. It
// returns immediately when redis is not configured.
func (a *App) Run(ctx context.Context) error {
	if a.Relay == nil {
		return nil
	}
	return a.Relay.Run(ctx)
}

// Close releases listeners and provider clients.
func (a *App) Close() error {
	var firstErr error
	if a.Relay != nil {
		if err := a.Relay.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.WebSocket != nil {
		if err := a.WebSocket.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if closer, ok := a.Generator.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.RC != nil {
		if err := a.RC.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
