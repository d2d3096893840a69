package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/xpanvictor/ticnote/docs"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
	"github.com/xpanvictor/ticnote/internal/handlers"
	"github.com/xpanvictor/ticnote/internal/handlers/websocket"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

const banner = "Ticnote Backend Server is Running!"

type Dependencies struct {
	Logger *Logger.Logger
	// Uploads serves stored recordings under /uploads.
	Uploads http.FileSystem

	AudioHandler     *handlers.AudioHandler
	InsightHandler   *handlers.InsightHandler
	WebSocketHandler *websocket.WebSocketHandler

	// Both nil when auth is disabled.
	AuthHandler *handlers.AuthHandler
	Verifier    auth.Verifier
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(handlers.MethodNotAllowed)

	r.Use(
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.CORSMiddleware(),
	)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, banner) })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, handlers.HealthResponse{Status: "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if dep.AuthHandler != nil {
		r.POST("/login", dep.AuthHandler.Login)
	}

	api := r.Group("")
	if dep.Verifier != nil {
		api.Use(handlers.AuthMiddleware(dep.Verifier, dep.Logger))
	}
	// the unprefixed paths are kept for older clients
	api.POST("/upload", dep.AudioHandler.Upload)
	api.POST("/api/upload", dep.AudioHandler.Upload)
	api.POST("/api/summarize", dep.InsightHandler.Summarize)
	api.POST("/ask", dep.InsightHandler.Ask)
	api.POST("/api/ask", dep.InsightHandler.Ask)
	if dep.Uploads != nil {
		api.StaticFS("/uploads", filesOnly{dep.Uploads})
	}

	dep.WebSocketHandler.RegisterRoutes(r, api)
}

// filesOnly hides directory listings of the upload directory.
type filesOnly struct {
	http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
