package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// AuthHandler handles login requests
type AuthHandler struct {
	authService auth.AuthService
	logger      *Logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService auth.AuthService, logger *Logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles account login
// @Summary Login
// @Description Exchange account credentials for an access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	identity, token, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		h.logger.Errorf("login error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message:  "Login successful",
		Identity: *identity,
		Token:    *token,
	})
}
