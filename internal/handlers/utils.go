package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/ticnote/internal/domains/auth"
)

const identityKey = "identity"

// ExtractIdentity returns the caller set by AuthMiddleware. It reports false
// when the route is not protected.
func ExtractIdentity(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok && identity != nil
}

// callerName is used in log lines only.
func callerName(c *gin.Context) string {
	if identity, ok := ExtractIdentity(c); ok {
		return identity.Username
	}
	return "anonymous"
}
