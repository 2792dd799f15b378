package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDKey is the gin context key under which the authenticated user id is stored.
const userIDKey = "auth.userID"

// Middleware verifies the bearer token on every request and stores the
// authenticated user id in the gin context. Websocket upgrades may carry the
// token as a ?token= query parameter instead, since browser websocket
// clients cannot set headers.
func Middleware(mgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := mgr.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Middleware.
func UserID(c *gin.Context) string {
	v, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
