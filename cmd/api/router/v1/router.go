package v1

import (
	"go-parley/internal/auth"
	httpHandler "go-parley/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, jwt *auth.JWTManager, deps httpHandler.Deps) {
	v1 := r.Group("/api/v1")
	// Every v1 endpoint requires an authenticated caller
	v1.Use(auth.Middleware(jwt))
	httpHandler.RegisterRoutes(v1, deps)
}
