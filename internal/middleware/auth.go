package middleware

import (
	"net/http"

	"github.com/ecophos-dev/ecophos/internal/auth"
	"github.com/ecophos-dev/ecophos/internal/models"
	"github.com/ecophos-dev/ecophos/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid session cookie and stores the caller's
// auth.Identity under types.ContextUserKey.
func AuthMiddleware(sessions *auth.Sessions) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := sessions.FromRequest(ctx.Request)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		ctx.Set(types.ContextUserKey, identity)
		ctx.Next()
	}
}

// AdminMiddleware is AuthMiddleware plus a role check.
func AdminMiddleware(sessions *auth.Sessions) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := sessions.FromRequest(ctx.Request)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if identity.Role != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admins only"})
			return
		}

		ctx.Set(types.ContextUserKey, identity)
		ctx.Next()
	}
}
