package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pickslate/internal/service"
)

const authUserKey = "auth_user_id"

// JWTAuthMiddleware valida el bearer token externo y guarda el user id del
// llamador en el contexto.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Next()
	}
}

// AuthUserID obtiene el user id autenticado desde el contexto.
func AuthUserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}
