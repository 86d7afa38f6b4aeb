package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickslate/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	agentH *AgentHandler,
	generationH *GenerationHandler,
	leaderboardH *LeaderboardHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Lecturas públicas.
	r.GET("/leaderboard", leaderboardH.Rank)
	r.GET("/archetypes", agentH.ListArchetypes)
	r.GET("/agents/:id/performance", generationH.GetPerformance)

	// Operaciones del dueño, detrás del token externo.
	auth := r.Group("/", JWTAuthMiddleware(jwtSvc))
	auth.POST("/agents", agentH.CreateAgent)
	auth.GET("/agents", agentH.ListAgents)
	auth.GET("/agents/:id", agentH.GetAgent)
	auth.PATCH("/agents/:id", agentH.UpdateAgent)
	auth.DELETE("/agents/:id", agentH.DeleteAgent)
	auth.POST("/agents/:id/generate", generationH.Generate)
	auth.GET("/picks/flagged", generationH.ListFlagged)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
