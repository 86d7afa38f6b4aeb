package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickslate/internal/service"
)

// GenerationHandler mantiene dependencias para generación y performance.
type GenerationHandler struct {
	logger      *zap.Logger
	agents      *service.AgentService
	generation  *service.GenerationService
	performance *service.PerformanceService
	settlement  *service.SettlementService
}

func NewGenerationHandler(logger *zap.Logger, agents *service.AgentService, generation *service.GenerationService, performance *service.PerformanceService, settlement *service.SettlementService) *GenerationHandler {
	return &GenerationHandler{
		logger:      logger,
		agents:      agents,
		generation:  generation,
		performance: performance,
		settlement:  settlement,
	}
}

// Generate maneja POST /agents/:id/generate. Con ?strict=true el conflicto de
// idempotencia se devuelve como error en lugar de no-op.
func (h *GenerationHandler) Generate(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	agentID := c.Param("id")
	agent, err := h.agents.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		h.logger.Error("get agent failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if agent.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the agent owner"})
		return
	}

	strict := c.Query("strict") == "true"
	result, err := h.generation.Generate(c.Request.Context(), agentID, strict)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyGenerated):
			c.JSON(http.StatusConflict, gin.H{"error": "picks already generated for today"})
		case errors.Is(err, service.ErrAgentInactive), errors.Is(err, service.ErrNoSports):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			h.logger.Error("generation failed", zap.String("agent_id", agentID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
		}
		return
	}

	status := http.StatusCreated
	if result.AlreadyGenerated {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"result": result})
}

// ListFlagged maneja GET /picks/flagged: picks sin resultado final pasada la
// gracia de liquidación, pendientes de resolución manual.
func (h *GenerationHandler) ListFlagged(c *gin.Context) {
	if _, ok := AuthUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	picks, err := h.settlement.ListFlagged(c.Request.Context())
	if err != nil {
		h.logger.Error("list flagged failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch flagged picks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"picks": picks})
}

// GetPerformance maneja GET /agents/:id/performance.
func (h *GenerationHandler) GetPerformance(c *gin.Context) {
	cache, err := h.performance.GetPerformance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("get performance failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch performance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"performance": cache})
}
