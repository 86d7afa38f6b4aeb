package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/service"
)

// AgentHandler mantiene dependencias para endpoints de agentes.
type AgentHandler struct {
	logger *zap.Logger
	agents *service.AgentService
}

func NewAgentHandler(logger *zap.Logger, agents *service.AgentService) *AgentHandler {
	return &AgentHandler{
		logger: logger,
		agents: agents,
	}
}

type agentRequest struct {
	Name             string                    `json:"name"`
	Emoji            string                    `json:"emoji"`
	PrimaryColor     string                    `json:"primary_color"`
	PreferredSports  []domain.Sport            `json:"preferred_sports"`
	ArchetypeID      string                    `json:"archetype_id"`
	Personality      domain.PersonalityParams  `json:"personality"`
	Insights         domain.CustomInsights     `json:"insights"`
	AutoGenerate     bool                      `json:"auto_generate"`
	IsWidgetFavorite bool                      `json:"is_widget_favorite"`
}

// CreateAgent maneja POST /agents.
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	agent, err := h.agents.CreateAgent(c.Request.Context(), userID, service.CreateAgentInput{
		Name:             req.Name,
		Emoji:            req.Emoji,
		PrimaryColor:     req.PrimaryColor,
		PreferredSports:  req.PreferredSports,
		ArchetypeID:      req.ArchetypeID,
		Personality:      req.Personality,
		Insights:         req.Insights,
		AutoGenerate:     req.AutoGenerate,
		IsWidgetFavorite: req.IsWidgetFavorite,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrNoSports),
			errors.Is(err, service.ErrInvalidSport), errors.Is(err, service.ErrUnknownArchetype):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrCapacityExceeded):
			c.JSON(http.StatusConflict, gin.H{"error": "agent limit reached for your tier"})
		default:
			h.logger.Error("create agent failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create agent"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

type updateAgentRequest struct {
	Name             *string                   `json:"name"`
	Emoji            *string                   `json:"emoji"`
	PrimaryColor     *string                   `json:"primary_color"`
	PreferredSports  []domain.Sport            `json:"preferred_sports"`
	Personality      *domain.PersonalityParams `json:"personality"`
	Insights         *domain.CustomInsights    `json:"insights"`
	IsActive         *bool                     `json:"is_active"`
	AutoGenerate     *bool                     `json:"auto_generate"`
	IsWidgetFavorite *bool                     `json:"is_widget_favorite"`
}

// UpdateAgent maneja PATCH /agents/:id.
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req updateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	agent, err := h.agents.UpdateAgent(c.Request.Context(), userID, c.Param("id"), service.UpdateAgentInput{
		Name:             req.Name,
		Emoji:            req.Emoji,
		PrimaryColor:     req.PrimaryColor,
		PreferredSports:  req.PreferredSports,
		Personality:      req.Personality,
		Insights:         req.Insights,
		IsActive:         req.IsActive,
		AutoGenerate:     req.AutoGenerate,
		IsWidgetFavorite: req.IsWidgetFavorite,
	})
	if err != nil {
		h.writeAgentError(c, err, "update agent failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// DeleteAgent maneja DELETE /agents/:id.
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	if err := h.agents.DeleteAgent(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeAgentError(c, err, "delete agent failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListAgents maneja GET /agents y devuelve los agentes del llamador.
func (h *AgentHandler) ListAgents(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	agents, err := h.agents.ListAgents(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list agents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list agents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

// GetAgent maneja GET /agents/:id.
func (h *AgentHandler) GetAgent(c *gin.Context) {
	userID, ok := AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	agent, err := h.agents.GetAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeAgentError(c, err, "get agent failed")
		return
	}
	// Los agentes privados sólo los ve su dueño.
	if !agent.IsPublic && agent.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

// ListArchetypes maneja GET /archetypes.
func (h *AgentHandler) ListArchetypes(c *gin.Context) {
	archetypes, err := h.agents.ListPresetArchetypes(c.Request.Context())
	if err != nil {
		h.logger.Error("list archetypes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list archetypes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archetypes": archetypes})
}

func (h *AgentHandler) writeAgentError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrAgentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the agent owner"})
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrNoSports), errors.Is(err, service.ErrInvalidSport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
