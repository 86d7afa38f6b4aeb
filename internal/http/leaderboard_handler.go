package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/service"
)

// LeaderboardHandler expone el ranking público de agentes.
type LeaderboardHandler struct {
	logger      *zap.Logger
	leaderboard *service.LeaderboardService
}

func NewLeaderboardHandler(logger *zap.Logger, leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		logger:      logger,
		leaderboard: leaderboard,
	}
}

// Rank maneja GET /leaderboard?sport=&sort=&min10=&limit=.
func (h *LeaderboardHandler) Rank(c *gin.Context) {
	var sport *domain.Sport
	if raw := c.Query("sport"); raw != "" {
		s := domain.Sport(raw)
		if !domain.ValidSport(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sport"})
			return
		}
		sport = &s
	}

	mode := domain.SortMode(c.DefaultQuery("sort", string(domain.SortOverall)))
	if !domain.ValidSortMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort mode"})
		return
	}

	limit := 25
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	opts := service.RankOptions{
		SortMode:           mode,
		ExcludeUnder10Pick: c.Query("min10") == "true",
		Limit:              limit,
	}

	entries, err := h.leaderboard.Rank(c.Request.Context(), sport, opts)
	if err != nil {
		h.logger.Error("leaderboard rank failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not rank leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sort":    mode,
		"entries": entries,
	})
}
