package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/repository"
	"pickslate/internal/sportsfeed"
)

// SettlementService barre picks pendientes cuyos juegos ya terminaron y los
// gradúa exactamente una vez.
type SettlementService struct {
	logger      *zap.Logger
	picks       repository.PickRepository
	results     sportsfeed.ResultFeed
	performance *PerformanceService
	grace       time.Duration
	now         func() time.Time
}

func NewSettlementService(logger *zap.Logger, picks repository.PickRepository, results sportsfeed.ResultFeed, performance *PerformanceService, grace time.Duration) *SettlementService {
	if grace <= 0 {
		grace = 72 * time.Hour
	}
	return &SettlementService{
		logger:      logger,
		picks:       picks,
		results:     results,
		performance: performance,
		grace:       grace,
		now:         time.Now,
	}
}

// SweepStats resume un pase de liquidación.
type SweepStats struct {
	Settled int `json:"settled"`
	Skipped int `json:"skipped"`
	Flagged int `json:"flagged"`
	Errors  int `json:"errors"`
}

// Sweep procesa todos los pendientes. Errores por pick se aíslan: se loguean
// y el pase continúa; nunca se adivina un resultado.
func (s *SettlementService) Sweep(ctx context.Context) (SweepStats, error) {
	pending, err := s.picks.ListPending(ctx)
	if err != nil {
		return SweepStats{}, err
	}

	var stats SweepStats
	touched := make(map[string]bool)

	for _, pick := range pending {
		score, err := s.results.GetResult(ctx, pick.GameID)
		if err != nil {
			s.logger.Warn("result feed failed", zap.String("pick_id", pick.ID), zap.String("game_id", pick.GameID), zap.Error(err))
			stats.Errors++
			continue
		}
		if score == nil {
			// Sin resultado final todavía; pasada la gracia queda marcado
			// para revisión manual, nunca se gradúa a ciegas.
			if !pick.ReviewFlagged && s.now().UTC().Sub(pick.CreatedAt) > s.grace {
				if err := s.picks.FlagForReview(ctx, pick.ID); err != nil {
					s.logger.Warn("flag for review failed", zap.String("pick_id", pick.ID), zap.Error(err))
					stats.Errors++
					continue
				}
				stats.Flagged++
			} else {
				stats.Skipped++
			}
			continue
		}

		outcome, ok := GradePick(pick, *score)
		if !ok {
			s.logger.Warn("ungradeable pick", zap.String("pick_id", pick.ID), zap.String("bet_type", string(pick.BetType)), zap.String("side", string(pick.Side)))
			if err := s.picks.FlagForReview(ctx, pick.ID); err == nil {
				stats.Flagged++
			} else {
				stats.Errors++
			}
			continue
		}

		settlement := SettleUnits(outcome, pick.Odds, pick.Stake)
		claimed, err := s.picks.Settle(ctx, pick.ID, outcome, settlement.NetUnits, s.now().UTC())
		if err != nil {
			s.logger.Warn("settle failed", zap.String("pick_id", pick.ID), zap.Error(err))
			stats.Errors++
			continue
		}
		if !claimed {
			// Otro sweeper concurrente ya liquidó este pick.
			stats.Skipped++
			continue
		}
		stats.Settled++
		touched[pick.AgentID] = true
	}

	for agentID := range touched {
		if err := s.performance.Recompute(ctx, agentID); err != nil {
			s.logger.Warn("performance recompute failed", zap.String("agent_id", agentID), zap.Error(err))
			stats.Errors++
		}
	}

	return stats, nil
}

// ListFlagged devuelve los picks pendientes marcados para revisión manual.
func (s *SettlementService) ListFlagged(ctx context.Context) ([]domain.Pick, error) {
	return s.picks.ListFlagged(ctx)
}

// GradePick resuelve won/lost/push contra el marcador final según el mercado
// y lado registrados. ok=false cuando la combinación no es graduable.
func GradePick(pick domain.Pick, score domain.FinalScore) (domain.PickResult, bool) {
	switch pick.BetType {
	case domain.BetMoneyline:
		margin := score.HomeScore - score.AwayScore
		switch pick.Side {
		case domain.SideHome:
			return compareMargin(float64(margin)), true
		case domain.SideAway:
			return compareMargin(float64(-margin)), true
		}
	case domain.BetSpread:
		// La línea es el handicap del lado tomado (p.ej. -3.5).
		switch pick.Side {
		case domain.SideHome:
			return compareMargin(float64(score.HomeScore) + pick.Line - float64(score.AwayScore)), true
		case domain.SideAway:
			return compareMargin(float64(score.AwayScore) + pick.Line - float64(score.HomeScore)), true
		}
	case domain.BetTotal:
		total := float64(score.HomeScore + score.AwayScore)
		switch pick.Side {
		case domain.SideOver:
			return compareMargin(total - pick.Line), true
		case domain.SideUnder:
			return compareMargin(pick.Line - total), true
		}
	}
	return domain.ResultPending, false
}

func compareMargin(margin float64) domain.PickResult {
	switch {
	case margin > 0:
		return domain.ResultWon
	case margin < 0:
		return domain.ResultLost
	default:
		return domain.ResultPush
	}
}
