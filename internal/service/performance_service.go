package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/repository"
)

// PerformanceService recomputa la proyección de rendimiento por agente.
type PerformanceService struct {
	logger      *zap.Logger
	picks       repository.PickRepository
	performance repository.PerformanceRepository
	now         func() time.Time
}

func NewPerformanceService(logger *zap.Logger, picks repository.PickRepository, performance repository.PerformanceRepository) *PerformanceService {
	return &PerformanceService{
		logger:      logger,
		picks:       picks,
		performance: performance,
		now:         time.Now,
	}
}

// Recompute pliega el historial liquidado completo y reescribe la fila de
// cache. Idempotente: mismo historial, misma fila.
func (s *PerformanceService) Recompute(ctx context.Context, agentID string) error {
	settled, err := s.picks.ListSettledByAgent(ctx, agentID)
	if err != nil {
		return err
	}

	cache := FoldPerformance(agentID, settled)
	cache.ComputedAt = s.now().UTC()
	return s.performance.Upsert(ctx, cache)
}

// GetPerformance lee la cache del agente; sin fila devuelve la proyección en
// cero, coherente con "cache == fold(picks)" para un historial vacío.
func (s *PerformanceService) GetPerformance(ctx context.Context, agentID string) (domain.PerformanceCache, error) {
	cache, err := s.performance.GetByAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerformanceCache{AgentID: agentID}, nil
		}
		return domain.PerformanceCache{}, err
	}
	return cache, nil
}

// FoldPerformance computa la proyección desde picks liquidados en orden de
// liquidación ascendente. Rachas: won incrementa, lost resetea, push es
// neutro.
func FoldPerformance(agentID string, settled []domain.Pick) domain.PerformanceCache {
	cache := domain.PerformanceCache{AgentID: agentID}

	running := 0
	for _, pick := range settled {
		cache.TotalPicks++
		settlement := SettleUnits(pick.Result, pick.Odds, pick.Stake)
		cache.NetUnits += settlement.NetUnits

		switch pick.Result {
		case domain.ResultWon:
			cache.Wins++
			running++
			if running > cache.BestStreak {
				cache.BestStreak = running
			}
		case domain.ResultLost:
			cache.Losses++
			running = 0
		case domain.ResultPush:
			cache.Pushes++
		}
	}
	cache.CurrentStreak = running

	if graded := cache.Wins + cache.Losses; graded > 0 {
		rate := float64(cache.Wins) / float64(graded)
		cache.WinRate = &rate
	}
	return cache
}
