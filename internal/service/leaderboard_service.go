package service

import (
	"context"

	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/repository"
)

// LeaderboardService compone el join de performance con el ranker puro y la
// cache de lectura.
type LeaderboardService struct {
	logger      *zap.Logger
	performance repository.PerformanceRepository
	cache       LeaderboardCache
}

func NewLeaderboardService(logger *zap.Logger, performance repository.PerformanceRepository, cache LeaderboardCache) *LeaderboardService {
	if cache == nil {
		cache = NewNoopLeaderboardCache()
	}
	return &LeaderboardService{
		logger:      logger,
		performance: performance,
		cache:       cache,
	}
}

func (s *LeaderboardService) Rank(ctx context.Context, sport *domain.Sport, opts RankOptions) ([]domain.LeaderboardEntry, error) {
	key := LeaderboardCacheKey(sport, opts)
	if ranked, ok := s.cache.Get(ctx, key); ok {
		return ranked, nil
	}

	entries, err := s.performance.ListLeaderboardEntries(ctx, sport)
	if err != nil {
		return nil, err
	}

	ranked := RankLeaderboard(entries, opts)
	s.cache.Set(ctx, key, ranked)
	return ranked, nil
}
