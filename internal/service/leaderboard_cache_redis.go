package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pickslate/internal/domain"
)

// LeaderboardCache guarda vistas rankeadas con TTL corto. El ranker sigue
// siendo puro; la cache vive en el borde de lectura y es opcional.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) ([]domain.LeaderboardEntry, bool)
	Set(ctx context.Context, key string, entries []domain.LeaderboardEntry)
}

// LeaderboardCacheKey arma la clave a partir de los parámetros de la vista.
func LeaderboardCacheKey(sport *domain.Sport, opts RankOptions) string {
	sportPart := "all"
	if sport != nil {
		sportPart = string(*sport)
	}
	return fmt.Sprintf("lb:%s:%s:%t:%d", sportPart, opts.SortMode, opts.ExcludeUnder10Pick, opts.Limit)
}

type noopLeaderboardCache struct{}

// NewNoopLeaderboardCache devuelve una cache que nunca acierta; se usa cuando
// redis no está configurado.
func NewNoopLeaderboardCache() LeaderboardCache {
	return noopLeaderboardCache{}
}

func (noopLeaderboardCache) Get(_ context.Context, _ string) ([]domain.LeaderboardEntry, bool) {
	return nil, false
}

func (noopLeaderboardCache) Set(_ context.Context, _ string, _ []domain.LeaderboardEntry) {}

type redisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) LeaderboardCache {
	if client == nil {
		return NewNoopLeaderboardCache()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisLeaderboardCache{
		client: client,
		ttl:    ttl,
		prefix: "pickslate:",
	}
}

func (c *redisLeaderboardCache) Get(ctx context.Context, key string) ([]domain.LeaderboardEntry, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *redisLeaderboardCache) Set(ctx context.Context, key string, entries []domain.LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	// Best effort: una cache fría no debe romper la lectura.
	c.client.Set(ctx, c.prefix+key, raw, c.ttl)
}
