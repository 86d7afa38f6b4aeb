package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pickslate/internal/domain"
)

type PerformanceRepository interface {
	Upsert(ctx context.Context, cache domain.PerformanceCache) error
	GetByAgent(ctx context.Context, agentID string) (domain.PerformanceCache, error)
	ListLeaderboardEntries(ctx context.Context, sport *domain.Sport) ([]domain.LeaderboardEntry, error)
}

type PgPerformanceRepository struct {
	pool *pgxpool.Pool
}

func NewPgPerformanceRepository(pool *pgxpool.Pool) *PgPerformanceRepository {
	return &PgPerformanceRepository{pool: pool}
}

// Upsert reescribe la fila completa de forma atómica; la cache es una
// proyección y nunca se parchea campo a campo.
func (r *PgPerformanceRepository) Upsert(ctx context.Context, cache domain.PerformanceCache) error {
	const query = `
		INSERT INTO performance_cache (
			agent_id, total_picks, wins, losses, pushes, win_rate,
			net_units, current_streak, best_streak, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (agent_id) DO UPDATE SET
			total_picks = EXCLUDED.total_picks,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			pushes = EXCLUDED.pushes,
			win_rate = EXCLUDED.win_rate,
			net_units = EXCLUDED.net_units,
			current_streak = EXCLUDED.current_streak,
			best_streak = EXCLUDED.best_streak,
			computed_at = EXCLUDED.computed_at
	`
	_, err := r.pool.Exec(ctx, query,
		cache.AgentID, cache.TotalPicks, cache.Wins, cache.Losses, cache.Pushes,
		cache.WinRate, cache.NetUnits, cache.CurrentStreak, cache.BestStreak, cache.ComputedAt,
	)
	return err
}

func (r *PgPerformanceRepository) GetByAgent(ctx context.Context, agentID string) (domain.PerformanceCache, error) {
	const query = `
		SELECT agent_id, total_picks, wins, losses, pushes, win_rate,
			net_units, current_streak, best_streak, computed_at
		FROM performance_cache
		WHERE agent_id = $1
	`
	var cache domain.PerformanceCache
	err := r.pool.QueryRow(ctx, query, agentID).Scan(
		&cache.AgentID, &cache.TotalPicks, &cache.Wins, &cache.Losses, &cache.Pushes,
		&cache.WinRate, &cache.NetUnits, &cache.CurrentStreak, &cache.BestStreak, &cache.ComputedAt,
	)
	return cache, err
}

// ListLeaderboardEntries une agentes públicos con su cache; sin cache todavía
// la fila sale en cero y el ranker la filtra.
func (r *PgPerformanceRepository) ListLeaderboardEntries(ctx context.Context, sport *domain.Sport) ([]domain.LeaderboardEntry, error) {
	const query = `
		SELECT a.id, a.name, a.emoji, a.primary_color, a.preferred_sports,
			COALESCE(p.total_picks, 0), COALESCE(p.wins, 0), COALESCE(p.losses, 0),
			COALESCE(p.pushes, 0), p.win_rate, COALESCE(p.net_units, 0),
			COALESCE(p.current_streak, 0), COALESCE(p.best_streak, 0)
		FROM agent_profiles a
		LEFT JOIN performance_cache p ON p.agent_id = a.id
		WHERE a.is_public
			AND ($1::text IS NULL OR $1 = ANY(a.preferred_sports))
	`
	var sportArg interface{}
	if sport != nil {
		sportArg = string(*sport)
	}
	rows, err := r.pool.Query(ctx, query, sportArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var (
			e      domain.LeaderboardEntry
			sports []string
		)
		err := rows.Scan(
			&e.AgentID, &e.Name, &e.Emoji, &e.PrimaryColor, &sports,
			&e.TotalPicks, &e.Wins, &e.Losses, &e.Pushes, &e.WinRate,
			&e.NetUnits, &e.CurrentStreak, &e.BestStreak,
		)
		if err != nil {
			return nil, err
		}
		e.Sports = stringsToSports(sports)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
