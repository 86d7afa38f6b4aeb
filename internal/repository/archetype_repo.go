package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pickslate/internal/domain"
)

type ArchetypeRepository interface {
	ListActive(ctx context.Context) ([]domain.PresetArchetype, error)
	GetByID(ctx context.Context, id string) (domain.PresetArchetype, error)
}

type PgArchetypeRepository struct {
	pool *pgxpool.Pool
}

func NewPgArchetypeRepository(pool *pgxpool.Pool) *PgArchetypeRepository {
	return &PgArchetypeRepository{pool: pool}
}

const archetypeColumns = `
	id, name, description, emoji, default_sports,
	risk_tolerance, underdog_lean, confidence_threshold, trust_model, trust_polymarket,
	chase_value, skip_weak_slates, fade_public, weather_impacts_totals, fade_back_to_backs,
	display_order, is_active
`

func (r *PgArchetypeRepository) ListActive(ctx context.Context) ([]domain.PresetArchetype, error) {
	const query = `
		SELECT ` + archetypeColumns + `
		FROM preset_archetypes
		WHERE is_active
		ORDER BY display_order ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var archetypes []domain.PresetArchetype
	for rows.Next() {
		var (
			a      domain.PresetArchetype
			sports []string
		)
		err := rows.Scan(
			&a.ID, &a.Name, &a.Description, &a.Emoji, &sports,
			&a.Personality.RiskTolerance, &a.Personality.UnderdogLean, &a.Personality.ConfidenceThreshold,
			&a.Personality.TrustModel, &a.Personality.TrustPolymarket,
			&a.Personality.ChaseValue, &a.Personality.SkipWeakSlates, &a.Personality.FadePublic,
			&a.Personality.WeatherImpactTotals, &a.Personality.FadeBackToBacks,
			&a.DisplayOrder, &a.IsActive,
		)
		if err != nil {
			return nil, err
		}
		a.DefaultSports = stringsToSports(sports)
		archetypes = append(archetypes, a)
	}
	return archetypes, rows.Err()
}

func (r *PgArchetypeRepository) GetByID(ctx context.Context, id string) (domain.PresetArchetype, error) {
	const query = `
		SELECT ` + archetypeColumns + `
		FROM preset_archetypes
		WHERE id = $1
	`
	var (
		a      domain.PresetArchetype
		sports []string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Description, &a.Emoji, &sports,
		&a.Personality.RiskTolerance, &a.Personality.UnderdogLean, &a.Personality.ConfidenceThreshold,
		&a.Personality.TrustModel, &a.Personality.TrustPolymarket,
		&a.Personality.ChaseValue, &a.Personality.SkipWeakSlates, &a.Personality.FadePublic,
		&a.Personality.WeatherImpactTotals, &a.Personality.FadeBackToBacks,
		&a.DisplayOrder, &a.IsActive,
	)
	if err != nil {
		return domain.PresetArchetype{}, err
	}
	a.DefaultSports = stringsToSports(sports)
	return a, nil
}
