package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pickslate/internal/domain"
)

// ErrCapacityExceeded se devuelve cuando el dueño ya alcanzó su límite de agentes.
var ErrCapacityExceeded = errors.New("agent capacity exceeded")

// CapacityLimits define los topes por dueño según su tier. MaxTotal en cero
// significa sin tope total: sólo cuentan los agentes activos.
type CapacityLimits struct {
	MaxActive int
	MaxTotal  int
}

type AgentRepository interface {
	CreateWithinCapacity(ctx context.Context, agent domain.AgentProfile, limits CapacityLimits) error
	GetByID(ctx context.Context, id string) (domain.AgentProfile, error)
	Update(ctx context.Context, agent domain.AgentProfile) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.AgentProfile, error)
	ListAutoGenerate(ctx context.Context) ([]domain.AgentProfile, error)
}

type PgAgentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAgentRepository(pool *pgxpool.Pool) *PgAgentRepository {
	return &PgAgentRepository{pool: pool}
}

const agentColumns = `
	id, user_id, name, emoji, primary_color, preferred_sports, archetype_id,
	risk_tolerance, underdog_lean, confidence_threshold, trust_model, trust_polymarket,
	chase_value, skip_weak_slates, fade_public, weather_impacts_totals, fade_back_to_backs,
	philosophy, perceived_edges, avoid_situations, target_situations,
	is_active, is_public, auto_generate, is_widget_favorite, created_at
`

// CreateWithinCapacity inserta el agente sólo si el dueño sigue bajo sus topes.
// El advisory lock por dueño serializa creaciones concurrentes del mismo
// usuario; sin él dos requests podrían contar capacidad disponible a la vez.
func (r *PgAgentRepository) CreateWithinCapacity(ctx context.Context, agent domain.AgentProfile, limits CapacityLimits) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, agent.UserID); err != nil {
		return err
	}

	var active, total int
	const countQuery = `
		SELECT COUNT(*) FILTER (WHERE is_active), COUNT(*)
		FROM agent_profiles
		WHERE user_id = $1
	`
	if err := tx.QueryRow(ctx, countQuery, agent.UserID).Scan(&active, &total); err != nil {
		return err
	}
	if (agent.IsActive && active >= limits.MaxActive) || (limits.MaxTotal > 0 && total >= limits.MaxTotal) {
		return ErrCapacityExceeded
	}

	const insertQuery = `
		INSERT INTO agent_profiles (` + agentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`
	if _, err := tx.Exec(ctx, insertQuery, agentArgs(agent)...); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func agentArgs(a domain.AgentProfile) []interface{} {
	var archetypeID interface{}
	if a.ArchetypeID != "" {
		archetypeID = a.ArchetypeID
	}
	return []interface{}{
		a.ID, a.UserID, a.Name, a.Emoji, a.PrimaryColor, sportsToStrings(a.PreferredSports), archetypeID,
		a.Personality.RiskTolerance, a.Personality.UnderdogLean, a.Personality.ConfidenceThreshold,
		a.Personality.TrustModel, a.Personality.TrustPolymarket,
		a.Personality.ChaseValue, a.Personality.SkipWeakSlates, a.Personality.FadePublic,
		a.Personality.WeatherImpactTotals, a.Personality.FadeBackToBacks,
		a.Insights.Philosophy, a.Insights.PerceivedEdges, a.Insights.AvoidSituations, a.Insights.TargetSituations,
		a.IsActive, a.IsPublic, a.AutoGenerate, a.IsWidgetFavorite, a.CreatedAt,
	}
}

func (r *PgAgentRepository) GetByID(ctx context.Context, id string) (domain.AgentProfile, error) {
	const query = `
		SELECT ` + agentColumns + `
		FROM agent_profiles
		WHERE id = $1
	`
	return scanAgent(r.pool.QueryRow(ctx, query, id))
}

// Update escribe únicamente los campos mutables por el dueño; is_public no se
// re-evalúa después de la creación.
func (r *PgAgentRepository) Update(ctx context.Context, agent domain.AgentProfile) error {
	const query = `
		UPDATE agent_profiles SET
			name = $2, emoji = $3, primary_color = $4, preferred_sports = $5,
			risk_tolerance = $6, underdog_lean = $7, confidence_threshold = $8,
			trust_model = $9, trust_polymarket = $10,
			chase_value = $11, skip_weak_slates = $12, fade_public = $13,
			weather_impacts_totals = $14, fade_back_to_backs = $15,
			philosophy = $16, perceived_edges = $17, avoid_situations = $18, target_situations = $19,
			is_active = $20, auto_generate = $21, is_widget_favorite = $22
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		agent.ID, agent.Name, agent.Emoji, agent.PrimaryColor, sportsToStrings(agent.PreferredSports),
		agent.Personality.RiskTolerance, agent.Personality.UnderdogLean, agent.Personality.ConfidenceThreshold,
		agent.Personality.TrustModel, agent.Personality.TrustPolymarket,
		agent.Personality.ChaseValue, agent.Personality.SkipWeakSlates, agent.Personality.FadePublic,
		agent.Personality.WeatherImpactTotals, agent.Personality.FadeBackToBacks,
		agent.Insights.Philosophy, agent.Insights.PerceivedEdges, agent.Insights.AvoidSituations,
		agent.Insights.TargetSituations,
		agent.IsActive, agent.AutoGenerate, agent.IsWidgetFavorite,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete borra el agente; picks y cache caen por FK ON DELETE CASCADE.
func (r *PgAgentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agent_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgAgentRepository) ListByUser(ctx context.Context, userID string) ([]domain.AgentProfile, error) {
	const query = `
		SELECT ` + agentColumns + `
		FROM agent_profiles
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgents(rows)
}

func (r *PgAgentRepository) ListAutoGenerate(ctx context.Context) ([]domain.AgentProfile, error) {
	const query = `
		SELECT ` + agentColumns + `
		FROM agent_profiles
		WHERE auto_generate AND is_active
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAgents(rows)
}

func collectAgents(rows pgx.Rows) ([]domain.AgentProfile, error) {
	var agents []domain.AgentProfile
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

func scanAgent(row pgx.Row) (domain.AgentProfile, error) {
	var (
		a           domain.AgentProfile
		sports      []string
		archetypeID *string
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Emoji, &a.PrimaryColor, &sports, &archetypeID,
		&a.Personality.RiskTolerance, &a.Personality.UnderdogLean, &a.Personality.ConfidenceThreshold,
		&a.Personality.TrustModel, &a.Personality.TrustPolymarket,
		&a.Personality.ChaseValue, &a.Personality.SkipWeakSlates, &a.Personality.FadePublic,
		&a.Personality.WeatherImpactTotals, &a.Personality.FadeBackToBacks,
		&a.Insights.Philosophy, &a.Insights.PerceivedEdges, &a.Insights.AvoidSituations,
		&a.Insights.TargetSituations,
		&a.IsActive, &a.IsPublic, &a.AutoGenerate, &a.IsWidgetFavorite, &a.CreatedAt,
	)
	if err != nil {
		return domain.AgentProfile{}, err
	}
	a.PreferredSports = stringsToSports(sports)
	if archetypeID != nil {
		a.ArchetypeID = *archetypeID
	}
	return a, nil
}

func sportsToStrings(sports []domain.Sport) []string {
	out := make([]string, len(sports))
	for i, s := range sports {
		out[i] = string(s)
	}
	return out
}

func stringsToSports(values []string) []domain.Sport {
	out := make([]domain.Sport, len(values))
	for i, v := range values {
		out[i] = domain.Sport(v)
	}
	return out
}
