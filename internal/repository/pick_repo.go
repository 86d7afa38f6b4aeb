package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pickslate/internal/domain"
)

// ErrDuplicateRun se devuelve cuando ya existe un run para (agente, día).
var ErrDuplicateRun = errors.New("generation run already exists for day")

type PickRepository interface {
	CreateRunWithPicks(ctx context.Context, run domain.GenerationRun, picks []domain.Pick) error
	GetRun(ctx context.Context, agentID, runDate string) (domain.GenerationRun, error)
	ListByAgentDay(ctx context.Context, agentID, runDate string) ([]domain.Pick, error)
	ListPending(ctx context.Context) ([]domain.Pick, error)
	Settle(ctx context.Context, pickID string, result domain.PickResult, netUnits float64, settledAt time.Time) (bool, error)
	FlagForReview(ctx context.Context, pickID string) error
	ListFlagged(ctx context.Context) ([]domain.Pick, error)
	ListSettledByAgent(ctx context.Context, agentID string) ([]domain.Pick, error)
}

type PgPickRepository struct {
	pool *pgxpool.Pool
}

func NewPgPickRepository(pool *pgxpool.Pool) *PgPickRepository {
	return &PgPickRepository{pool: pool}
}

const pickColumns = `
	id, agent_id, sport, game_id, bet_type, side, line, odds, stake,
	confidence, rationale, result, net_units, review_flagged,
	generation_day, created_at, settled_at
`

// CreateRunWithPicks inserta el run y su lote de picks en una transacción.
// La constraint UNIQUE (agent_id, run_date) es el candado de idempotencia:
// un segundo run del mismo día aborta todo con ErrDuplicateRun, y un fallo
// de colaborador nunca deja picks parciales porque el tx completo se revierte.
func (r *PgPickRepository) CreateRunWithPicks(ctx context.Context, run domain.GenerationRun, picks []domain.Pick) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const runQuery = `
		INSERT INTO generation_runs (id, agent_id, run_date, pick_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, runQuery, run.ID, run.AgentID, run.RunDate, run.PickCount, run.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRun
		}
		return err
	}

	const pickQuery = `
		INSERT INTO picks (` + pickColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	for _, p := range picks {
		_, err := tx.Exec(ctx, pickQuery,
			p.ID, p.AgentID, string(p.Sport), p.GameID, string(p.BetType), string(p.Side),
			p.Line, p.Odds, p.Stake, p.Confidence, p.Rationale,
			string(p.Result), p.NetUnits, p.ReviewFlagged,
			p.GenerationDay, p.CreatedAt, p.SettledAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PgPickRepository) GetRun(ctx context.Context, agentID, runDate string) (domain.GenerationRun, error) {
	const query = `
		SELECT id, agent_id, run_date, pick_count, created_at
		FROM generation_runs
		WHERE agent_id = $1 AND run_date = $2
	`
	var run domain.GenerationRun
	err := r.pool.QueryRow(ctx, query, agentID, runDate).Scan(
		&run.ID, &run.AgentID, &run.RunDate, &run.PickCount, &run.CreatedAt,
	)
	return run, err
}

func (r *PgPickRepository) ListByAgentDay(ctx context.Context, agentID, runDate string) ([]domain.Pick, error) {
	const query = `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE agent_id = $1 AND generation_day = $2
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, agentID, runDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPicks(rows)
}

func (r *PgPickRepository) ListPending(ctx context.Context) ([]domain.Pick, error) {
	const query = `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE result = 'pending'
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPicks(rows)
}

// Settle hace la transición pending -> terminal con un update condicional.
// Devuelve false si otro sweeper ya reclamó el pick.
func (r *PgPickRepository) Settle(ctx context.Context, pickID string, result domain.PickResult, netUnits float64, settledAt time.Time) (bool, error) {
	const query = `
		UPDATE picks
		SET result = $2, net_units = $3, settled_at = $4
		WHERE id = $1 AND result = 'pending'
	`
	tag, err := r.pool.Exec(ctx, query, pickID, string(result), netUnits, settledAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgPickRepository) FlagForReview(ctx context.Context, pickID string) error {
	const query = `
		UPDATE picks
		SET review_flagged = TRUE
		WHERE id = $1 AND result = 'pending'
	`
	_, err := r.pool.Exec(ctx, query, pickID)
	return err
}

func (r *PgPickRepository) ListFlagged(ctx context.Context) ([]domain.Pick, error) {
	const query = `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE review_flagged AND result = 'pending'
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPicks(rows)
}

func (r *PgPickRepository) ListSettledByAgent(ctx context.Context, agentID string) ([]domain.Pick, error) {
	const query = `
		SELECT ` + pickColumns + `
		FROM picks
		WHERE agent_id = $1 AND result <> 'pending'
		ORDER BY settled_at ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPicks(rows)
}

func collectPicks(rows pgx.Rows) ([]domain.Pick, error) {
	var picks []domain.Pick
	for rows.Next() {
		var (
			p                   domain.Pick
			sport, betType      string
			side, result        string
			rationale           *string
		)
		err := rows.Scan(
			&p.ID, &p.AgentID, &sport, &p.GameID, &betType, &side,
			&p.Line, &p.Odds, &p.Stake, &p.Confidence, &rationale,
			&result, &p.NetUnits, &p.ReviewFlagged,
			&p.GenerationDay, &p.CreatedAt, &p.SettledAt,
		)
		if err != nil {
			return nil, err
		}
		p.Sport = domain.Sport(sport)
		p.BetType = domain.BetType(betType)
		p.Side = domain.PickSide(side)
		p.Result = domain.PickResult(result)
		if rationale != nil {
			p.Rationale = *rationale
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
