package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/evaluator"
	"pickslate/internal/repository"
	"pickslate/internal/sportsfeed"
)

var (
	ErrAgentInactive    = errors.New("agent is inactive")
	ErrAlreadyGenerated = errors.New("picks already generated for today")
)

// GenerationPolicy agrupa los parámetros ajustables del pipeline.
type GenerationPolicy struct {
	// ConfidenceBase y ConfidenceStep mapean la escala 1-5 a un corte de
	// probabilidad: min = base + (escala-1)*step.
	ConfidenceBase float64
	ConfidenceStep float64
	MinSlateGames  int
	MaxPicksPerRun int
	Location       *time.Location
}

func DefaultGenerationPolicy() GenerationPolicy {
	return GenerationPolicy{
		ConfidenceBase: 0.5,
		ConfidenceStep: 0.05,
		MinSlateGames:  3,
		MaxPicksPerRun: 5,
		Location:       time.UTC,
	}
}

// GenerationResult describe el desenlace de un run: picks nuevos, el lote ya
// existente del día, o "sin edges calificados" (lista vacía válida).
type GenerationResult struct {
	RunDate           string        `json:"run_date"`
	Picks             []domain.Pick `json:"picks"`
	NoQualifyingEdges bool          `json:"no_qualifying_edges"`
	AlreadyGenerated  bool          `json:"already_generated"`
}

// GenerationService orquesta un run de generación para un agente.
type GenerationService struct {
	logger *zap.Logger
	agents repository.AgentRepository
	picks  repository.PickRepository
	feed   sportsfeed.CandidateFeed
	eval   evaluator.GameEvaluator
	policy GenerationPolicy
	now    func() time.Time
}

func NewGenerationService(logger *zap.Logger, agents repository.AgentRepository, picks repository.PickRepository, feed sportsfeed.CandidateFeed, eval evaluator.GameEvaluator, policy GenerationPolicy) *GenerationService {
	if policy.MaxPicksPerRun <= 0 {
		policy.MaxPicksPerRun = 5
	}
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &GenerationService{
		logger: logger,
		agents: agents,
		picks:  picks,
		feed:   feed,
		eval:   eval,
		policy: policy,
		now:    time.Now,
	}
}

// Generate corre el pipeline completo para un agente. La invariante central:
// a lo sumo un run por agente por día calendario; un segundo intento devuelve
// el lote existente (o ErrAlreadyGenerated en modo estricto) y jamás crea un
// lote competidor.
func (s *GenerationService) Generate(ctx context.Context, agentID string, strict bool) (GenerationResult, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return GenerationResult{}, ErrAgentNotFound
		}
		return GenerationResult{}, err
	}
	if !agent.IsActive {
		return GenerationResult{}, ErrAgentInactive
	}
	if len(agent.PreferredSports) == 0 {
		return GenerationResult{}, ErrNoSports
	}

	runDate := s.now().In(s.policy.Location).Format("2006-01-02")

	// Fast path: run ya registrado hoy. La constraint de unicidad cubre la
	// carrera entre este check y el insert.
	if _, err := s.picks.GetRun(ctx, agentID, runDate); err == nil {
		return s.existingRun(ctx, agentID, runDate, strict)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return GenerationResult{}, err
	}

	games, err := s.feed.ListCandidateGames(ctx, agent.PreferredSports, runDate)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("candidate feed: %w", err)
	}

	if agent.Personality.SkipWeakSlates && len(games) < s.policy.MinSlateGames {
		// Slate débil: estado terminal válido, se registra un run vacío para
		// que el resto del día sea no-op.
		return s.persistRun(ctx, agentID, runDate, nil, strict, true)
	}

	minConfidence := s.minConfidence(agent.Personality.ConfidenceThreshold)

	var proposals []domain.ProposedPick
	for _, game := range games {
		proposal, err := s.eval.Evaluate(ctx, game, agent.Personality, agent.Insights)
		if err != nil {
			// Falla de colaborador: se propaga sin persistir nada, el retry
			// del mismo día sigue permitido.
			return GenerationResult{}, fmt.Errorf("evaluator: %w", err)
		}
		if proposal == nil || proposal.Confidence < minConfidence {
			continue
		}
		if proposal.Sport == "" {
			proposal.Sport = game.Sport
		}
		proposals = append(proposals, *proposal)
	}

	s.orderProposals(proposals, agent.Personality.ChaseValue)
	if len(proposals) > s.policy.MaxPicksPerRun {
		proposals = proposals[:s.policy.MaxPicksPerRun]
	}

	now := s.now().UTC()
	picks := make([]domain.Pick, 0, len(proposals))
	for _, p := range proposals {
		stake := p.Stake
		if stake <= 0 {
			stake = 1.0
		}
		picks = append(picks, domain.Pick{
			ID:            uuid.NewString(),
			AgentID:       agentID,
			Sport:         p.Sport,
			GameID:        p.GameID,
			BetType:       p.BetType,
			Side:          p.Side,
			Line:          p.Line,
			Odds:          p.Odds,
			Stake:         stake,
			Confidence:    p.Confidence,
			Rationale:     p.Rationale,
			Result:        domain.ResultPending,
			GenerationDay: runDate,
			CreatedAt:     now,
		})
	}

	return s.persistRun(ctx, agentID, runDate, picks, strict, len(picks) == 0)
}

func (s *GenerationService) persistRun(ctx context.Context, agentID, runDate string, picks []domain.Pick, strict, noEdges bool) (GenerationResult, error) {
	run := domain.GenerationRun{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		RunDate:   runDate,
		PickCount: len(picks),
		CreatedAt: s.now().UTC(),
	}
	if err := s.picks.CreateRunWithPicks(ctx, run, picks); err != nil {
		if errors.Is(err, repository.ErrDuplicateRun) {
			// Otro request ganó la carrera: devolvemos su lote.
			return s.existingRun(ctx, agentID, runDate, strict)
		}
		return GenerationResult{}, err
	}

	s.logger.Info("generation run persisted",
		zap.String("agent_id", agentID),
		zap.String("run_date", runDate),
		zap.Int("picks", len(picks)),
	)
	return GenerationResult{RunDate: runDate, Picks: picks, NoQualifyingEdges: noEdges}, nil
}

func (s *GenerationService) existingRun(ctx context.Context, agentID, runDate string, strict bool) (GenerationResult, error) {
	if strict {
		return GenerationResult{}, ErrAlreadyGenerated
	}
	picks, err := s.picks.ListByAgentDay(ctx, agentID, runDate)
	if err != nil {
		return GenerationResult{}, err
	}
	return GenerationResult{
		RunDate:           runDate,
		Picks:             picks,
		NoQualifyingEdges: len(picks) == 0,
		AlreadyGenerated:  true,
	}, nil
}

func (s *GenerationService) minConfidence(scale int) float64 {
	scale = clampedScale(scale)
	return s.policy.ConfidenceBase + float64(scale-1)*s.policy.ConfidenceStep
}

func clampedScale(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// orderProposals ordena por confianza descendente; con chase_value los
// empates se resuelven por la desviación más favorable entre la cuota
// cotizada y el precio justo del evaluador.
func (s *GenerationService) orderProposals(proposals []domain.ProposedPick, chaseValue bool) {
	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].Confidence != proposals[j].Confidence {
			return proposals[i].Confidence > proposals[j].Confidence
		}
		if chaseValue {
			return valueEdge(proposals[i]) > valueEdge(proposals[j])
		}
		return false
	})
}

// valueEdge mide cuánto mejor paga la cuota cotizada que el precio justo:
// diferencia de probabilidades implícitas (positiva = precio favorable).
func valueEdge(p domain.ProposedPick) float64 {
	if p.FairValueOdds == nil {
		return 0
	}
	return impliedProbability(*p.FairValueOdds) - impliedProbability(p.Odds)
}

func impliedProbability(odds int) float64 {
	if odds == 0 {
		return 0
	}
	if odds < 0 {
		risk := float64(-odds)
		return risk / (risk + 100)
	}
	return 100 / (float64(odds) + 100)
}
