package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pickslate/internal/repository"
	"pickslate/internal/service"
)

// Scheduler programa el sweep de liquidación y la generación desatendida.
// Cada pase aísla fallas por agente: un agente roto se loguea y se salta.
type Scheduler struct {
	logger     *zap.Logger
	cron       *cron.Cron
	agents     repository.AgentRepository
	generation *service.GenerationService
	settlement *service.SettlementService
}

func New(logger *zap.Logger, agents repository.AgentRepository, generation *service.GenerationService, settlement *service.SettlementService) *Scheduler {
	return &Scheduler{
		logger:     logger,
		cron:       cron.New(),
		agents:     agents,
		generation: generation,
		settlement: settlement,
	}
}

// Start registra los jobs y arranca el cron. Las specs usan el formato
// estándar de 5 campos.
func (s *Scheduler) Start(sweepSpec, generateSpec string) error {
	if _, err := s.cron.AddFunc(sweepSpec, s.runSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(generateSpec, s.runAutoGenerate); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("sweep", sweepSpec), zap.String("generate", generateSpec))
	return nil
}

// Stop detiene el cron y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	stats, err := s.settlement.Sweep(ctx)
	if err != nil {
		s.logger.Error("settlement sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("settlement sweep done",
		zap.Int("settled", stats.Settled),
		zap.Int("skipped", stats.Skipped),
		zap.Int("flagged", stats.Flagged),
		zap.Int("errors", stats.Errors),
	)
}

func (s *Scheduler) runAutoGenerate() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	agents, err := s.agents.ListAutoGenerate(ctx)
	if err != nil {
		s.logger.Error("list auto-generate agents failed", zap.Error(err))
		return
	}

	for _, agent := range agents {
		result, err := s.generation.Generate(ctx, agent.ID, false)
		if err != nil {
			if errors.Is(err, service.ErrAgentInactive) || errors.Is(err, service.ErrNoSports) {
				continue
			}
			s.logger.Warn("auto generation failed", zap.String("agent_id", agent.ID), zap.Error(err))
			continue
		}
		if result.AlreadyGenerated {
			continue
		}
		s.logger.Info("auto generation run",
			zap.String("agent_id", agent.ID),
			zap.String("run_date", result.RunDate),
			zap.Int("picks", len(result.Picks)),
		)
	}
}
