package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/entitlement"
	"pickslate/internal/repository"
)

// AgentService coordina reglas de negocio para perfiles de agente.
type AgentService struct {
	logger      *zap.Logger
	agents      repository.AgentRepository
	archetypes  repository.ArchetypeRepository
	entitlement entitlement.Checker
}

func NewAgentService(logger *zap.Logger, agents repository.AgentRepository, archetypes repository.ArchetypeRepository, checker entitlement.Checker) *AgentService {
	if checker == nil {
		checker = entitlement.NewStaticChecker(false)
	}
	return &AgentService{
		logger:      logger,
		agents:      agents,
		archetypes:  archetypes,
		entitlement: checker,
	}
}

var (
	ErrAgentNotFound    = errors.New("agent not found")
	ErrNotOwner         = errors.New("not the agent owner")
	ErrInvalidName      = errors.New("agent name required")
	ErrNoSports         = errors.New("preferred sports must not be empty")
	ErrInvalidSport     = errors.New("invalid sport")
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrCapacityExceeded = repository.ErrCapacityExceeded
)

// Topes de capacidad por tier. Free limita sólo agentes activos: desactivar
// el agente libera el cupo. El tope total de 30 aplica únicamente a pro.
var (
	freeLimits = repository.CapacityLimits{MaxActive: 1}
	proLimits  = repository.CapacityLimits{MaxActive: 10, MaxTotal: 30}
)

type CreateAgentInput struct {
	Name             string
	Emoji            string
	PrimaryColor     string
	PreferredSports  []domain.Sport
	ArchetypeID      string
	Personality      domain.PersonalityParams
	Insights         domain.CustomInsights
	AutoGenerate     bool
	IsWidgetFavorite bool
}

// CreateAgent valida el input, decide is_public con una única consulta al
// proveedor de entitlements y aplica los topes de capacidad dentro del insert.
// Si el input referencia un arquetipo, éste debe existir y pre-llena los
// campos que el input dejó vacíos.
func (s *AgentService) CreateAgent(ctx context.Context, userID string, input CreateAgentInput) (domain.AgentProfile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.AgentProfile{}, ErrInvalidName
	}

	sports := input.PreferredSports
	personality := input.Personality
	if input.ArchetypeID != "" {
		archetype, err := s.archetypes.GetByID(ctx, input.ArchetypeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.AgentProfile{}, ErrUnknownArchetype
			}
			return domain.AgentProfile{}, err
		}
		if len(sports) == 0 {
			sports = archetype.DefaultSports
		}
		if personality == (domain.PersonalityParams{}) {
			personality = archetype.Personality
		}
	}

	if len(sports) == 0 {
		return domain.AgentProfile{}, ErrNoSports
	}
	for _, sport := range sports {
		if !domain.ValidSport(sport) {
			return domain.AgentProfile{}, ErrInvalidSport
		}
	}

	entitled, err := s.entitlement.HasEntitlement(ctx, userID)
	if err != nil {
		// Sin respuesta del proveedor el agente queda privado y en tier free.
		s.logger.Warn("entitlement check failed", zap.String("user_id", userID), zap.Error(err))
		entitled = false
	}

	limits := freeLimits
	if entitled {
		limits = proLimits
	}

	agent := domain.AgentProfile{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             name,
		Emoji:            input.Emoji,
		PrimaryColor:     input.PrimaryColor,
		PreferredSports:  sports,
		ArchetypeID:      input.ArchetypeID,
		Personality:      personality.Clamp(),
		Insights:         input.Insights,
		IsActive:         true,
		IsPublic:         entitled,
		AutoGenerate:     input.AutoGenerate,
		IsWidgetFavorite: input.IsWidgetFavorite,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.agents.CreateWithinCapacity(ctx, agent, limits); err != nil {
		return domain.AgentProfile{}, err
	}
	return agent, nil
}

type UpdateAgentInput struct {
	Name             *string
	Emoji            *string
	PrimaryColor     *string
	PreferredSports  []domain.Sport
	Personality      *domain.PersonalityParams
	Insights         *domain.CustomInsights
	IsActive         *bool
	AutoGenerate     *bool
	IsWidgetFavorite *bool
}

// UpdateAgent aplica sólo los campos provistos; is_public nunca se toca aquí.
func (s *AgentService) UpdateAgent(ctx context.Context, userID, agentID string, input UpdateAgentInput) (domain.AgentProfile, error) {
	agent, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return domain.AgentProfile{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.AgentProfile{}, ErrInvalidName
		}
		agent.Name = name
	}
	if input.Emoji != nil {
		agent.Emoji = *input.Emoji
	}
	if input.PrimaryColor != nil {
		agent.PrimaryColor = *input.PrimaryColor
	}
	if input.PreferredSports != nil {
		if len(input.PreferredSports) == 0 {
			return domain.AgentProfile{}, ErrNoSports
		}
		for _, sport := range input.PreferredSports {
			if !domain.ValidSport(sport) {
				return domain.AgentProfile{}, ErrInvalidSport
			}
		}
		agent.PreferredSports = input.PreferredSports
	}
	if input.Personality != nil {
		agent.Personality = input.Personality.Clamp()
	}
	if input.Insights != nil {
		agent.Insights = *input.Insights
	}
	if input.IsActive != nil {
		agent.IsActive = *input.IsActive
	}
	if input.AutoGenerate != nil {
		agent.AutoGenerate = *input.AutoGenerate
	}
	if input.IsWidgetFavorite != nil {
		agent.IsWidgetFavorite = *input.IsWidgetFavorite
	}

	if err := s.agents.Update(ctx, agent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AgentProfile{}, ErrAgentNotFound
		}
		return domain.AgentProfile{}, err
	}
	return agent, nil
}

// DeleteAgent borra el agente del dueño; el cascade excluye sus picks de
// computaciones futuras sin re-graduar historial.
func (s *AgentService) DeleteAgent(ctx context.Context, userID, agentID string) error {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return err
	}
	if err := s.agents.Delete(ctx, agentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAgentNotFound
		}
		return err
	}
	return nil
}

func (s *AgentService) ListAgents(ctx context.Context, userID string) ([]domain.AgentProfile, error) {
	return s.agents.ListByUser(ctx, userID)
}

func (s *AgentService) GetAgent(ctx context.Context, agentID string) (domain.AgentProfile, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AgentProfile{}, ErrAgentNotFound
		}
		return domain.AgentProfile{}, err
	}
	return agent, nil
}

func (s *AgentService) ListPresetArchetypes(ctx context.Context) ([]domain.PresetArchetype, error) {
	return s.archetypes.ListActive(ctx)
}

func (s *AgentService) ownedAgent(ctx context.Context, userID, agentID string) (domain.AgentProfile, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AgentProfile{}, ErrAgentNotFound
		}
		return domain.AgentProfile{}, err
	}
	if agent.UserID != userID {
		return domain.AgentProfile{}, ErrNotOwner
	}
	return agent, nil
}
