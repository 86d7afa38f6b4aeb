package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"pickslate/internal/domain"
	"pickslate/internal/repository"
)

type mockAgentRepo struct {
	agents map[string]domain.AgentProfile
}

func newMockAgentRepo() *mockAgentRepo {
	return &mockAgentRepo{agents: make(map[string]domain.AgentProfile)}
}

func (m *mockAgentRepo) CreateWithinCapacity(_ context.Context, agent domain.AgentProfile, limits repository.CapacityLimits) error {
	var active, total int
	for _, a := range m.agents {
		if a.UserID != agent.UserID {
			continue
		}
		total++
		if a.IsActive {
			active++
		}
	}
	if (agent.IsActive && active >= limits.MaxActive) || (limits.MaxTotal > 0 && total >= limits.MaxTotal) {
		return repository.ErrCapacityExceeded
	}
	m.agents[agent.ID] = agent
	return nil
}

func (m *mockAgentRepo) GetByID(_ context.Context, id string) (domain.AgentProfile, error) {
	agent, ok := m.agents[id]
	if !ok {
		return domain.AgentProfile{}, pgx.ErrNoRows
	}
	return agent, nil
}

func (m *mockAgentRepo) Update(_ context.Context, agent domain.AgentProfile) error {
	if _, ok := m.agents[agent.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.agents[agent.ID] = agent
	return nil
}

func (m *mockAgentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.agents[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.agents, id)
	return nil
}

func (m *mockAgentRepo) ListByUser(_ context.Context, userID string) ([]domain.AgentProfile, error) {
	var agents []domain.AgentProfile
	for _, a := range m.agents {
		if a.UserID == userID {
			agents = append(agents, a)
		}
	}
	return agents, nil
}

func (m *mockAgentRepo) ListAutoGenerate(_ context.Context) ([]domain.AgentProfile, error) {
	var agents []domain.AgentProfile
	for _, a := range m.agents {
		if a.AutoGenerate && a.IsActive {
			agents = append(agents, a)
		}
	}
	return agents, nil
}

func (m *mockAgentRepo) activeCount(userID string) int {
	count := 0
	for _, a := range m.agents {
		if a.UserID == userID && a.IsActive {
			count++
		}
	}
	return count
}

type mockPickRepo struct {
	runs  map[string]domain.GenerationRun
	picks map[string]domain.Pick
}

func newMockPickRepo() *mockPickRepo {
	return &mockPickRepo{
		runs:  make(map[string]domain.GenerationRun),
		picks: make(map[string]domain.Pick),
	}
}

func runKey(agentID, runDate string) string {
	return agentID + "|" + runDate
}

func (m *mockPickRepo) CreateRunWithPicks(_ context.Context, run domain.GenerationRun, picks []domain.Pick) error {
	key := runKey(run.AgentID, run.RunDate)
	if _, ok := m.runs[key]; ok {
		return repository.ErrDuplicateRun
	}
	m.runs[key] = run
	for _, p := range picks {
		m.picks[p.ID] = p
	}
	return nil
}

func (m *mockPickRepo) GetRun(_ context.Context, agentID, runDate string) (domain.GenerationRun, error) {
	run, ok := m.runs[runKey(agentID, runDate)]
	if !ok {
		return domain.GenerationRun{}, pgx.ErrNoRows
	}
	return run, nil
}

func (m *mockPickRepo) ListByAgentDay(_ context.Context, agentID, runDate string) ([]domain.Pick, error) {
	var picks []domain.Pick
	for _, p := range m.picks {
		if p.AgentID == agentID && p.GenerationDay == runDate {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

func (m *mockPickRepo) ListPending(_ context.Context) ([]domain.Pick, error) {
	var picks []domain.Pick
	for _, p := range m.picks {
		if p.Result == domain.ResultPending {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

func (m *mockPickRepo) Settle(_ context.Context, pickID string, result domain.PickResult, netUnits float64, settledAt time.Time) (bool, error) {
	p, ok := m.picks[pickID]
	if !ok || p.Result != domain.ResultPending {
		return false, nil
	}
	p.Result = result
	p.NetUnits = netUnits
	p.SettledAt = &settledAt
	m.picks[pickID] = p
	return true, nil
}

func (m *mockPickRepo) FlagForReview(_ context.Context, pickID string) error {
	p, ok := m.picks[pickID]
	if !ok {
		return pgx.ErrNoRows
	}
	if p.Result == domain.ResultPending {
		p.ReviewFlagged = true
		m.picks[pickID] = p
	}
	return nil
}

func (m *mockPickRepo) ListFlagged(_ context.Context) ([]domain.Pick, error) {
	var picks []domain.Pick
	for _, p := range m.picks {
		if p.ReviewFlagged && p.Result == domain.ResultPending {
			picks = append(picks, p)
		}
	}
	return picks, nil
}

func (m *mockPickRepo) ListSettledByAgent(_ context.Context, agentID string) ([]domain.Pick, error) {
	var picks []domain.Pick
	for _, p := range m.picks {
		if p.AgentID == agentID && p.Result != domain.ResultPending {
			picks = append(picks, p)
		}
	}
	// Orden de liquidación ascendente, como el repositorio real.
	for i := 0; i < len(picks); i++ {
		for j := i + 1; j < len(picks); j++ {
			if picks[j].SettledAt.Before(*picks[i].SettledAt) {
				picks[i], picks[j] = picks[j], picks[i]
			}
		}
	}
	return picks, nil
}

type mockPerformanceRepo struct {
	caches map[string]domain.PerformanceCache
}

func newMockPerformanceRepo() *mockPerformanceRepo {
	return &mockPerformanceRepo{caches: make(map[string]domain.PerformanceCache)}
}

func (m *mockPerformanceRepo) Upsert(_ context.Context, cache domain.PerformanceCache) error {
	m.caches[cache.AgentID] = cache
	return nil
}

func (m *mockPerformanceRepo) GetByAgent(_ context.Context, agentID string) (domain.PerformanceCache, error) {
	cache, ok := m.caches[agentID]
	if !ok {
		return domain.PerformanceCache{}, pgx.ErrNoRows
	}
	return cache, nil
}

func (m *mockPerformanceRepo) ListLeaderboardEntries(_ context.Context, _ *domain.Sport) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	for _, c := range m.caches {
		entries = append(entries, domain.LeaderboardEntry{
			AgentID:       c.AgentID,
			TotalPicks:    c.TotalPicks,
			Wins:          c.Wins,
			Losses:        c.Losses,
			Pushes:        c.Pushes,
			WinRate:       c.WinRate,
			NetUnits:      c.NetUnits,
			CurrentStreak: c.CurrentStreak,
			BestStreak:    c.BestStreak,
		})
	}
	return entries, nil
}

type mockArchetypeRepo struct {
	archetypes []domain.PresetArchetype
}

func (m *mockArchetypeRepo) ListActive(_ context.Context) ([]domain.PresetArchetype, error) {
	var active []domain.PresetArchetype
	for _, a := range m.archetypes {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (m *mockArchetypeRepo) GetByID(_ context.Context, id string) (domain.PresetArchetype, error) {
	for _, a := range m.archetypes {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.PresetArchetype{}, pgx.ErrNoRows
}

type mockChecker struct {
	entitled bool
	err      error
}

func (m *mockChecker) HasEntitlement(_ context.Context, _ string) (bool, error) {
	return m.entitled, m.err
}
