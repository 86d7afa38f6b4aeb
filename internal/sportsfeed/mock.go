package sportsfeed

import (
	"context"

	"pickslate/internal/domain"
)

// MockFeed implementa ambos feeds en memoria para tests.
type MockFeed struct {
	Games   []domain.Game
	Results map[string]*domain.FinalScore
	Err     error
}

func (m *MockFeed) ListCandidateGames(_ context.Context, sports []domain.Sport, _ string) ([]domain.Game, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	wanted := make(map[domain.Sport]bool, len(sports))
	for _, s := range sports {
		wanted[s] = true
	}
	var games []domain.Game
	for _, g := range m.Games {
		if wanted[g.Sport] {
			games = append(games, g)
		}
	}
	return games, nil
}

func (m *MockFeed) GetResult(_ context.Context, gameID string) (*domain.FinalScore, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results[gameID], nil
}
