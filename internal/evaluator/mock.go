package evaluator

import (
	"context"

	"pickslate/internal/domain"
)

// MockEvaluator permite tests sin llamar al servicio de scoring real.
// Responde por game id; juegos sin entrada devuelven nil (sin propuesta).
type MockEvaluator struct {
	Picks map[string]*domain.ProposedPick
	Err   error
}

func (m *MockEvaluator) Evaluate(_ context.Context, game domain.Game, _ domain.PersonalityParams, _ domain.CustomInsights) (*domain.ProposedPick, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Picks[game.ID], nil
}
