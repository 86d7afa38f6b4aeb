package evaluator

import (
	"context"

	"pickslate/internal/domain"
)

// GameEvaluator es el modelo externo que propone a lo sumo un pick por juego,
// con confianza en [0,1]. La personalidad e insights del agente son entrada
// del modelo; este core no interpreta cómo se usan.
type GameEvaluator interface {
	Evaluate(ctx context.Context, game domain.Game, params domain.PersonalityParams, insights domain.CustomInsights) (*domain.ProposedPick, error)
}
