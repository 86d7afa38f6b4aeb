package sportsfeed

import (
	"context"

	"pickslate/internal/domain"
)

// CandidateFeed entrega el slate de juegos disponibles por deporte y fecha.
type CandidateFeed interface {
	ListCandidateGames(ctx context.Context, sports []domain.Sport, date string) ([]domain.Game, error)
}

// ResultFeed entrega el marcador final de un juego, o nil si aún no es final.
type ResultFeed interface {
	GetResult(ctx context.Context, gameID string) (*domain.FinalScore, error)
}
