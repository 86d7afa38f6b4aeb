package domain

import "time"

// Game es un candidato del slate diario entregado por el feed externo.
type Game struct {
	ID        string    `json:"id"`
	Sport     Sport     `json:"sport"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	StartTime time.Time `json:"start_time"`
}

// ProposedPick es la sugerencia (a lo sumo una por juego) del evaluador
// externo. FairValueOdds puede faltar cuando el modelo no estima precio justo.
type ProposedPick struct {
	GameID        string   `json:"game_id"`
	Sport         Sport    `json:"sport"`
	BetType       BetType  `json:"bet_type"`
	Side          PickSide `json:"side"`
	Line          float64  `json:"line,omitempty"`
	Odds          int      `json:"odds"`
	FairValueOdds *int     `json:"fair_value_odds,omitempty"`
	Stake         float64  `json:"stake,omitempty"`
	Confidence    float64  `json:"confidence"`
	Rationale     string   `json:"rationale,omitempty"`
}

// FinalScore es el marcador final reportado por el feed de resultados.
type FinalScore struct {
	GameID    string `json:"game_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}
