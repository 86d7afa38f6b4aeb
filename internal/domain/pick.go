package domain

import (
	"strconv"
	"strings"
	"time"
)

// BetType clasifica el mercado apostado.
type BetType string

const (
	BetMoneyline BetType = "moneyline"
	BetSpread    BetType = "spread"
	BetTotal     BetType = "total"
)

// PickSide identifica el lado tomado dentro del mercado.
type PickSide string

const (
	SideHome  PickSide = "home"
	SideAway  PickSide = "away"
	SideOver  PickSide = "over"
	SideUnder PickSide = "under"
)

// PickResult es el estado de liquidación de un pick. pending es el único
// estado no terminal; la transición ocurre exactamente una vez.
type PickResult string

const (
	ResultPending PickResult = "pending"
	ResultWon     PickResult = "won"
	ResultLost    PickResult = "lost"
	ResultPush    PickResult = "push"
)

// Pick es una apuesta individual generada por un agente sobre un juego.
// Inmutable una vez liquidada, salvo metadata de auditoría.
type Pick struct {
	ID            string     `json:"id"`
	AgentID       string     `json:"agent_id"`
	Sport         Sport      `json:"sport"`
	GameID        string     `json:"game_id"`
	BetType       BetType    `json:"bet_type"`
	Side          PickSide   `json:"side"`
	Line          float64    `json:"line,omitempty"`
	Odds          int        `json:"odds"`
	Stake         float64    `json:"stake"`
	Confidence    float64    `json:"confidence"`
	Rationale     string     `json:"rationale,omitempty"`
	Result        PickResult `json:"result"`
	NetUnits      float64    `json:"net_units"`
	ReviewFlagged bool       `json:"review_flagged,omitempty"`
	GenerationDay string     `json:"generation_day"`
	CreatedAt     time.Time  `json:"created_at"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
}

// ParseAmericanOdds convierte una cuota en texto ("-110", "+180") a entero.
func ParseAmericanOdds(raw string) (int, bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "+"))
	if trimmed == "" {
		return 0, false
	}
	odds, err := strconv.Atoi(trimmed)
	if err != nil || odds == 0 {
		return 0, false
	}
	return odds, true
}

// GenerationRun agrupa el lote de picks creado para un agente en un día.
// La unicidad (agent_id, run_date) es el candado de idempotencia.
type GenerationRun struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	RunDate   string    `json:"run_date"`
	PickCount int       `json:"pick_count"`
	CreatedAt time.Time `json:"created_at"`
}
