package domain

import "time"

// PerformanceCache es la proyección denormalizada del historial liquidado de
// un agente. Siempre debe igualar el fold de sus picks liquidados; se
// reescribe completa, nunca se parchea incrementalmente.
type PerformanceCache struct {
	AgentID       string    `json:"agent_id"`
	TotalPicks    int       `json:"total_picks"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Pushes        int       `json:"pushes"`
	WinRate       *float64  `json:"win_rate"`
	NetUnits      float64   `json:"net_units"`
	CurrentStreak int       `json:"current_streak"`
	BestStreak    int       `json:"best_streak"`
	ComputedAt    time.Time `json:"computed_at"`
}

// LeaderboardEntry une perfil público y performance; vista efímera, nunca
// persistida.
type LeaderboardEntry struct {
	AgentID       string   `json:"agent_id"`
	Name          string   `json:"name"`
	Emoji         string   `json:"emoji,omitempty"`
	PrimaryColor  string   `json:"primary_color,omitempty"`
	Sports        []Sport  `json:"sports"`
	TotalPicks    int      `json:"total_picks"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Pushes        int      `json:"pushes"`
	WinRate       *float64 `json:"win_rate"`
	NetUnits      float64  `json:"net_units"`
	CurrentStreak int      `json:"current_streak"`
	BestStreak    int      `json:"best_streak"`
}

// SortMode selecciona el orden del leaderboard.
type SortMode string

const (
	SortOverall       SortMode = "overall"
	SortRecentRun     SortMode = "recent_run"
	SortLongestStreak SortMode = "longest_streak"
	SortBottom100     SortMode = "bottom_100"
)

// ValidSortMode indica si el modo pertenece al enum.
func ValidSortMode(m SortMode) bool {
	switch m {
	case SortOverall, SortRecentRun, SortLongestStreak, SortBottom100:
		return true
	}
	return false
}
