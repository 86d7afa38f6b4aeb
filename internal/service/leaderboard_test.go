package service

import (
	"testing"

	"pickslate/internal/domain"
)

func rate(v float64) *float64 { return &v }

func entry(agentID string, wins, losses int, winRate *float64, netUnits float64, current, best, total int) domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		AgentID:       agentID,
		Name:          agentID,
		TotalPicks:    total,
		Wins:          wins,
		Losses:        losses,
		WinRate:       winRate,
		NetUnits:      netUnits,
		CurrentStreak: current,
		BestStreak:    best,
	}
}

func agentOrder(entries []domain.LeaderboardEntry) []string {
	order := make([]string, len(entries))
	for i, e := range entries {
		order[i] = e.AgentID
	}
	return order
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankOverallNetUnitsDominates(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("low-rate-high-units", 5, 15, rate(0.25), 10, 0, 2, 20),
		entry("high-rate-low-units", 12, 3, rate(0.8), 5, 3, 6, 15),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, Limit: 25})
	if !sameOrder(agentOrder(ranked), []string{"low-rate-high-units", "high-rate-low-units"}) {
		t.Fatalf("net units must dominate win rate, got %v", agentOrder(ranked))
	}
}

func TestRankOverallTieChain(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("c", 5, 5, rate(0.5), 8, 1, 3, 10),
		entry("a", 6, 4, rate(0.6), 8, 0, 4, 10),
		entry("b", 6, 4, rate(0.6), 8, 2, 2, 10),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, Limit: 25})
	// net_units empatados: win_rate decide; empatado otra vez: racha actual.
	if !sameOrder(agentOrder(ranked), []string{"b", "a", "c"}) {
		t.Fatalf("unexpected tie chain: %v", agentOrder(ranked))
	}
}

func TestRankRecentRun(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("steady", 10, 5, rate(0.667), 20, 1, 5, 15),
		entry("hot", 8, 7, rate(0.533), 4, 4, 4, 15),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortRecentRun, Limit: 25})
	if !sameOrder(agentOrder(ranked), []string{"hot", "steady"}) {
		t.Fatalf("recent_run sorts by current streak first, got %v", agentOrder(ranked))
	}
}

func TestRankLongestStreak(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("b", 9, 6, rate(0.6), 12, 2, 5, 15),
		entry("a", 7, 8, rate(0.467), 1, 0, 7, 15),
		entry("c", 9, 6, rate(0.6), 3, 5, 5, 15),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortLongestStreak, Limit: 25})
	// best_streak primero; empate 5-5 se resuelve por racha actual.
	if !sameOrder(agentOrder(ranked), []string{"a", "c", "b"}) {
		t.Fatalf("unexpected longest_streak order: %v", agentOrder(ranked))
	}
}

func TestRankBottom100(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("mid", 5, 5, rate(0.5), -2, 0, 2, 10),
		entry("worst", 2, 18, rate(0.1), -15, 0, 1, 20),
		entry("best", 12, 3, rate(0.8), 9, 3, 6, 15),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortBottom100, Limit: 25})
	if !sameOrder(agentOrder(ranked), []string{"worst", "mid", "best"}) {
		t.Fatalf("bottom_100 sorts net units ascending, got %v", agentOrder(ranked))
	}
}

func TestRankDropsUngraded(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("graded", 1, 0, rate(1.0), 1, 1, 1, 1),
		entry("pushes-only", 0, 0, nil, 0, 0, 0, 6),
		entry("never-picked", 0, 0, nil, 0, 0, 0, 0),
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, Limit: 100})
	if len(ranked) != 1 || ranked[0].AgentID != "graded" {
		t.Fatalf("agents with zero graded picks must never appear, got %v", agentOrder(ranked))
	}
}

func TestRankExcludeUnder10Picks(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("veteran", 7, 4, rate(0.636), 4, 1, 3, 11),
		entry("rookie", 3, 1, rate(0.75), 2, 2, 2, 4),
	}

	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, ExcludeUnder10Pick: true, Limit: 25})
	if len(ranked) != 1 || ranked[0].AgentID != "veteran" {
		t.Fatalf("min-10 filter should drop the rookie, got %v", agentOrder(ranked))
	}

	ranked = RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, Limit: 25})
	if len(ranked) != 2 {
		t.Fatalf("without the filter both appear, got %v", agentOrder(ranked))
	}
}

func TestRankLimitClamp(t *testing.T) {
	var entries []domain.LeaderboardEntry
	for i := 0; i < 150; i++ {
		id := "agent-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		entries = append(entries, entry(id, 1, 1, rate(0.5), float64(i), 0, 1, 2))
	}

	if got := len(RankLeaderboard(entries, RankOptions{Limit: 500})); got != 100 {
		t.Fatalf("limit should clamp to 100, got %d", got)
	}
	if got := len(RankLeaderboard(entries, RankOptions{Limit: 0})); got != 1 {
		t.Fatalf("limit should clamp up to 1, got %d", got)
	}
	if got := len(RankLeaderboard(entries, RankOptions{Limit: -5})); got != 1 {
		t.Fatalf("negative limit should clamp up to 1, got %d", got)
	}
}

func TestRankNullWinRatesLast(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		// Mismo net_units; win_rate nil (solo derrotas no puede darlo, así que
		// simulamos una fila degenerada del join) va después de cualquier valor.
		{AgentID: "null-rate", Wins: 1, Losses: 1, WinRate: nil, NetUnits: 3, TotalPicks: 2},
		{AgentID: "low-rate", Wins: 1, Losses: 9, WinRate: rate(0.1), NetUnits: 3, TotalPicks: 10},
	}
	ranked := RankLeaderboard(entries, RankOptions{SortMode: domain.SortOverall, Limit: 25})
	if !sameOrder(agentOrder(ranked), []string{"low-rate", "null-rate"}) {
		t.Fatalf("null win rates must sort last, got %v", agentOrder(ranked))
	}
}

func TestRankDeterministic(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("a", 5, 5, rate(0.5), 2, 1, 2, 10),
		entry("b", 5, 5, rate(0.5), 2, 1, 2, 10),
		entry("c", 5, 5, rate(0.5), 2, 1, 2, 10),
	}
	first := agentOrder(RankLeaderboard(entries, RankOptions{Limit: 25}))
	for i := 0; i < 5; i++ {
		again := agentOrder(RankLeaderboard(entries, RankOptions{Limit: 25}))
		if !sameOrder(first, again) {
			t.Fatalf("identical input must produce identical order: %v vs %v", first, again)
		}
	}
	// Orden estable: empates totales conservan el orden de entrada.
	if !sameOrder(first, []string{"a", "b", "c"}) {
		t.Fatalf("full ties should keep input order, got %v", first)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	entries := []domain.LeaderboardEntry{
		entry("a", 1, 1, rate(0.5), 1, 0, 1, 2),
		entry("b", 2, 2, rate(0.5), 5, 1, 2, 4),
	}
	RankLeaderboard(entries, RankOptions{Limit: 1})
	if entries[0].AgentID != "a" || entries[1].AgentID != "b" {
		t.Fatal("input slice was mutated")
	}
}
