package service

import (
	"sort"

	"pickslate/internal/domain"
)

const (
	leaderboardMinLimit = 1
	leaderboardMaxLimit = 100
)

// RankOptions parametriza una vista del leaderboard.
type RankOptions struct {
	SortMode           domain.SortMode
	ExcludeUnder10Pick bool
	Limit              int
}

// RankLeaderboard es función pura: filtra, ordena con cadenas de desempate
// deterministas y trunca al límite [1,100]. No muta la entrada.
func RankLeaderboard(entries []domain.LeaderboardEntry, opts RankOptions) []domain.LeaderboardEntry {
	mode := opts.SortMode
	if !domain.ValidSortMode(mode) {
		mode = domain.SortOverall
	}

	ranked := make([]domain.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		// Sin picks graduados el agente nunca aparece.
		if e.Wins+e.Losses == 0 {
			continue
		}
		if opts.ExcludeUnder10Pick && e.TotalPicks < 10 {
			continue
		}
		ranked = append(ranked, e)
	}

	sort.SliceStable(ranked, lessForMode(ranked, mode))

	limit := opts.Limit
	if limit < leaderboardMinLimit {
		limit = leaderboardMinLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func lessForMode(entries []domain.LeaderboardEntry, mode domain.SortMode) func(i, j int) bool {
	switch mode {
	case domain.SortRecentRun:
		return func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.CurrentStreak != b.CurrentStreak {
				return a.CurrentStreak > b.CurrentStreak
			}
			if a.NetUnits != b.NetUnits {
				return a.NetUnits > b.NetUnits
			}
			return winRateGreater(a.WinRate, b.WinRate)
		}
	case domain.SortLongestStreak:
		return func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.BestStreak != b.BestStreak {
				return a.BestStreak > b.BestStreak
			}
			if a.CurrentStreak != b.CurrentStreak {
				return a.CurrentStreak > b.CurrentStreak
			}
			if a.NetUnits != b.NetUnits {
				return a.NetUnits > b.NetUnits
			}
			return winRateGreater(a.WinRate, b.WinRate)
		}
	case domain.SortBottom100:
		return func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.NetUnits != b.NetUnits {
				return a.NetUnits < b.NetUnits
			}
			if !winRateEqual(a.WinRate, b.WinRate) {
				return winRateLess(a.WinRate, b.WinRate)
			}
			return a.CurrentStreak < b.CurrentStreak
		}
	default: // overall
		return func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.NetUnits != b.NetUnits {
				return a.NetUnits > b.NetUnits
			}
			if !winRateEqual(a.WinRate, b.WinRate) {
				return winRateGreater(a.WinRate, b.WinRate)
			}
			return a.CurrentStreak > b.CurrentStreak
		}
	}
}

// winRateGreater ordena descendente con nulls al final.
func winRateGreater(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a > *b
	}
}

// winRateLess ordena ascendente con nulls al final.
func winRateLess(a, b *float64) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func winRateEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
