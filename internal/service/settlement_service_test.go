package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/sportsfeed"
)

func newSettlementFixture(picks *mockPickRepo, perf *mockPerformanceRepo, feed *sportsfeed.MockFeed, grace time.Duration) *SettlementService {
	performance := NewPerformanceService(zap.NewNop(), picks, perf)
	svc := NewSettlementService(zap.NewNop(), picks, feed, performance, grace)
	svc.now = fixedNow
	return svc
}

func pendingPick(id, agentID, gameID string, betType domain.BetType, side domain.PickSide, line float64, odds int, stake float64, createdAt time.Time) domain.Pick {
	return domain.Pick{
		ID:            id,
		AgentID:       agentID,
		Sport:         domain.SportNFL,
		GameID:        gameID,
		BetType:       betType,
		Side:          side,
		Line:          line,
		Odds:          odds,
		Stake:         stake,
		Confidence:    0.7,
		Result:        domain.ResultPending,
		GenerationDay: "2024-09-07",
		CreatedAt:     createdAt,
	}
}

func TestGradePick(t *testing.T) {
	score := domain.FinalScore{GameID: "g1", HomeScore: 27, AwayScore: 20}

	cases := []struct {
		name    string
		betType domain.BetType
		side    domain.PickSide
		line    float64
		score   domain.FinalScore
		want    domain.PickResult
		ok      bool
	}{
		{"moneyline home wins", domain.BetMoneyline, domain.SideHome, 0, score, domain.ResultWon, true},
		{"moneyline away loses", domain.BetMoneyline, domain.SideAway, 0, score, domain.ResultLost, true},
		{"moneyline tie pushes", domain.BetMoneyline, domain.SideHome, 0, domain.FinalScore{HomeScore: 20, AwayScore: 20}, domain.ResultPush, true},
		{"spread home covers", domain.BetSpread, domain.SideHome, -3.5, score, domain.ResultWon, true},
		{"spread home fails to cover", domain.BetSpread, domain.SideHome, -7.5, score, domain.ResultLost, true},
		{"spread lands on the number", domain.BetSpread, domain.SideHome, -7, score, domain.ResultPush, true},
		{"spread away with points covers", domain.BetSpread, domain.SideAway, 10.5, score, domain.ResultWon, true},
		{"total over cashes", domain.BetTotal, domain.SideOver, 44.5, score, domain.ResultWon, true},
		{"total under loses", domain.BetTotal, domain.SideUnder, 44.5, score, domain.ResultLost, true},
		{"total lands on the number", domain.BetTotal, domain.SideOver, 47, score, domain.ResultPush, true},
		{"moneyline over is ungradeable", domain.BetMoneyline, domain.SideOver, 0, score, domain.ResultPending, false},
		{"total home is ungradeable", domain.BetTotal, domain.SideHome, 44.5, score, domain.ResultPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pick := domain.Pick{BetType: tc.betType, Side: tc.side, Line: tc.line}
			got, ok := GradePick(pick, tc.score)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("result = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSweepSettlesAndRecomputes(t *testing.T) {
	picks := newMockPickRepo()
	created := fixedNow().Add(-12 * time.Hour)
	// Favorito -150 que gana y underdog +120 que pierde, ambos a 1 unidad.
	picks.picks["p1"] = pendingPick("p1", "agent-1", "g1", domain.BetMoneyline, domain.SideHome, 0, -150, 1.0, created)
	picks.picks["p2"] = pendingPick("p2", "agent-1", "g2", domain.BetMoneyline, domain.SideHome, 0, 120, 1.0, created)

	feed := &sportsfeed.MockFeed{Results: map[string]*domain.FinalScore{
		"g1": {GameID: "g1", HomeScore: 30, AwayScore: 10},
		"g2": {GameID: "g2", HomeScore: 10, AwayScore: 30},
	}}
	perf := newMockPerformanceRepo()
	svc := newSettlementFixture(picks, perf, feed, 72*time.Hour)

	stats, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Settled != 2 || stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if picks.picks["p1"].NetUnits != 1.0 {
		t.Fatalf("won favorite should net +1 unit, got %v", picks.picks["p1"].NetUnits)
	}
	if picks.picks["p2"].NetUnits != -1.0 {
		t.Fatalf("lost underdog should net -1 unit, got %v", picks.picks["p2"].NetUnits)
	}

	cache, ok := perf.caches["agent-1"]
	if !ok {
		t.Fatal("sweep should recompute the touched agent's cache")
	}
	if cache.TotalPicks != 2 || cache.Wins != 1 || cache.Losses != 1 {
		t.Fatalf("unexpected cache counts: %+v", cache)
	}
	if cache.WinRate == nil || *cache.WinRate != 0.5 {
		t.Fatalf("win rate should be 0.5, got %v", cache.WinRate)
	}
	if cache.NetUnits != 0 {
		t.Fatalf("net units should be 0, got %v", cache.NetUnits)
	}
	if cache.BestStreak != 1 {
		t.Fatalf("best streak should be 1, got %d", cache.BestStreak)
	}
}

func TestSweepLeavesUnfinishedPending(t *testing.T) {
	picks := newMockPickRepo()
	picks.picks["p1"] = pendingPick("p1", "agent-1", "g1", domain.BetMoneyline, domain.SideHome, 0, -110, 1.0, fixedNow().Add(-6*time.Hour))

	feed := &sportsfeed.MockFeed{Results: map[string]*domain.FinalScore{}}
	perf := newMockPerformanceRepo()
	svc := newSettlementFixture(picks, perf, feed, 72*time.Hour)

	stats, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Skipped != 1 || stats.Settled != 0 || stats.Flagged != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	p := picks.picks["p1"]
	if p.Result != domain.ResultPending || p.ReviewFlagged {
		t.Fatalf("pick should stay untouched, got %+v", p)
	}
	if len(perf.caches) != 0 {
		t.Fatal("no settlement means no recompute")
	}
}

func TestSweepFlagsAfterGrace(t *testing.T) {
	picks := newMockPickRepo()
	picks.picks["p1"] = pendingPick("p1", "agent-1", "g1", domain.BetMoneyline, domain.SideHome, 0, -110, 1.0, fixedNow().Add(-80*time.Hour))

	feed := &sportsfeed.MockFeed{Results: map[string]*domain.FinalScore{}}
	svc := newSettlementFixture(picks, newMockPerformanceRepo(), feed, 72*time.Hour)

	stats, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Flagged != 1 {
		t.Fatalf("expected 1 flagged, got %+v", stats)
	}
	p := picks.picks["p1"]
	if !p.ReviewFlagged || p.Result != domain.ResultPending {
		t.Fatalf("flagged pick must stay pending, got %+v", p)
	}

	// Un segundo pase no re-flaggea.
	stats, err = svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Flagged != 0 || stats.Skipped != 1 {
		t.Fatalf("second pass should skip, got %+v", stats)
	}
}

func TestSweepSkipsAlreadyClaimed(t *testing.T) {
	picks := newMockPickRepo()
	settledAt := fixedNow().Add(-time.Hour)
	p := pendingPick("p1", "agent-1", "g1", domain.BetMoneyline, domain.SideHome, 0, -110, 1.0, fixedNow().Add(-12*time.Hour))
	p.Result = domain.ResultWon
	p.NetUnits = 1.0
	p.SettledAt = &settledAt
	picks.picks["p1"] = p

	// ListPending ya no lo devuelve, pero un sweeper concurrente puede haberlo
	// tomado entre el listado y el Settle: el claim condicional lo cubre.
	claimed, err := picks.Settle(context.Background(), "p1", domain.ResultLost, -1.0, fixedNow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed {
		t.Fatal("settled pick must not be claimable again")
	}
	got := picks.picks["p1"]
	if got.Result != domain.ResultWon || got.NetUnits != 1.0 {
		t.Fatalf("settled pick mutated: %+v", got)
	}
}

func TestSweepIsolatesFeedErrors(t *testing.T) {
	picks := newMockPickRepo()
	picks.picks["p1"] = pendingPick("p1", "agent-1", "g1", domain.BetMoneyline, domain.SideHome, 0, -110, 1.0, fixedNow().Add(-12*time.Hour))

	feed := &sportsfeed.MockFeed{Err: errors.New("feed down")}
	svc := newSettlementFixture(picks, newMockPerformanceRepo(), feed, 72*time.Hour)

	stats, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("per-pick errors should not abort the sweep: %v", err)
	}
	if stats.Errors != 1 || stats.Settled != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if picks.picks["p1"].Result != domain.ResultPending {
		t.Fatal("pick with failed lookup must stay pending")
	}
}
