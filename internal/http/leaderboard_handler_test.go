package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"pickslate/internal/domain"
	"pickslate/internal/service"
)

type mockPerformanceRepo struct {
	entries []domain.LeaderboardEntry
}

func (m *mockPerformanceRepo) Upsert(_ context.Context, _ domain.PerformanceCache) error {
	return nil
}

func (m *mockPerformanceRepo) GetByAgent(_ context.Context, _ string) (domain.PerformanceCache, error) {
	return domain.PerformanceCache{}, pgx.ErrNoRows
}

func (m *mockPerformanceRepo) ListLeaderboardEntries(_ context.Context, _ *domain.Sport) ([]domain.LeaderboardEntry, error) {
	return m.entries, nil
}

func setupLeaderboardRouter(entries []domain.LeaderboardEntry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	leaderboardSvc := service.NewLeaderboardService(zap.NewNop(), &mockPerformanceRepo{entries: entries}, nil)
	h := NewLeaderboardHandler(zap.NewNop(), leaderboardSvc)

	r := gin.New()
	r.GET("/leaderboard", h.Rank)
	return r
}

func TestLeaderboardRank(t *testing.T) {
	rateA, rateB := 0.7, 0.4
	r := setupLeaderboardRouter([]domain.LeaderboardEntry{
		{AgentID: "a2", Wins: 4, Losses: 6, WinRate: &rateB, NetUnits: -2, TotalPicks: 10},
		{AgentID: "a1", Wins: 7, Losses: 3, WinRate: &rateA, NetUnits: 5, TotalPicks: 10},
	})

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?sort=overall", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Sort    domain.SortMode           `json:"sort"`
		Entries []domain.LeaderboardEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Entries) != 2 || resp.Entries[0].AgentID != "a1" {
		t.Fatalf("unexpected ranking: %+v", resp.Entries)
	}
}

func TestLeaderboardRejectsInvalidSport(t *testing.T) {
	r := setupLeaderboardRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?sport=cricket", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeaderboardRejectsInvalidSort(t *testing.T) {
	r := setupLeaderboardRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?sort=chaos", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLeaderboardRejectsInvalidLimit(t *testing.T) {
	r := setupLeaderboardRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/leaderboard?limit=abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
