package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pickslate/internal/domain"
)

// HTTPClient implementa GameEvaluator contra el servicio externo de scoring.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httpClient,
	}
}

type evaluateRequest struct {
	Game        domain.Game              `json:"game"`
	Personality domain.PersonalityParams `json:"personality"`
	Insights    domain.CustomInsights    `json:"insights"`
}

type evaluateResponse struct {
	Pick *wirePick `json:"pick"`
}

// wirePick tolera cuotas como número o como texto ("-110", "+180"); varios
// evaluadores basados en LLM devuelven las cuotas entre comillas.
type wirePick struct {
	domain.ProposedPick
	Odds          wireOdds  `json:"odds"`
	FairValueOdds *wireOdds `json:"fair_value_odds"`
}

func (w wirePick) toDomain() *domain.ProposedPick {
	pick := w.ProposedPick
	pick.Odds = int(w.Odds)
	pick.FairValueOdds = nil
	if w.FairValueOdds != nil {
		fair := int(*w.FairValueOdds)
		pick.FairValueOdds = &fair
	}
	return &pick
}

type wireOdds int

func (o *wireOdds) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*o = wireOdds(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("odds: expected number or string, got %s", data)
	}
	odds, ok := domain.ParseAmericanOdds(s)
	if !ok {
		return fmt.Errorf("odds: unparseable value %q", s)
	}
	*o = wireOdds(odds)
	return nil
}

func (c *HTTPClient) Evaluate(ctx context.Context, game domain.Game, params domain.PersonalityParams, insights domain.CustomInsights) (*domain.ProposedPick, error) {
	payload, err := json.Marshal(evaluateRequest{Game: game, Personality: params, Insights: insights})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/evaluate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("evaluator status %d", resp.StatusCode)
	}

	var body evaluateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Pick == nil {
		return nil, nil
	}
	pick := body.Pick.toDomain()
	if pick.GameID == "" {
		pick.GameID = game.ID
	}
	return pick, nil
}
