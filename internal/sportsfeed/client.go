package sportsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pickslate/internal/domain"
)

// HTTPClient implementa ambos feeds contra el servicio externo de datos
// deportivos (solo lectura).
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httpClient,
	}
}

func (c *HTTPClient) ListCandidateGames(ctx context.Context, sports []domain.Sport, date string) ([]domain.Game, error) {
	names := make([]string, len(sports))
	for i, s := range sports {
		names[i] = string(s)
	}
	endpoint := fmt.Sprintf("%s/games?sports=%s&date=%s",
		c.baseURL, url.QueryEscape(strings.Join(names, ",")), url.QueryEscape(date))

	var body struct {
		Games []domain.Game `json:"games"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return body.Games, nil
}

func (c *HTTPClient) GetResult(ctx context.Context, gameID string) (*domain.FinalScore, error) {
	endpoint := fmt.Sprintf("%s/results/%s", c.baseURL, url.PathEscape(gameID))

	var body struct {
		Final bool               `json:"final"`
		Score *domain.FinalScore `json:"score"`
	}
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	if !body.Final {
		return nil, nil
	}
	return body.Score, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Resultado aún no publicado: tratamos 404 como "no final".
		return json.Unmarshal([]byte(`{}`), out)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sports feed status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
