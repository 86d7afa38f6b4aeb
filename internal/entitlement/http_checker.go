package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPChecker consulta el proveedor externo de entitlements por HTTP.
type HTTPChecker struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPChecker(baseURL, apiKey string, httpClient *http.Client) *HTTPChecker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &HTTPChecker{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  httpClient,
	}
}

func (c *HTTPChecker) HasEntitlement(ctx context.Context, userID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/entitlements/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("entitlement provider status %d", resp.StatusCode)
	}

	var body struct {
		Entitled bool `json:"entitled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Entitled, nil
}
