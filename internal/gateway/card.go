package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tripdesk/internal/service"
)

// CardClient creates checkout sessions at the external card processor.
type CardClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCardClient creates a card processor client.
func NewCardClient(baseURL string, timeout time.Duration) *CardClient {
	return &CardClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// sessionResponse covers the three accepted response shapes.
type sessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
	Error     string `json:"error"`
}

// CreateSession posts a checkout-session request with the bearer credential.
// A 401 maps to the distinct reauthenticate error; any other failure is a
// recoverable gateway error and the caller may retry.
func (c *CardClient) CreateSession(ctx context.Context, bearer string, req service.CardSessionRequest) (*service.CardSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, service.ErrReauthenticate
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", service.ErrGatewayUnavailable, resp.StatusCode)
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrGatewayUnavailable, err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("%w: %s", service.ErrGatewayUnavailable, sr.Error)
	}
	if sr.URL == "" && sr.SessionID == "" {
		return nil, fmt.Errorf("%w: empty session response", service.ErrGatewayUnavailable)
	}

	return &service.CardSession{URL: sr.URL, SessionID: sr.SessionID}, nil
}
