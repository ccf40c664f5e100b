package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Token is a provider access token with its absolute expiry
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// CollectionParams describes one request-to-pay sent to the provider.
// ReferenceID is chosen by the caller and persisted before the request goes
// out, so a crash mid-call stays reconcilable by reference.
type CollectionParams struct {
	ReferenceID string
	Amount      int64
	Currency    string
	PayerPhone  string
	ExternalID  string
}

// CollectionStatus is the provider's view of a collection request
type CollectionStatus struct {
	Status string
	Reason string
}

// Client is the surface of the provider API the adapter needs
type Client interface {
	RequestCollection(ctx context.Context, token string, params CollectionParams) error
	GetCollectionStatus(ctx context.Context, token, providerRef string) (*CollectionStatus, error)
}

// TokenCreator mints fresh provider tokens; implemented by HTTPClient and
// consumed by the TokenManager
type TokenCreator interface {
	CreateToken(ctx context.Context) (*Token, error)
}

// HTTPClient talks to the mobile money collection API
type HTTPClient struct {
	baseURL         string
	apiUser         string
	apiKey          string
	subscriptionKey string
	httpc           *http.Client
}

// NewHTTPClient creates a provider client
func NewHTTPClient(baseURL, apiUser, apiKey, subscriptionKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:         baseURL,
		apiUser:         apiUser,
		apiKey:          apiKey,
		subscriptionKey: subscriptionKey,
		httpc:           &http.Client{Timeout: DefaultRequestTimeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// CreateToken exchanges the API credentials for a short-lived access token
func (c *HTTPClient) CreateToken(ctx context.Context) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+TokenEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiUser, c.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request rejected: status %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	return &Token{
		AccessToken: body.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}

type collectionRequest struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	ExternalID string `json:"externalId"`
	Payer      struct {
		PartyIDType string `json:"partyIdType"`
		PartyID     string `json:"partyId"`
	} `json:"payer"`
}

// RequestCollection submits a request-to-pay under the caller's reference
func (c *HTTPClient) RequestCollection(ctx context.Context, token string, params CollectionParams) error {
	payload := collectionRequest{
		Amount:     strconv.FormatInt(params.Amount, 10),
		Currency:   params.Currency,
		ExternalID: params.ExternalID,
	}
	payload.Payer.PartyIDType = "MSISDN"
	payload.Payer.PartyID = params.PayerPhone

	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CollectionEndpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Reference-Id", params.ReferenceID)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("collection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("collection request rejected: status %d", resp.StatusCode)
	}
	return nil
}

type statusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// GetCollectionStatus fetches the current state of a collection request
func (c *HTTPClient) GetCollectionStatus(ctx context.Context, token, providerRef string) (*CollectionStatus, error) {
	url := c.baseURL + CollectionEndpoint + "/" + providerRef
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request rejected: status %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	return &CollectionStatus{Status: body.Status, Reason: body.Reason}, nil
}
