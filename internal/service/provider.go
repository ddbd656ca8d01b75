package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gemstore/internal/config"
)

const (
	authPath  = "/api/v1/auth"
	queryPath = "/api/v1/inventory"

	// Cached tokens are treated as expired slightly early so an in-flight
	// query never carries a token that lapses mid-request.
	tokenExpirySkew = 30 * time.Second
)

// ProviderClient speaks the inventory provider's wire protocol: a separate
// auth POST yielding a bearer token, then JSON {query, variables} POSTs to a
// fixed inventory endpoint.
type ProviderClient struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	origin     string

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewProviderClient creates a provider client from configuration.
func NewProviderClient(cfg *config.ProviderConfig) *ProviderClient {
	origin := ""
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Scheme != "" {
		origin = u.Scheme + "://" + u.Host
	}
	return &ProviderClient{
		cfg:    cfg,
		origin: origin,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Origin returns the provider origin used to resolve relative media paths.
func (c *ProviderClient) Origin() string {
	return c.origin
}

// IsEnabled returns whether the client is configured and ready.
func (c *ProviderClient) IsEnabled() bool {
	return c.cfg.Enabled
}

// authResponse is the provider's auth payload. Expires is a lifetime in
// seconds.
type authResponse struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
}

// Token returns a valid bearer token, re-authenticating only when the cached
// one is absent or expired. The cache is invisible to the compiler's retry
// logic: a retry reuses the same token as its first attempt.
func (c *ProviderClient) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	if !c.cfg.Enabled {
		return "", &AuthError{Err: fmt.Errorf("provider credentials are not configured")}
	}

	creds, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+authPath, bytes.NewReader(creds))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", &AuthError{Err: fmt.Errorf("unexpected auth payload: %w", err)}
	}
	if auth.Token == "" {
		return "", &AuthError{Err: fmt.Errorf("auth payload carried no token")}
	}

	c.token = auth.Token
	c.expiry = time.Now().Add(time.Duration(auth.Expires)*time.Second - tokenExpirySkew)
	return c.token, nil
}

// SearchPage is one page of raw provider items plus the provider-reported
// total.
type SearchPage struct {
	Items      []RawItem
	TotalCount int
}

// RawItem is a provider inventory record as it arrives on the wire.
type RawItem struct {
	ID           string          `json:"id"`
	Price        *float64        `json:"price"`
	Currency     string          `json:"currency"`
	Availability string          `json:"availability"`
	ImagePath    string          `json:"image"`
	VideoPath    string          `json:"v360"`
	Certificate  *RawCertificate `json:"certificate"`
}

// RawCertificate is the structured grading sub-object a provider item may
// carry. Every field is optional.
type RawCertificate struct {
	Color        *string  `json:"color"`
	Clarity      *string  `json:"clarity"`
	Cut          *string  `json:"cut"`
	Carats       *float64 `json:"carats"`
	Shape        *string  `json:"shape"`
	Lab          *string  `json:"lab"`
	LabGrownType *string  `json:"lab_grown_type"`
	Polish       *string  `json:"polish"`
	Symmetry     *string  `json:"symmetry"`
	Fluorescence *string  `json:"fluorescence"`
	Girdle       *string  `json:"girdle"`
	Measurements *string  `json:"measurements"`
	TablePct     *float64 `json:"table_percentage"`
	DepthPct     *float64 `json:"depth_percentage"`
}

// queryEnvelope is the provider's response wrapper. Success requires a 2xx
// status and an empty errors list, both.
type queryEnvelope struct {
	Data *struct {
		Search *struct {
			Items      []RawItem `json:"items"`
			TotalCount int       `json:"total_count"`
		} `json:"diamonds_by_query"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts a compiled query body and classifies the three failure
// channels: transport errors, non-2xx statuses (body text is the
// diagnostic), and 2xx payloads carrying a non-empty error list.
func (c *ProviderClient) Query(ctx context.Context, token string, body []byte) (*SearchPage, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &QueryRejectedError{Status: resp.StatusCode, Diagnostic: string(respBody)}
	}

	var envelope queryEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return nil, &QueryRejectedError{Status: resp.StatusCode, Diagnostic: strings.Join(msgs, "; ")}
	}

	if envelope.Data == nil || envelope.Data.Search == nil {
		return nil, &MalformedResponseError{Err: fmt.Errorf("response carried neither data nor errors")}
	}

	return &SearchPage{
		Items:      envelope.Data.Search.Items,
		TotalCount: envelope.Data.Search.TotalCount,
	}, nil
}
