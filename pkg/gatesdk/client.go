package gatesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client is an HTTP client for the scan gateway.
// It provides access to unauthenticated operations and can create
// authenticated Sessions for scan operations.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// APIKey, when set, is sent as X-Api-Key on scan operations. This is
	// only needed against gateways running in shared-secret mode.
	APIKey string
}

// NewClient creates a new gateway client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the client's HTTP client.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out. Non-2xx responses are returned as *GatewayError.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, headers map[string]string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	if headers == nil {
		headers = map[string]string{}
	}
	if in != nil {
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.doRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// Token exchanges client credentials for a token pair.
func (c *Client) Token(ctx context.Context, clientID, clientSecret string) (*TokenResponse, error) {
	var resp TokenResponse
	req := TokenRequest{ClientID: clientID, ClientSecret: clientSecret}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/token", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var resp TokenResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks an access token without consuming it.
func (c *Client) Validate(ctx context.Context, accessToken string) (*ValidateResponse, error) {
	var resp ValidateResponse
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/validate", nil, &resp, headers); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Revoke invalidates a token ahead of its natural expiry.
func (c *Client) Revoke(ctx context.Context, token string) error {
	req := RevokeRequest{Token: token}
	return c.doJSON(ctx, http.MethodPost, "/auth/revoke", req, nil, nil)
}

// Livez reports whether the gateway process is alive.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Readyz reports whether the gateway is ready to serve scan traffic.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Authenticate creates an authenticated session using client credentials.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (*Session, error) {
	tokenResp, err := c.Token(ctx, clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// Session is an authenticated gateway session. It holds a token pair and
// transparently refreshes the access token when it nears expiry.
type Session struct {
	client *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *Client, resp *TokenResponse) *Session {
	return &Session{
		client:       c,
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		expiresAt:    expiryFrom(resp.ExpiresIn),
	}
}

// NewSessionFromTokens creates a session from previously stored tokens.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiryFrom(expiresIn),
	}
}

// expiryFrom converts a lifetime in seconds to an absolute deadline with a
// 30 second refresh buffer.
func expiryFrom(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn) * time.Second).Add(-30 * time.Second)
}

// getValidToken returns a usable access token, refreshing it if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh session: %w", err)
	}

	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.expiresAt = expiryFrom(resp.ExpiresIn)

	return s.accessToken, nil
}

// doAuth performs an authenticated JSON request using the session's token.
func (s *Session) doAuth(ctx context.Context, method, path string, in, out any) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if s.client.APIKey != "" {
		headers["X-Api-Key"] = s.client.APIKey
	}

	return s.client.doJSON(ctx, method, path, in, out, headers)
}

// StartScan submits a target URL for scanning.
func (s *Session) StartScan(ctx context.Context, req ScanRequest) (*ScanResponse, error) {
	var resp ScanResponse
	if err := s.doAuth(ctx, http.MethodPost, "/v1/scans", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScanStatus reports the progress of a running scan job.
func (s *Session) ScanStatus(ctx context.Context, jobID string) (*ScanStatusResponse, error) {
	var resp ScanStatusResponse
	if err := s.doAuth(ctx, http.MethodGet, "/v1/scans/"+jobID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopScan halts a running scan job.
func (s *Session) StopScan(ctx context.Context, jobID string) error {
	return s.doAuth(ctx, http.MethodDelete, "/v1/scans/"+jobID, nil, nil)
}
