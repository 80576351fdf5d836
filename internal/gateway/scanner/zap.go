package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ZAPEngine drives an OWASP ZAP daemon through its JSON management API.
type ZAPEngine struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewZAPEngine creates an engine client for the ZAP daemon at baseURL.
func NewZAPEngine(baseURL, apiKey string, timeout time.Duration) *ZAPEngine {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ZAPEngine{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// call performs a GET against a ZAP JSON endpoint and decodes the response.
// Every backend failure collapses into ErrUpstream with the cause attached.
func (z *ZAPEngine) call(ctx context.Context, path string, params url.Values, out any) error {
	u := z.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if z.APIKey != "" {
		req.Header.Set("X-ZAP-API-Key", z.APIKey)
	}

	resp, err := z.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return ErrUnknownJob
		}
		return fmt.Errorf("%w: backend returned HTTP %d", ErrUpstream, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	return nil
}

func (z *ZAPEngine) StartScan(ctx context.Context, targetURL string, opts Options) (string, error) {
	params := url.Values{}
	params.Set("url", targetURL)
	params.Set("recurse", strconv.FormatBool(opts.Recurse))
	if opts.Policy != "" {
		params.Set("scanPolicyName", opts.Policy)
	}

	var resp struct {
		Scan string `json:"scan"`
	}
	if err := z.call(ctx, "/JSON/ascan/action/scan/", params, &resp); err != nil {
		return "", err
	}
	if resp.Scan == "" {
		return "", fmt.Errorf("%w: backend returned no scan id", ErrUpstream)
	}

	return resp.Scan, nil
}

func (z *ZAPEngine) Progress(ctx context.Context, jobID string) (int, error) {
	params := url.Values{}
	params.Set("scanId", jobID)

	var resp struct {
		Status string `json:"status"`
	}
	if err := z.call(ctx, "/JSON/ascan/view/status/", params, &resp); err != nil {
		return 0, err
	}

	progress, err := strconv.Atoi(resp.Status)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable progress %q", ErrUpstream, resp.Status)
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return progress, nil
}

func (z *ZAPEngine) Stop(ctx context.Context, jobID string) error {
	params := url.Values{}
	params.Set("scanId", jobID)
	return z.call(ctx, "/JSON/ascan/action/stop/", params, nil)
}

// Ping checks the daemon's version endpoint, which answers on every build.
func (z *ZAPEngine) Ping(ctx context.Context) error {
	var resp struct {
		Version string `json:"version"`
	}
	return z.call(ctx, "/JSON/core/view/version/", nil, &resp)
}
