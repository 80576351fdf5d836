package gatesdk

// ErrorResponse represents a structured error response from the gateway.
// This is used internally for parsing HTTP error responses; client code
// should use the GatewayError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_client")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	// ClientID identifies the registered client requesting tokens.
	// Optional: when empty the secret alone is matched against the registry.
	ClientID string `json:"client_id,omitempty"`

	// ClientSecret is the client's shared secret
	ClientSecret string `json:"client_secret"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	// RefreshToken is a previously issued refresh token
	RefreshToken string `json:"refresh_token"`
}

// RevokeRequest is the body of POST /auth/revoke.
type RevokeRequest struct {
	// Token is the access or refresh token to revoke
	Token string `json:"token"`
}

// TokenResponse is returned from the token and refresh endpoints.
type TokenResponse struct {
	// AccessToken is the JWT presented on scan operations
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT accepted only by the refresh endpoint
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`

	// ClientID identifies the client the tokens were issued to
	ClientID string `json:"client_id"`

	// Scopes lists the scopes granted to this token
	Scopes []string `json:"scopes,omitempty"`
}

// ValidateResponse is returned from GET /auth/validate.
// When the token is not valid only Valid and Error are populated.
type ValidateResponse struct {
	Valid bool `json:"valid"`

	// ClientID identifies the token subject (only when valid)
	ClientID string `json:"client_id,omitempty"`

	// Scopes lists the scopes the token grants (only when valid)
	Scopes []string `json:"scopes,omitempty"`

	// ExpiresIn is the remaining lifetime in seconds (only when valid)
	ExpiresIn int `json:"expires_in,omitempty"`

	// Error is the rejection reason (only when invalid)
	Error string `json:"error,omitempty"`
}

// ScanRequest is the body of POST /v1/scans.
type ScanRequest struct {
	// TargetURL is the absolute URL to scan
	TargetURL string `json:"target_url"`

	// Recurse controls whether the scan follows discovered pages
	Recurse bool `json:"recurse,omitempty"`

	// ScanPolicy names the backend scan policy to apply
	ScanPolicy string `json:"scan_policy,omitempty"`
}

// ScanResponse is returned from POST /v1/scans.
type ScanResponse struct {
	// JobID identifies the started scan job
	JobID string `json:"job_id"`

	// TargetURL echoes the validated target
	TargetURL string `json:"target_url"`
}

// ScanStatusResponse is returned from GET /v1/scans/{id}.
type ScanStatusResponse struct {
	// JobID identifies the scan job
	JobID string `json:"job_id"`

	// Progress is the backend-reported completion percentage (0-100)
	Progress int `json:"progress"`

	// Status is "running" or "complete"
	Status string `json:"status"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes the Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Registry indicates the credential registry status
	Registry string `json:"registry"`

	// Signer indicates the token signing capability status
	Signer string `json:"signer"`

	// Engine indicates scanner backend reachability; empty when no engine
	// is configured
	Engine string `json:"engine,omitempty"`
}
