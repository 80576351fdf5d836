package gatesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sentinelsec/scangate/pkg/httpx"
)

// Error codes returned by the gateway. Auth codes follow RFC 6749/6750
// naming; target codes cover URL policy rejections.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidClient     = "invalid_client"
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeExpiredToken      = "expired_token"
	ErrorCodeTokenRevoked      = "token_revoked"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeInvalidTarget     = "invalid_target"
	ErrorCodeForbiddenTarget   = "forbidden_target"
	ErrorCodeUnresolvableHost  = "unresolvable_host"
	ErrorCodeUpstreamError     = "upstream_error"
	ErrorCodeServerError       = "server_error"
)

// GatewayError represents a structured error response from the gateway.
// It implements the error interface and is shared by the server handlers
// (to write HTTP responses) and the SDK client (to surface API failures).
type GatewayError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_client")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this GatewayError to an HTTP response writer.
func (e *GatewayError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined gateway errors.
var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter, includes an invalid parameter value, or is otherwise malformed.
	ErrInvalidRequest = &GatewayError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidClient is returned when client authentication failed.
	ErrInvalidClient = &GatewayError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidClient,
		Description: "invalid client credentials",
	}

	// ErrInvalidToken is returned when the presented bearer token is missing,
	// malformed, or carries a bad signature.
	ErrInvalidToken = &GatewayError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing or malformed",
	}

	// ErrExpiredToken is returned when the presented token is past its expiry.
	ErrExpiredToken = &GatewayError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeExpiredToken,
		Description: "the token has expired",
	}

	// ErrTokenRevoked is returned when the presented token has been revoked.
	ErrTokenRevoked = &GatewayError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenRevoked,
		Description: "the token has been revoked",
	}

	// ErrInsufficientScope is returned when the authenticated identity lacks
	// a scope the operation requires.
	ErrInsufficientScope = &GatewayError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientScope,
		Description: "the token does not grant the required scope",
	}

	// ErrInvalidTarget is returned when the scan target URL cannot be parsed
	// or uses an unsupported scheme.
	ErrInvalidTarget = &GatewayError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidTarget,
		Description: "the target URL is malformed or uses an unsupported scheme",
	}

	// ErrForbiddenTarget is returned when the scan target resolves to an
	// address the URL policy forbids.
	ErrForbiddenTarget = &GatewayError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeForbiddenTarget,
		Description: "the target URL is not permitted by the scan policy",
	}

	// ErrUnresolvableHost is returned when the scan target hostname does not
	// resolve to any address.
	ErrUnresolvableHost = &GatewayError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnresolvableHost,
		Description: "the target hostname could not be resolved",
	}

	// ErrUpstream is returned when the scanner backend fails or is unreachable.
	// The description is deliberately generic so backend details do not leak.
	ErrUpstream = &GatewayError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeUpstreamError,
		Description: "the scanner backend request failed",
	}

	// ErrServerError is returned when the gateway encountered an unexpected
	// condition that prevented it from fulfilling the request.
	ErrServerError = &GatewayError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewGatewayError creates a custom GatewayError with the given parameters.
func NewGatewayError(statusCode int, code, description string) *GatewayError {
	return &GatewayError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse converts an HTTP error response body into a GatewayError.
// If the body is not a structured error document, a generic error carrying the
// status code is returned instead.
func parseErrorResponse(statusCode int, body []byte) *GatewayError {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &GatewayError{
			StatusCode:  statusCode,
			Code:        ErrorCodeServerError,
			Description: fmt.Sprintf("unexpected response (HTTP %d)", statusCode),
		}
	}

	return &GatewayError{
		StatusCode:  statusCode,
		Code:        errResp.Error,
		Description: errResp.ErrorDescription,
	}
}
