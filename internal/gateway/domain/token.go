package domain

import "time"

// TokenPair represents what the token endpoint returns: the short-lived
// access token and the longer-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // always "Bearer"
	ExpiresIn    time.Duration
	ClientID     string
	Scopes       []string
}

// TokenInfo describes a verified access token.
type TokenInfo struct {
	ClientID  string
	Scopes    []string
	JTI       string
	ExpiresAt time.Time
}
