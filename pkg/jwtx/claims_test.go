package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenUseDiscrimination(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	access := NewAccessClaims("c1", []string{"scan"}, time.Hour, "scangate", now)
	refresh := NewRefreshClaims("c1", []string{"scan"}, time.Hour, "scangate", now)

	require.NoError(t, access.ValidateUse(TokenUseAccess))
	require.ErrorIs(t, access.ValidateUse(TokenUseRefresh), ErrWrongUse)
	require.NoError(t, refresh.ValidateUse(TokenUseRefresh))
	require.ErrorIs(t, refresh.ValidateUse(TokenUseAccess), ErrWrongUse)
}

func TestNewJTIIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 256 {
		jti := NewJTI()
		require.Len(t, jti, 22) // 16 bytes base64url
		_, dup := seen[jti]
		require.False(t, dup)
		seen[jti] = struct{}{}
	}
}

func TestExpiresIn(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	c := NewAccessClaims("c1", nil, time.Hour, "scangate", now)

	require.InDelta(t, time.Hour, c.ExpiresIn(now), float64(time.Second))
	require.Equal(t, time.Duration(0), c.ExpiresIn(now.Add(2*time.Hour)))
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	live := NewAccessClaims("c1", nil, time.Hour, "scangate", time.Now().UTC())
	require.NoError(t, live.ValidateExpiry())

	dead := NewAccessClaims("c1", nil, time.Minute, "scangate", time.Now().UTC().Add(-time.Hour))
	require.ErrorIs(t, dead.ValidateExpiry(), ErrExpired)

	future := NewAccessClaims("c1", nil, time.Hour, "scangate", time.Now().UTC().Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), ErrNotYetValid)
}

func TestHasScope(t *testing.T) {
	t.Parallel()

	scoped := NewAccessClaims("c1", []string{"scan"}, time.Hour, "scangate", time.Now().UTC())
	require.True(t, scoped.HasScope("scan"))
	require.False(t, scoped.HasScope("admin"))

	wildcard := NewAccessClaims("c1", []string{"*"}, time.Hour, "scangate", time.Now().UTC())
	require.True(t, wildcard.HasScope("anything"))
}
