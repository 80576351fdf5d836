package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256KeyRequirements(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, "scangate")
	require.ErrorIs(t, err, ErrMissingKey)

	_, err = NewHS256([]byte("too-short"), "scangate")
	require.ErrorIs(t, err, ErrKeyTooShort)

	_, err = NewHS256(testKey, "scangate")
	require.NoError(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := NewAccessClaims("client-1", []string{"scan", "report"}, time.Hour, "scangate", now)

	token, err := codec.Sign(claims)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "client-1", got.Subject)
	require.Equal(t, []string{"scan", "report"}, got.Scopes)
	require.Equal(t, TokenUseAccess, got.TokenUse)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	t.Parallel()

	codec, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)

	token, err := codec.Sign(NewAccessClaims("client-1", []string{"*"}, time.Hour, "scangate", time.Now().UTC()))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one character of the signature segment to another valid
	// base64url character.
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	t.Parallel()

	a, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)
	b, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "scangate")
	require.NoError(t, err)

	token, err := a.Sign(NewAccessClaims("client-1", nil, time.Hour, "scangate", time.Now().UTC()))
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	codec, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := codec.Sign(NewAccessClaims("client-1", nil, time.Hour, "scangate", issued))
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	codec, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)

	for _, raw := range []string{"", "x", "a.b", "a.b.c"} {
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, ErrMalformed)
	}
}

func TestVerifyChecksIssuer(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256(testKey, "someone-else")
	require.NoError(t, err)
	verifier, err := NewHS256(testKey, "scangate")
	require.NoError(t, err)

	token, err := signer.Sign(NewAccessClaims("client-1", nil, time.Hour, "someone-else", time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}
