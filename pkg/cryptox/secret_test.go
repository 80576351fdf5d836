package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("super-secret-value")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifySecret("super-secret-value", hash))
	require.ErrorIs(t, VerifySecret("wrong-value", hash), ErrSecretMismatch)
}

func TestHashSecretUsesFreshSalt(t *testing.T) {
	t.Parallel()

	a, err := HashSecret("same-input")
	require.NoError(t, err)
	b, err := HashSecret("same-input")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, VerifySecret("same-input", a))
	require.NoError(t, VerifySecret("same-input", b))
}

func TestVerifySecretRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	for _, h := range []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=2$onlysalt",
		"$bcrypt$whatever",
	} {
		require.Error(t, VerifySecret("anything", h))
	}
}
