package service

import (
	"context"
	"testing"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	"github.com/sentinelsec/scangate/internal/gateway/store/drivers/sqlite"
	"github.com/sentinelsec/scangate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestCredentials(t *testing.T) *CredentialService {
	t.Helper()

	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.ApplyMigrations())

	return &CredentialService{Store: store}
}

func TestParseSeedEntries(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields no entries", func(t *testing.T) {
		entries, err := ParseSeedEntries("")
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("parses ids, secrets, and scopes", func(t *testing.T) {
		entries, err := ParseSeedEntries("ci:s3cret:scan:read scan:write,probe:hunter2")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.Equal(t, "ci", entries[0].ID)
		require.Equal(t, "s3cret", entries[0].Secret)
		require.Equal(t, []string{"scan:read", "scan:write"}, entries[0].Scopes)

		require.Equal(t, "probe", entries[1].ID)
		require.Equal(t, "hunter2", entries[1].Secret)
		require.Empty(t, entries[1].Scopes)
	})

	t.Run("rejects entries without a secret", func(t *testing.T) {
		_, err := ParseSeedEntries("just-an-id")
		require.Error(t, err)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := ParseSeedEntries(":secret")
		require.Error(t, err)
	})
}

func TestCredentialService_SeedAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc := newTestCredentials(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, []SeedEntry{
		{ID: "scanner-ci", Secret: "correct-horse", Scopes: []string{"scan:write"}},
	}))

	t.Run("valid secret authenticates", func(t *testing.T) {
		client, err := svc.Authenticate(ctx, "scanner-ci", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, "scanner-ci", client.ID)
		require.Equal(t, []string{"scan:write"}, client.Scopes)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "scanner-ci", "wrong")
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("unknown client is rejected the same way", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("reseeding rotates the secret", func(t *testing.T) {
		require.NoError(t, svc.Seed(ctx, []SeedEntry{
			{ID: "scanner-ci", Secret: "rotated", Scopes: []string{"scan:write"}},
		}))

		_, err := svc.Authenticate(ctx, "scanner-ci", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidClient)

		_, err = svc.Authenticate(ctx, "scanner-ci", "rotated")
		require.NoError(t, err)
	})
}

func TestCredentialService_DisabledClient(t *testing.T) {
	t.Parallel()

	svc := newTestCredentials(t)
	ctx := context.Background()

	hash, err := cryptox.HashSecret("secret")
	require.NoError(t, err)

	require.NoError(t, svc.Store.Clients().CreateClient(ctx, domain.Client{
		ID:         "parked",
		SecretHash: hash,
		Disabled:   true,
	}))

	_, err = svc.Authenticate(ctx, "parked", "secret")
	require.ErrorIs(t, err, ErrClientDisabled)

	_, err = svc.Lookup(ctx, "parked")
	require.ErrorIs(t, err, ErrClientDisabled)
}

func TestCredentialService_IsEmpty(t *testing.T) {
	t.Parallel()

	svc := newTestCredentials(t)
	ctx := context.Background()

	empty, err := svc.IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, svc.Seed(ctx, []SeedEntry{{ID: "a", Secret: "b"}}))

	empty, err = svc.IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}
