package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	"github.com/sentinelsec/scangate/internal/gateway/store"
	"github.com/sentinelsec/scangate/pkg/cryptox"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

var (
	ErrInvalidClient  = errors.New("invalid_client")
	ErrClientDisabled = errors.New("client_disabled")
)

// dummyHash keeps secret verification constant-time when the client id is
// unknown. It is a real argon2id hash of a random value nobody knows.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$c2NhbmdhdGUtZHVtbXktc2FsdA$T1nH5vFJsyWfCFKyGaXPkMSbYwyFve56GHzYdDcRYTA"

// CredentialService manages the registered client credentials. The registry
// is seeded from configuration at startup and read-only afterwards.
type CredentialService struct {
	Store store.Store
}

// SeedEntry is one configured client credential, parsed from the
// "id:secret:scope1 scope2" registry format.
type SeedEntry struct {
	ID     string
	Secret string
	Scopes []string
}

// ParseSeedEntries parses a comma-separated client registry declaration.
// Each entry is id:secret:scopes, with scopes space-delimited and optional.
func ParseSeedEntries(raw string) ([]SeedEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries []SeedEntry
	for _, part := range strings.Split(raw, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 3)
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("malformed client entry %q (want id:secret[:scopes])", part)
		}

		entry := SeedEntry{ID: fields[0], Secret: fields[1]}
		if len(fields) == 3 {
			entry.Scopes = strings.Fields(fields[2])
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Seed hashes each configured secret and upserts the client into the
// registry. Clients present in the store but absent from the seed are left
// alone so operators can manage extras out of band.
func (s *CredentialService) Seed(ctx context.Context, entries []SeedEntry) error {
	l := slogx.FromContext(ctx)

	for _, e := range entries {
		hash, err := cryptox.HashSecret(e.Secret)
		if err != nil {
			return fmt.Errorf("hash secret for client %q: %w", e.ID, err)
		}

		if err := s.Store.Clients().UpsertClient(ctx, domain.Client{
			ID:         e.ID,
			Name:       e.ID,
			SecretHash: hash,
			Scopes:     e.Scopes,
		}); err != nil {
			return fmt.Errorf("seed client %q: %w", e.ID, err)
		}

		l.Info("seeded client credential", slog.String("client_id", e.ID))
	}

	return nil
}

// Authenticate verifies a client id and shared secret against the registry.
// Unknown ids still burn an argon2 verification so response timing does not
// reveal which ids exist.
func (s *CredentialService) Authenticate(ctx context.Context, clientID, secret string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifySecret(secret, dummyHash)
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, err
	}

	if err := cryptox.VerifySecret(secret, client.SecretHash); err != nil {
		return domain.Client{}, ErrInvalidClient
	}

	if client.Disabled {
		return domain.Client{}, ErrClientDisabled
	}

	return client, nil
}

// FindByKey resolves a bare API key to the client it belongs to. The whole
// registry is scanned and every hash verified so response timing does not
// depend on where (or whether) the key matches.
func (s *CredentialService) FindByKey(ctx context.Context, secret string) (domain.Client, error) {
	clients, err := s.Store.Clients().ListClients(ctx)
	if err != nil {
		return domain.Client{}, err
	}

	var found *domain.Client
	for i := range clients {
		if cryptox.VerifySecret(secret, clients[i].SecretHash) == nil {
			found = &clients[i]
		}
	}

	if found == nil {
		return domain.Client{}, ErrInvalidClient
	}
	if found.Disabled {
		return domain.Client{}, ErrClientDisabled
	}

	return *found, nil
}

// Lookup fetches a client without checking its secret. Used when validating
// tokens, where possession of a signed token is the proof.
func (s *CredentialService) Lookup(ctx context.Context, clientID string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, err
	}
	if client.Disabled {
		return domain.Client{}, ErrClientDisabled
	}
	return client, nil
}

// IsEmpty reports whether the registry has no clients at all.
func (s *CredentialService) IsEmpty(ctx context.Context) (bool, error) {
	return s.Store.Clients().IsEmpty(ctx)
}
