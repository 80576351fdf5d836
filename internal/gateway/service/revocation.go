package service

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// RevocationService remembers revoked token ids (jti) until the token they
// belong to would have expired anyway. Entries past their natural expiry are
// dropped so the list never grows beyond the set of live tokens.
//
// The list is in-memory only: a restart forgets revocations, which is
// acceptable because tokens are short-lived and the signing key can be
// rotated for a hard cutoff.
type RevocationService struct {
	cache *ttlcache.Cache[string, time.Time]
}

// NewRevocationService creates an empty revocation list.
func NewRevocationService() *RevocationService {
	cache := ttlcache.New[string, time.Time](
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)
	return &RevocationService{cache: cache}
}

// Start runs the cache janitor until Stop is called. Expired entries are
// also purged lazily on access, so running the janitor is optional.
func (s *RevocationService) Start() { s.cache.Start() }

// Stop halts the cache janitor.
func (s *RevocationService) Stop() { s.cache.Stop() }

// Revoke marks a token id revoked until expiresAt. Revoking an already
// revoked id is a no-op unless the new expiry is later, in which case the
// entry is extended. Ids already past expiry are not stored.
func (s *RevocationService) Revoke(jti string, expiresAt time.Time) {
	s.cache.DeleteExpired()

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	if item := s.cache.Get(jti); item != nil && !item.Value().Before(expiresAt) {
		return
	}

	s.cache.Set(jti, expiresAt, ttl)
}

// IsRevoked reports whether a token id is on the revocation list.
func (s *RevocationService) IsRevoked(jti string) bool {
	s.cache.DeleteExpired()
	return s.cache.Has(jti)
}

// Len reports the number of live revocations, for observability.
func (s *RevocationService) Len() int {
	s.cache.DeleteExpired()
	return s.cache.Len()
}
