package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These follow the RFC 9106 low-memory profile, which
// is plenty for machine credentials that are long and random rather than
// human-chosen.
const (
	argonIterations  uint32 = 3
	argonMemory      uint32 = 64 * 1024
	argonParallelism uint8  = 2
	argonSaltLength         = 16
	argonKeyLength   uint32 = 32
)

var ErrSecretMismatch = errors.New("cryptox: secret does not match hash")

// HashSecret produces a PHC-format argon2id hash of a client shared secret,
// embedding the salt and parameters so verification is self-describing.
func HashSecret(secret string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifySecret checks a plaintext secret against a PHC-format argon2id hash.
// Returns ErrSecretMismatch when the secret is wrong and a descriptive error
// when the stored hash is malformed.
func VerifySecret(secret, encodedHash string) error {
	var (
		mem, iters uint32
		par        uint8
		saltB64    string
		keyB64     string
	)

	n, err := fmt.Sscanf(encodedHash, "$argon2id$v=19$m=%d,t=%d,p=%d$%s", &mem, &iters, &par, &saltB64)
	if err != nil || n != 4 {
		return errors.New("cryptox: malformed argon2id hash")
	}

	// Sscanf's %s is greedy, so saltB64 currently holds "salt$key".
	for i := range len(saltB64) {
		if saltB64[i] == '$' {
			keyB64 = saltB64[i+1:]
			saltB64 = saltB64[:i]
			break
		}
	}
	if keyB64 == "" {
		return errors.New("cryptox: malformed argon2id hash")
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return fmt.Errorf("cryptox: decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil {
		return fmt.Errorf("cryptox: decode key: %w", err)
	}

	got := argon2.IDKey([]byte(secret), salt, iters, mem, par, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrSecretMismatch
	}
	return nil
}
