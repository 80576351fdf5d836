package urlcheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	p := &Policy{}
	ctx := context.Background()

	for _, raw := range []string{
		"",
		"   ",
		"not a url at all",
		"http://",
		"/relative/path",
	} {
		require.ErrorIs(t, p.Validate(ctx, raw), ErrInvalidURL, "input: %q", raw)
	}
}

func TestValidateRejectsNonHTTPSchemes(t *testing.T) {
	t.Parallel()

	p := &Policy{}
	ctx := context.Background()

	for _, raw := range []string{
		"ftp://example.com/",
		"file:///etc/passwd",
		"gopher://example.com/",
		"ldap://example.com/",
	} {
		require.ErrorIs(t, p.Validate(ctx, raw), ErrInvalidURL, "input: %q", raw)
	}
}

func TestValidateBlocksInternalTargetsByDefault(t *testing.T) {
	t.Parallel()

	p := &Policy{}
	ctx := context.Background()

	for _, raw := range []string{
		"http://localhost/",
		"http://localhost:8080/app",
		"http://127.0.0.1/",
		"http://127.9.9.9/",
		"http://[::1]/",
		"http://foo.localhost/",
		"http://10.0.0.5/",
		"http://172.16.0.1/",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data",
		"http://0.0.0.0/",
	} {
		require.ErrorIs(t, p.Validate(ctx, raw), ErrForbiddenTarget, "input: %q", raw)
	}
}

func TestValidateAllowancesOpenInternalTargets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	loopback := &Policy{AllowLoopback: true}
	require.NoError(t, loopback.Validate(ctx, "http://localhost/"))
	require.NoError(t, loopback.Validate(ctx, "http://127.0.0.1/"))
	require.ErrorIs(t, loopback.Validate(ctx, "http://10.0.0.5/"), ErrForbiddenTarget)

	private := &Policy{AllowPrivate: true}
	require.NoError(t, private.Validate(ctx, "http://10.0.0.5/"))
	require.NoError(t, private.Validate(ctx, "http://192.168.1.1/"))
	require.NoError(t, private.Validate(ctx, "http://169.254.169.254/"))
	require.ErrorIs(t, private.Validate(ctx, "http://127.0.0.1/"), ErrForbiddenTarget)
}

func TestAllowListIsAuthoritativeAndExclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &Policy{
		AllowHosts: []string{"example.com", "*.test.com"},
		// Deliberately hostile remaining policy: if anything past the
		// allow-list ran, these would reject the allowed cases.
		DenyHosts: []string{"example.com", "api.test.com"},
	}

	// Allow-list matches short-circuit everything, including resolution,
	// so no DNS is needed for these.
	require.NoError(t, p.Validate(ctx, "http://example.com/"))
	require.NoError(t, p.Validate(ctx, "https://api.test.com/path"))
	require.NoError(t, p.Validate(ctx, "http://EXAMPLE.COM/"))

	// Not on the list: rejected outright, no deny-list fallback.
	require.ErrorIs(t, p.Validate(ctx, "http://other.com/"), ErrForbiddenTarget)
	require.ErrorIs(t, p.Validate(ctx, "http://test.com/"), ErrForbiddenTarget)
	require.ErrorIs(t, p.Validate(ctx, "http://localhost/"), ErrForbiddenTarget)
}

func TestDenyListBlocksBeforeResolution(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &Policy{DenyHosts: []string{"blocked.example", "*.internal.example"}}

	require.ErrorIs(t, p.Validate(ctx, "http://blocked.example/"), ErrForbiddenTarget)
	require.ErrorIs(t, p.Validate(ctx, "http://db.internal.example/"), ErrForbiddenTarget)
}

func TestDenyListDoesNotOverrideLocalhostAllowance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &Policy{
		AllowLoopback: true,
		DenyHosts:     []string{"localhost", "127.0.0.1"},
	}

	require.NoError(t, p.Validate(ctx, "http://localhost/"))
	require.NoError(t, p.Validate(ctx, "http://127.0.0.1/"))
}

func TestValidateReportsUnresolvableHosts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &Policy{}

	// Reserved TLD, guaranteed not to resolve (RFC 6761).
	err := p.Validate(ctx, "http://definitely-not-real.invalid/")
	require.ErrorIs(t, err, ErrUnresolvableHost)
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()

	require.True(t, matchesAny("example.com", []string{"example.com"}))
	require.True(t, matchesAny("api.test.com", []string{"*.test.com"}))
	require.True(t, matchesAny("a.b.test.com", []string{"*.test.com"}))
	require.True(t, matchesAny("anything.at.all", []string{"*"}))

	require.False(t, matchesAny("test.com", []string{"*.test.com"}))
	require.False(t, matchesAny("evil-test.com", []string{"*.test.com"}))
	require.False(t, matchesAny("example.com", nil))
	require.False(t, matchesAny("example.com", []string{""}))
}
