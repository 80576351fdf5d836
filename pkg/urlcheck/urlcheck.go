package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Validation failure classes. Handlers map these onto specific 400 reasons;
// they are safety boundaries, never downgraded to warnings.
var (
	// ErrInvalidURL covers empty input, parse failures and non-http(s) schemes.
	ErrInvalidURL = errors.New("urlcheck: invalid url")

	// ErrForbiddenTarget covers targets blocked by policy: allow-list miss,
	// deny-list hit, localhost aliases, private or loopback addresses.
	ErrForbiddenTarget = errors.New("urlcheck: forbidden target")

	// ErrUnresolvableHost is returned when hostname resolution fails or
	// exceeds the configured timeout.
	ErrUnresolvableHost = errors.New("urlcheck: unresolvable host")
)

// DefaultResolveTimeout bounds the one blocking call in the validator.
const DefaultResolveTimeout = 5 * time.Second

// Policy decides whether a target URL may be handed to the scanning engine.
// Zero value is the default-deny posture: only public, resolvable http(s)
// hosts pass.
type Policy struct {
	// AllowHosts, when non-empty, is authoritative and exclusive: the host
	// must match one of these patterns and every other check is skipped.
	// Patterns are exact lowercase hostnames or "*."-prefixed wildcards
	// ("*.test.com" matches "api.test.com").
	AllowHosts []string

	// DenyHosts are patterns (same syntax) that block a target outright.
	DenyHosts []string

	// AllowLoopback permits localhost aliases and loopback addresses.
	AllowLoopback bool

	// AllowPrivate permits RFC 1918, link-local and 169.254/16 targets.
	AllowPrivate bool

	// ResolveTimeout bounds hostname resolution. Zero means
	// DefaultResolveTimeout.
	ResolveTimeout time.Duration

	// Resolver overrides the DNS resolver, mainly for tests.
	Resolver *net.Resolver
}

// Validate classifies raw as scannable or forbidden. Checks run in a fixed
// order: parse, scheme, allow-list (short-circuits everything else),
// localhost aliases, deny-list, resolution, address class. The allow-list
// runs before any network call because it is an operator-trusted override
// of the safety policy.
func (p *Policy) Validate(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if len(p.AllowHosts) > 0 {
		if matchesAny(host, p.AllowHosts) {
			return nil
		}
		return fmt.Errorf("%w: %q is not on the allow-list", ErrForbiddenTarget, host)
	}

	localhostAlias := isLocalhostAlias(host)
	if localhostAlias && !p.AllowLoopback {
		return fmt.Errorf("%w: localhost targets are disabled", ErrForbiddenTarget)
	}

	// A host admitted through the localhost allowance is not re-blocked by
	// the deny-list.
	if !localhostAlias && matchesAny(host, p.DenyHosts) {
		return fmt.Errorf("%w: %q is deny-listed", ErrForbiddenTarget, host)
	}

	addrs, err := p.resolve(ctx, host)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnresolvableHost, host, err)
	}

	for _, addr := range addrs {
		if err := p.checkAddress(addr.IP); err != nil {
			return err
		}
	}
	return nil
}

func (p *Policy) resolve(ctx context.Context, host string) ([]net.IPAddr, error) {
	// IP literals need no lookup.
	if ip := net.ParseIP(host); ip != nil {
		return []net.IPAddr{{IP: ip}}, nil
	}

	timeout := p.ResolveTimeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver := p.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return resolver.LookupIPAddr(ctx, host)
}

func (p *Policy) checkAddress(ip net.IP) error {
	switch {
	case ip.IsLoopback() || ip.IsUnspecified():
		if !p.AllowLoopback {
			return fmt.Errorf("%w: %s resolves to a loopback address", ErrForbiddenTarget, ip)
		}
	case ip.IsPrivate(), ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		if !p.AllowPrivate {
			return fmt.Errorf("%w: %s is a private or link-local address", ErrForbiddenTarget, ip)
		}
	}
	return nil
}

// isLocalhostAlias reports whether host is one of the well-known localhost
// spellings that must be caught before any resolution happens.
func isLocalhostAlias(host string) bool {
	return host == "localhost" ||
		host == "::1" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasSuffix(host, ".localhost")
}

// matchesAny reports whether host matches at least one pattern. Patterns are
// exact hostnames, "*" (everything), or "*."-prefixed suffix wildcards.
func matchesAny(host string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if pattern == "*" || pattern == host {
			return true
		}
		if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
		}
	}
	return false
}
