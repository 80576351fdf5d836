package domain

import "fmt"

// Mode selects how the gateway authenticates incoming scan requests.
type Mode int

const (
	// ModeOpen admits every request without credentials.
	ModeOpen Mode = iota

	// ModeSharedSecret requires a static API key on every scan request.
	ModeSharedSecret

	// ModeToken requires a bearer access token, falling back to the shared
	// secret check when no bearer token is presented.
	ModeToken
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "open":
		return ModeOpen, nil
	case "shared-secret":
		return ModeSharedSecret, nil
	case "token":
		return ModeToken, nil
	default:
		return ModeOpen, fmt.Errorf("unknown gateway mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeOpen:
		return "open"
	case ModeSharedSecret:
		return "shared-secret"
	case ModeToken:
		return "token"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
