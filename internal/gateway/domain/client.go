package domain

import "time"

// Client is a registered machine credential allowed to request tokens.
type Client struct {
	ID         string
	Name       string
	SecretHash string
	Scopes     []string
	Disabled   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
