package store

import (
	"context"
	"errors"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Clients() Clients

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Clients interface {
	// GetClientByID fetches a registered client credential.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.Client, error)

	// CreateClient inserts a new client (id is provided by the app via ULID).
	CreateClient(ctx context.Context, c domain.Client) error

	// UpsertClient inserts a client or refreshes the secret hash and scopes of
	// an existing one. Used when seeding the registry from configuration.
	UpsertClient(ctx context.Context, c domain.Client) error

	// DeleteClient removes a client credential.
	DeleteClient(ctx context.Context, clientID string) error

	// IsEmpty returns true if there are no clients.
	IsEmpty(ctx context.Context) (bool, error)
}
