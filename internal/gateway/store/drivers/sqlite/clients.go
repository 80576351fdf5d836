package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
)

type clientsRepo struct {
	db *sql.DB
}

const clientColumns = `id, name, secret_hash, scopes, disabled, created_at, updated_at`

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, secret_hash, scopes, disabled)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.SecretHash, strings.Join(c.Scopes, " "), c.Disabled)
	return err
}

func (r *clientsRepo) UpsertClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, secret_hash, scopes, disabled)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   name        = excluded.name,
		   secret_hash = excluded.secret_hash,
		   scopes      = excluded.scopes,
		   disabled    = excluded.disabled,
		   updated_at  = CURRENT_TIMESTAMP`,
		c.ID, c.Name, c.SecretHash, strings.Join(c.Scopes, " "), c.Disabled)
	return err
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, clientID)
	return err
}

func (r *clientsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c         domain.Client
		scopes    string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &c.SecretHash, &scopes, &c.Disabled,
		&createdAt, &updatedAt); err != nil {
		return domain.Client{}, err
	}
	if scopes != "" {
		c.Scopes = strings.Fields(scopes)
	}
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return c, nil
}
