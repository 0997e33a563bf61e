package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bankguard/internal/models"
	"bankguard/internal/repository"
	"bankguard/internal/utils"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) *ClientRepository {
	utils.LogSuccess("ClientRepository", "Client repository initialised")
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	query := `INSERT INTO clients (id, name, email) VALUES ($1, $2, $3)`

	utils.LogDB("CREATE CLIENT", fmt.Sprintf("Creating client: %s", client.Name))

	id := uuid.New().String()
	if _, err := r.db.Exec(ctx, query, id, client.Name, client.Email); err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	client.ID = id
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, client models.Client) error {
	query := `UPDATE clients SET name = $1, email = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, client.Name, client.Email, client.ID)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s", repository.ErrNotFound, client.ID)
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s", repository.ErrNotFound, id)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, name, email FROM clients WHERE id = $1`

	var client models.Client
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Name, &client.Email)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: client %s", repository.ErrNotFound, id)
		}
		return nil, fmt.Errorf("fetching client: %w", err)
	}
	return &client, nil
}

func (r *ClientRepository) FindByName(ctx context.Context, fragment string) ([]models.Client, error) {
	query := `
		SELECT id, name, email
		FROM clients
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY seq
	`
	return r.list(ctx, query, fragment)
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	return r.list(ctx, `SELECT id, name, email FROM clients ORDER BY seq`)
}

func (r *ClientRepository) list(ctx context.Context, query string, args ...any) ([]models.Client, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Client, error) {
		var c models.Client
		err := row.Scan(&c.ID, &c.Name, &c.Email)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning clients: %w", err)
	}
	return clients, nil
}
