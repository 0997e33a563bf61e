package repository

import (
	"context"
	"errors"

	"bankguard/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a unique account number collision.
	ErrDuplicate = errors.New("duplicate entry")
)

type ClientRepository interface {
	// Create stores the client and fills in its generated ID.
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client models.Client) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Client, error)
	// FindByName matches a case-insensitive name fragment.
	FindByName(ctx context.Context, fragment string) ([]models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account models.Account) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByNumber(ctx context.Context, number string) (*models.Account, error)
	FindByClientID(ctx context.Context, clientID string) ([]models.Account, error)
	FindAll(ctx context.Context) ([]models.Account, error)
	// LastNumber returns the number of the most recently created account, or
	// "" when no account exists.
	LastNumber(ctx context.Context) (string, error)
}

// TransactionRepository lists are ordered newest first.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx models.Transaction) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	FindByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error)
	FindByClientID(ctx context.Context, clientID string) ([]models.Transaction, error)
	FindAll(ctx context.Context) ([]models.Transaction, error)
}
