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

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	utils.LogSuccess("TransactionRepository", "Transaction repository initialised")
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, occurred_at, amount, kind, location, account_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	id := uuid.New().String()
	_, err := r.db.Exec(ctx, query,
		id, tx.Timestamp, tx.Amount, string(tx.Kind), tx.Location, tx.AccountID,
	)
	if err != nil {
		return fmt.Errorf("recording transaction: %w", err)
	}

	tx.ID = id
	utils.LogDB("CREATE TRANSACTION", fmt.Sprintf("Transaction %s recorded: %.2f %s on account %s",
		id, tx.Amount, tx.Kind, tx.AccountID))
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx models.Transaction) error {
	query := `
		UPDATE transactions
		SET occurred_at = $1, amount = $2, kind = $3, location = $4, account_id = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query,
		tx.Timestamp, tx.Amount, string(tx.Kind), tx.Location, tx.AccountID, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", repository.ErrNotFound, tx.ID)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, occurred_at, amount, kind, location, account_id
		FROM transactions
		WHERE id = $1
	`

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
		}
		return nil, fmt.Errorf("fetching transaction: %w", err)
	}
	return &tx, nil
}

func (r *TransactionRepository) FindByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT id, occurred_at, amount, kind, location, account_id
		FROM transactions
		WHERE account_id = $1
		ORDER BY occurred_at DESC, seq
	`
	return r.list(ctx, query, accountID)
}

func (r *TransactionRepository) FindByClientID(ctx context.Context, clientID string) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.occurred_at, t.amount, t.kind, t.location, t.account_id
		FROM transactions t
		INNER JOIN accounts a ON t.account_id = a.id
		WHERE a.client_id = $1
		ORDER BY t.occurred_at DESC, t.seq
	`
	return r.list(ctx, query, clientID)
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]models.Transaction, error) {
	query := `
		SELECT id, occurred_at, amount, kind, location, account_id
		FROM transactions
		ORDER BY occurred_at DESC, seq
	`
	return r.list(ctx, query)
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx   models.Transaction
		kind string
	)
	err := row.Scan(
		&tx.ID,
		&tx.Timestamp,
		&tx.Amount,
		&kind,
		&tx.Location,
		&tx.AccountID,
	)
	tx.Kind = models.TransactionKind(kind)
	tx.Timestamp = tx.Timestamp.UTC()
	return tx, err
}
