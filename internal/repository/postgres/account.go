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

const accountColumns = `id, number, balance, client_id, kind, overdraft, interest_rate`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	utils.LogSuccess("AccountRepository", "Account repository initialised")
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, number, balance, client_id, kind, overdraft, interest_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	utils.LogDB("CREATE ACCOUNT", fmt.Sprintf("Creating %s account %s", account.Kind(), account.Number))

	id := uuid.New().String()
	overdraft, rate := account.KindColumns()
	_, err := r.db.Exec(ctx, query,
		id, account.Number, account.Balance, account.ClientID,
		string(account.Kind()), overdraft, rate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s", repository.ErrDuplicate, account.Number)
		}
		return fmt.Errorf("creating account: %w", err)
	}

	account.ID = id
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account models.Account) error {
	query := `
		UPDATE accounts
		SET number = $1, balance = $2, client_id = $3, kind = $4, overdraft = $5, interest_rate = $6
		WHERE id = $7
	`

	overdraft, rate := account.KindColumns()
	result, err := r.db.Exec(ctx, query,
		account.Number, account.Balance, account.ClientID,
		string(account.Kind()), overdraft, rate, account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s", repository.ErrDuplicate, account.Number)
		}
		return fmt.Errorf("updating account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, account.ID)
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.one(ctx, id, query, id)
}

func (r *AccountRepository) FindByNumber(ctx context.Context, number string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1`
	return r.one(ctx, number, query, number)
}

func (r *AccountRepository) FindByClientID(ctx context.Context, clientID string) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY seq`
	return r.list(ctx, query, clientID)
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY seq`
	return r.list(ctx, query)
}

func (r *AccountRepository) LastNumber(ctx context.Context) (string, error) {
	var number string
	err := r.db.QueryRow(ctx, `SELECT number FROM accounts ORDER BY seq DESC LIMIT 1`).Scan(&number)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("fetching last account number: %w", err)
	}
	return number, nil
}

func (r *AccountRepository) one(ctx context.Context, key, query string, args ...any) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, key)
		}
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) list(ctx context.Context, query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scanning accounts: %w", err)
	}
	return accounts, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var (
		account   models.Account
		kind      string
		overdraft *float64
		rate      *float64
	)
	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.Balance,
		&account.ClientID,
		&kind,
		&overdraft,
		&rate,
	)
	if err != nil {
		return models.Account{}, err
	}

	account.Terms, err = models.TermsFromColumns(kind, overdraft, rate)
	if err != nil {
		return models.Account{}, fmt.Errorf("account %s: %w", account.Number, err)
	}
	return account, nil
}
