package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"bankguard/internal/models"
	"bankguard/internal/repository"
)

type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]models.Transaction
	order        []string
	accounts     *AccountRepository
}

// NewTransactionRepository needs the account store to resolve the
// client-to-transaction join.
func NewTransactionRepository(accounts *AccountRepository) *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]models.Transaction),
		accounts:     accounts,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = uuid.New().String()
	stored := *tx
	stored.Timestamp = stored.Timestamp.UTC()
	r.transactions[tx.ID] = stored
	r.order = append(r.order, tx.ID)
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID]; !exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrNotFound, tx.ID)
	}
	tx.Timestamp = tx.Timestamp.UTC()
	r.transactions[tx.ID] = tx
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[id]; !exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	delete(r.transactions, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return &tx, nil
}

func (r *TransactionRepository) FindByAccountID(ctx context.Context, accountID string) ([]models.Transaction, error) {
	return r.filter(func(tx models.Transaction) bool {
		return tx.AccountID == accountID
	}), nil
}

func (r *TransactionRepository) FindByClientID(ctx context.Context, clientID string) ([]models.Transaction, error) {
	owned, err := r.accounts.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	accountIDs := make(map[string]bool, len(owned))
	for _, account := range owned {
		accountIDs[account.ID] = true
	}

	return r.filter(func(tx models.Transaction) bool {
		return accountIDs[tx.AccountID]
	}), nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]models.Transaction, error) {
	return r.filter(func(models.Transaction) bool { return true }), nil
}

// filter returns the matching transactions newest first; equal timestamps
// keep insertion order.
func (r *TransactionRepository) filter(match func(models.Transaction) bool) []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Transaction
	for _, id := range r.order {
		if tx := r.transactions[id]; match(tx) {
			result = append(result, tx)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}
