package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"bankguard/internal/models"
	"bankguard/internal/repository"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	numbers  map[string]string
	order    []string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]models.Account),
		numbers:  make(map[string]string),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.numbers[account.Number]; taken {
		return fmt.Errorf("%w: account number %s", repository.ErrDuplicate, account.Number)
	}

	account.ID = uuid.New().String()
	r.accounts[account.ID] = *account
	r.numbers[account.Number] = account.ID
	r.order = append(r.order, account.ID)
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.accounts[account.ID]
	if !exists {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, account.ID)
	}
	if existing.Number != account.Number {
		if _, taken := r.numbers[account.Number]; taken {
			return fmt.Errorf("%w: account number %s", repository.ErrDuplicate, account.Number)
		}
		delete(r.numbers, existing.Number)
		r.numbers[account.Number] = account.ID
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.accounts[id]
	if !exists {
		return fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	delete(r.accounts, id)
	delete(r.numbers, account.Number)
	r.order = removeID(r.order, id)
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, id)
	}
	return &account, nil
}

func (r *AccountRepository) FindByNumber(ctx context.Context, number string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.numbers[number]
	if !exists {
		return nil, fmt.Errorf("%w: account %s", repository.ErrNotFound, number)
	}
	account := r.accounts[id]
	return &account, nil
}

func (r *AccountRepository) FindByClientID(ctx context.Context, clientID string) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Account
	for _, id := range r.order {
		if account := r.accounts[id]; account.ClientID == clientID {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Account, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.accounts[id])
	}
	return result, nil
}

func (r *AccountRepository) LastNumber(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return "", nil
	}
	return r.accounts[r.order[len(r.order)-1]].Number, nil
}
