package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bankguard/internal/metrics"
	"bankguard/internal/models"
	"bankguard/internal/numbering"
	"bankguard/internal/repository"
	"bankguard/internal/utils"
	"bankguard/internal/validation"
)

const maxNumberAttempts = 10

type AccountService struct {
	// mu serializes number allocation with the insert that consumes it.
	mu           sync.Mutex
	accounts     repository.AccountRepository
	clients      repository.ClientRepository
	transactions repository.TransactionRepository
	sequence     numbering.Sequence
	metrics      *metrics.Collector
}

type AccountReport struct {
	Account          models.Account
	Owner            *models.Client
	TransactionCount int
}

func NewAccountService(
	accounts repository.AccountRepository,
	clients repository.ClientRepository,
	transactions repository.TransactionRepository,
) *AccountService {
	return &AccountService{
		accounts:     accounts,
		clients:      clients,
		transactions: transactions,
		sequence:     numbering.NewStoreSequence(accounts),
	}
}

// SetSequence replaces the default allocator, which derives each number from
// the last persisted account.
func (s *AccountService) SetSequence(seq numbering.Sequence) {
	s.sequence = seq
	utils.LogSuccess("AccountService", "Account number sequence replaced (%T)", seq)
}

func (s *AccountService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

func (s *AccountService) CreateCheckingAccount(ctx context.Context, balance float64, clientID string, overdraft float64) (account *models.Account, err error) {
	defer func() { s.metrics.RecordOperation("create_checking_account", outcome(err)) }()

	utils.LogInfo("AccountService", "Opening checking account for client %s (balance: %.2f, overdraft: %.2f)", clientID, balance, overdraft)

	if !validation.IsValidBalance(balance) {
		return nil, s.reject(fmt.Errorf("%w: %v", ErrInvalidBalance, balance))
	}
	if !validation.IsValidID(clientID) {
		return nil, s.reject(fmt.Errorf("%w: %q", ErrInvalidID, clientID))
	}
	if !validation.IsValidBalance(overdraft) {
		return nil, s.reject(fmt.Errorf("%w: %v", ErrInvalidOverdraft, overdraft))
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	return s.open(ctx, func(number string) models.Account {
		return models.NewCheckingAccount(number, balance, clientID, overdraft)
	})
}

func (s *AccountService) CreateSavingsAccount(ctx context.Context, balance float64, clientID string, interestRate float64) (account *models.Account, err error) {
	defer func() { s.metrics.RecordOperation("create_savings_account", outcome(err)) }()

	utils.LogInfo("AccountService", "Opening savings account for client %s (balance: %.2f, rate: %.2f%%)", clientID, balance, interestRate)

	if !validation.IsValidBalance(balance) {
		return nil, s.reject(fmt.Errorf("%w: %v", ErrInvalidBalance, balance))
	}
	if !validation.IsValidID(clientID) {
		return nil, s.reject(fmt.Errorf("%w: %q", ErrInvalidID, clientID))
	}
	if !validation.IsValidPercentage(interestRate) {
		return nil, s.reject(fmt.Errorf("%w: %v", ErrInvalidInterestRate, interestRate))
	}
	if err := s.requireClient(ctx, clientID); err != nil {
		return nil, err
	}

	return s.open(ctx, func(number string) models.Account {
		return models.NewSavingsAccount(number, balance, clientID, interestRate)
	})
}

// open allocates a number and persists the account built for it, retrying
// when the number turns out to be taken already.
func (s *AccountService) open(ctx context.Context, build func(number string) models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.sequence.Next(ctx)
		if err != nil {
			if errors.Is(err, numbering.ErrExhausted) || errors.Is(err, numbering.ErrMalformed) {
				utils.LogError("AccountService", "Cannot allocate account number", err)
				return nil, fmt.Errorf("%w: %w", ErrNumberAllocation, err)
			}
			utils.LogError("AccountService", "Failed to allocate account number", err)
			return nil, storageError("allocating account number", err)
		}

		account := build(number)
		err = s.accounts.Create(ctx, &account)
		if err == nil {
			s.metrics.RecordAccountCreated(string(account.Kind()))
			utils.LogSuccess("AccountService", "Account %s generated for client %s (%s, balance: %.2f)",
				account.Number, account.ClientID, account.Kind(), account.Balance)
			return &account, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			utils.LogError("AccountService", fmt.Sprintf("Failed to create account %s", number), err)
			return nil, storageError("creating account", err)
		}

		utils.LogWarning("AccountService", "Account number %s already taken, retrying (%d/%d)", number, attempt, maxNumberAttempts)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNumberAllocation, maxNumberAttempts)
}

func (s *AccountService) UpdateBalance(ctx context.Context, number string, newBalance float64) (err error) {
	defer func() { s.metrics.RecordOperation("update_balance", outcome(err)) }()

	utils.LogInfo("AccountService", "Setting balance of %s to %.2f", number, newBalance)

	if !validation.IsValidAccountNumber(number) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number))
	}
	if !validation.IsValidBalance(newBalance) {
		return s.reject(fmt.Errorf("%w: %v", ErrInvalidBalance, newBalance))
	}

	account, err := s.loadByNumber(ctx, number)
	if err != nil {
		return err
	}
	return s.save(ctx, account.WithBalance(newBalance))
}

func (s *AccountService) UpdateOverdraft(ctx context.Context, number string, newOverdraft float64) (err error) {
	defer func() { s.metrics.RecordOperation("update_overdraft", outcome(err)) }()

	utils.LogInfo("AccountService", "Setting overdraft of %s to %.2f", number, newOverdraft)

	if !validation.IsValidAccountNumber(number) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number))
	}
	if !validation.IsValidBalance(newOverdraft) {
		return s.reject(fmt.Errorf("%w: %v", ErrInvalidOverdraft, newOverdraft))
	}

	account, err := s.loadByNumber(ctx, number)
	if err != nil {
		return err
	}
	updated, ok := account.WithOverdraft(newOverdraft)
	if !ok {
		return s.reject(fmt.Errorf("%w: %s is a %s account", ErrWrongAccountKind, number, account.Kind()))
	}
	return s.save(ctx, updated)
}

func (s *AccountService) UpdateInterestRate(ctx context.Context, number string, newRate float64) (err error) {
	defer func() { s.metrics.RecordOperation("update_interest_rate", outcome(err)) }()

	utils.LogInfo("AccountService", "Setting interest rate of %s to %.2f%%", number, newRate)

	if !validation.IsValidAccountNumber(number) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number))
	}
	if !validation.IsValidPercentage(newRate) {
		return s.reject(fmt.Errorf("%w: %v", ErrInvalidInterestRate, newRate))
	}

	account, err := s.loadByNumber(ctx, number)
	if err != nil {
		return err
	}
	updated, ok := account.WithInterestRate(newRate)
	if !ok {
		return s.reject(fmt.Errorf("%w: %s is a %s account", ErrWrongAccountKind, number, account.Kind()))
	}
	return s.save(ctx, updated)
}

// DeleteAccount refuses while transactions reference the account. The check
// and the delete are separate storage calls.
func (s *AccountService) DeleteAccount(ctx context.Context, number string) (err error) {
	defer func() { s.metrics.RecordOperation("delete_account", outcome(err)) }()

	utils.LogInfo("AccountService", "Deleting account %s", number)

	if !validation.IsValidAccountNumber(number) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number))
	}

	account, err := s.loadByNumber(ctx, number)
	if err != nil {
		return err
	}

	transactions, err := s.transactions.FindByAccountID(ctx, account.ID)
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("Failed to list transactions of %s", number), err)
		return storageError("listing account transactions", err)
	}
	if len(transactions) > 0 {
		return s.reject(fmt.Errorf("%w: %s has %d transaction(s)", ErrAccountHasTransactions, number, len(transactions)))
	}

	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, number)
		}
		utils.LogError("AccountService", fmt.Sprintf("Failed to delete account %s", number), err)
		return storageError("deleting account", err)
	}

	utils.LogSuccess("AccountService", "Account %s deleted", number)
	return nil
}

func (s *AccountService) FindAccountByID(ctx context.Context, id string) (*models.Account, bool) {
	if !validation.IsValidID(id) {
		utils.LogWarning("AccountService", "Invalid account id %q", id)
		return nil, false
	}
	return s.found(s.accounts.FindByID(ctx, id))
}

func (s *AccountService) FindAccountByNumber(ctx context.Context, number string) (*models.Account, bool) {
	if !validation.IsValidString(number) {
		utils.LogWarning("AccountService", "Empty account number")
		return nil, false
	}
	return s.found(s.accounts.FindByNumber(ctx, number))
}

func (s *AccountService) FindAccountsByClient(ctx context.Context, clientID string) []models.Account {
	if !validation.IsValidID(clientID) {
		utils.LogWarning("AccountService", "Invalid client id %q", clientID)
		return nil
	}

	accounts, err := s.accounts.FindByClientID(ctx, clientID)
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("Failed to list accounts of client %s", clientID), err)
		return nil
	}
	return accounts
}

func (s *AccountService) ListAccounts(ctx context.Context) []models.Account {
	accounts, err := s.accounts.FindAll(ctx)
	if err != nil {
		utils.LogError("AccountService", "Failed to list accounts", err)
		return nil
	}
	return accounts
}

// MaxBalanceAccount and its siblings keep the first account met in storage
// order when balances tie.
func (s *AccountService) MaxBalanceAccount(ctx context.Context) (*models.Account, bool) {
	return maxBalance(s.ListAccounts(ctx))
}

func (s *AccountService) MinBalanceAccount(ctx context.Context) (*models.Account, bool) {
	return minBalance(s.ListAccounts(ctx))
}

func (s *AccountService) MaxBalanceAccountByClient(ctx context.Context, clientID string) (*models.Account, bool) {
	return maxBalance(s.FindAccountsByClient(ctx, clientID))
}

func (s *AccountService) MinBalanceAccountByClient(ctx context.Context, clientID string) (*models.Account, bool) {
	return minBalance(s.FindAccountsByClient(ctx, clientID))
}

func (s *AccountService) AccountReport(ctx context.Context, accountID string) (*AccountReport, error) {
	if !validation.IsValidID(accountID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, accountID)
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		utils.LogError("AccountService", fmt.Sprintf("Failed to fetch account %s", accountID), err)
		return nil, storageError("fetching account", err)
	}

	transactions, err := s.transactions.FindByAccountID(ctx, accountID)
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("Failed to list transactions of %s", account.Number), err)
		return nil, storageError("listing account transactions", err)
	}

	report := &AccountReport{
		Account:          *account,
		TransactionCount: len(transactions),
	}
	if owner, err := s.clients.FindByID(ctx, account.ClientID); err == nil {
		report.Owner = owner
	} else if !errors.Is(err, repository.ErrNotFound) {
		utils.LogWarning("AccountService", "Owner of %s unavailable: %v", account.Number, err)
	}
	return report, nil
}

func (s *AccountService) requireClient(ctx context.Context, clientID string) error {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.reject(fmt.Errorf("%w: %s", ErrClientNotFound, clientID))
		}
		utils.LogError("AccountService", fmt.Sprintf("Failed to fetch client %s", clientID), err)
		return storageError("fetching client", err)
	}
	return nil
}

func (s *AccountService) loadByNumber(ctx context.Context, number string) (*models.Account, error) {
	account, err := s.accounts.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reject(fmt.Errorf("%w: %s", ErrAccountNotFound, number))
		}
		utils.LogError("AccountService", fmt.Sprintf("Failed to fetch account %s", number), err)
		return nil, storageError("fetching account", err)
	}
	return account, nil
}

func (s *AccountService) save(ctx context.Context, account models.Account) error {
	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account.Number)
		}
		utils.LogError("AccountService", fmt.Sprintf("Failed to update account %s", account.Number), err)
		return storageError("updating account", err)
	}

	utils.LogSuccess("AccountService", "Account %s updated", account.Number)
	return nil
}

func (s *AccountService) found(account *models.Account, err error) (*models.Account, bool) {
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.LogError("AccountService", "Failed to fetch account", err)
		}
		return nil, false
	}
	return account, true
}

func (s *AccountService) reject(err error) error {
	utils.LogWarning("AccountService", "%v", err)
	return err
}

func totalBalance(accounts []models.Account) float64 {
	var total float64
	for _, a := range accounts {
		total += a.Balance
	}
	return total
}

func maxBalance(accounts []models.Account) (*models.Account, bool) {
	if len(accounts) == 0 {
		return nil, false
	}
	best := accounts[0]
	for _, a := range accounts[1:] {
		if a.Balance > best.Balance {
			best = a
		}
	}
	return &best, true
}

func minBalance(accounts []models.Account) (*models.Account, bool) {
	if len(accounts) == 0 {
		return nil, false
	}
	best := accounts[0]
	for _, a := range accounts[1:] {
		if a.Balance < best.Balance {
			best = a
		}
	}
	return &best, true
}
