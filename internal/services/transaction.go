package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bankguard/internal/metrics"
	"bankguard/internal/models"
	"bankguard/internal/repository"
	"bankguard/internal/utils"
	"bankguard/internal/validation"
)

type TransactionService struct {
	transactions repository.TransactionRepository
	accounts     repository.AccountRepository
	now          func() time.Time
	metrics      *metrics.Collector
}

// PostTransactionInput carries the fields of a new or replaced transaction.
type PostTransactionInput struct {
	Timestamp     time.Time
	Amount        float64
	Kind          models.TransactionKind
	Location      string
	AccountNumber string
}

type KindSummary struct {
	Kind  models.TransactionKind
	Count int
	Total float64
}

type TransactionReport struct {
	AccountID  string
	Count      int
	Total      float64
	Average    float64
	ByKind     []KindSummary
	HighAmount []models.Transaction
}

func NewTransactionService(
	transactions repository.TransactionRepository,
	accounts repository.AccountRepository,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		accounts:     accounts,
		now:          time.Now,
	}
}

func (s *TransactionService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *TransactionService) SetMetrics(m *metrics.Collector) {
	s.metrics = m
}

// PostTransaction records a movement against an account. The account balance
// is not touched; balances change only through AccountService.UpdateBalance.
func (s *TransactionService) PostTransaction(ctx context.Context, in PostTransactionInput) (tx *models.Transaction, err error) {
	defer func() { s.metrics.RecordOperation("post_transaction", outcome(err)) }()

	utils.LogInfo("TransactionService", "Posting %s of %.2f on %s", in.Kind, in.Amount, in.AccountNumber)

	account, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	tx = &models.Transaction{
		Timestamp: in.Timestamp,
		Amount:    in.Amount,
		Kind:      in.Kind,
		Location:  in.Location,
		AccountID: account.ID,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		utils.LogError("TransactionService", fmt.Sprintf("Failed to post transaction on %s", in.AccountNumber), err)
		return nil, storageError("creating transaction", err)
	}

	utils.LogSuccess("TransactionService", "Transaction %s posted on %s", tx.ID, account.Number)
	return tx, nil
}

// UpdateTransaction replaces every field of an existing transaction under the
// same rules as PostTransaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, in PostTransactionInput) (err error) {
	defer func() { s.metrics.RecordOperation("update_transaction", outcome(err)) }()

	utils.LogInfo("TransactionService", "Updating transaction %s", id)

	if !validation.IsValidID(id) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidID, id))
	}
	account, err := s.validate(ctx, in)
	if err != nil {
		return err
	}

	updated := models.Transaction{
		ID:        id,
		Timestamp: in.Timestamp,
		Amount:    in.Amount,
		Kind:      in.Kind,
		Location:  in.Location,
		AccountID: account.ID,
	}
	if err := s.transactions.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.reject(fmt.Errorf("%w: %s", ErrTransactionNotFound, id))
		}
		utils.LogError("TransactionService", fmt.Sprintf("Failed to update transaction %s", id), err)
		return storageError("updating transaction", err)
	}

	utils.LogSuccess("TransactionService", "Transaction %s updated", id)
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) (err error) {
	defer func() { s.metrics.RecordOperation("delete_transaction", outcome(err)) }()

	if !validation.IsValidID(id) {
		return s.reject(fmt.Errorf("%w: %q", ErrInvalidID, id))
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.reject(fmt.Errorf("%w: %s", ErrTransactionNotFound, id))
		}
		utils.LogError("TransactionService", fmt.Sprintf("Failed to delete transaction %s", id), err)
		return storageError("deleting transaction", err)
	}

	utils.LogSuccess("TransactionService", "Transaction %s deleted", id)
	return nil
}

func (s *TransactionService) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, bool) {
	if !validation.IsValidID(id) {
		utils.LogWarning("TransactionService", "Invalid transaction id %q", id)
		return nil, false
	}

	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			utils.LogError("TransactionService", fmt.Sprintf("Failed to fetch transaction %s", id), err)
		}
		return nil, false
	}
	return tx, true
}

func (s *TransactionService) TransactionsByAccount(ctx context.Context, accountID string) []models.Transaction {
	if !validation.IsValidID(accountID) {
		utils.LogWarning("TransactionService", "Invalid account id %q", accountID)
		return nil
	}
	return s.newestFirst(s.transactions.FindByAccountID(ctx, accountID))
}

func (s *TransactionService) TransactionsByClient(ctx context.Context, clientID string) []models.Transaction {
	if !validation.IsValidID(clientID) {
		utils.LogWarning("TransactionService", "Invalid client id %q", clientID)
		return nil
	}
	return s.newestFirst(s.transactions.FindByClientID(ctx, clientID))
}

func (s *TransactionService) AllTransactions(ctx context.Context) []models.Transaction {
	return s.newestFirst(s.transactions.FindAll(ctx))
}

func (s *TransactionService) TotalByAccount(ctx context.Context, accountID string) float64 {
	return TotalAmount(s.TransactionsByAccount(ctx, accountID))
}

func (s *TransactionService) TotalByClient(ctx context.Context, clientID string) float64 {
	return TotalAmount(s.TransactionsByClient(ctx, clientID))
}

func (s *TransactionService) AverageByAccount(ctx context.Context, accountID string) (float64, bool) {
	return AverageAmount(s.TransactionsByAccount(ctx, accountID))
}

func (s *TransactionService) AverageByClient(ctx context.Context, clientID string) (float64, bool) {
	return AverageAmount(s.TransactionsByClient(ctx, clientID))
}

// DetectSuspiciousForAccount runs the combined detector over one account's
// history.
func (s *TransactionService) DetectSuspiciousForAccount(ctx context.Context, accountID string, criteria SuspicionCriteria) []models.Transaction {
	return s.Suspicious(s.TransactionsByAccount(ctx, accountID), criteria)
}

// Suspicious is DetectSuspicious with per-heuristic counters recorded.
func (s *TransactionService) Suspicious(txs []models.Transaction, criteria SuspicionCriteria) []models.Transaction {
	highAmount := DetectHighAmount(txs, criteria.AmountThreshold)
	unusual := DetectUnusualLocation(txs, criteria.UsualCountry)
	frequent := DetectHighFrequency(txs, criteria.MaxMinutesBetween)

	s.metrics.RecordSuspicious(HeuristicHighAmount, len(highAmount))
	s.metrics.RecordSuspicious(HeuristicUnusualLocation, len(unusual))
	s.metrics.RecordSuspicious(HeuristicHighFrequency, len(frequent))

	flagged := combine(txs, highAmount, unusual, frequent)
	if len(flagged) > 0 {
		utils.LogWarning("TransactionService", "%d suspicious transaction(s) out of %d", len(flagged), len(txs))
	}
	return flagged
}

func (s *TransactionService) TransactionReport(ctx context.Context, accountID string) (*TransactionReport, error) {
	if !validation.IsValidID(accountID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, accountID)
	}

	txs, err := s.transactions.FindByAccountID(ctx, accountID)
	if err != nil {
		utils.LogError("TransactionService", fmt.Sprintf("Failed to list transactions of account %s", accountID), err)
		return nil, storageError("listing account transactions", err)
	}

	report := &TransactionReport{
		AccountID:  accountID,
		Count:      len(txs),
		Total:      TotalAmount(txs),
		HighAmount: DetectHighAmount(txs, ReportHighAmountThreshold),
	}
	report.Average, _ = AverageAmount(txs)

	byKind := GroupByKind(txs)
	for _, kind := range models.TransactionKinds {
		if list, ok := byKind[kind]; ok {
			report.ByKind = append(report.ByKind, KindSummary{
				Kind:  kind,
				Count: len(list),
				Total: TotalAmount(list),
			})
		}
	}
	return report, nil
}

// validate checks the input in order and resolves the target account.
func (s *TransactionService) validate(ctx context.Context, in PostTransactionInput) (*models.Account, error) {
	if !validation.IsNotFuture(in.Timestamp, s.now()) {
		return nil, s.reject(fmt.Errorf("%w: %s", ErrInvalidTimestamp, in.Timestamp.Format(time.RFC3339)))
	}
	if !validation.IsValidAmount(in.Amount) {
		return nil, s.reject(fmt.Errorf("%w: %v", ErrInvalidAmount, in.Amount))
	}
	if !in.Kind.Valid() {
		return nil, s.reject(fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind))
	}
	if !validation.IsValidString(in.Location) {
		return nil, s.reject(fmt.Errorf("%w: %q", ErrInvalidLocation, in.Location))
	}
	if !validation.IsValidAccountNumber(in.AccountNumber) {
		return nil, s.reject(fmt.Errorf("%w: %q", ErrInvalidAccountNumber, in.AccountNumber))
	}

	account, err := s.accounts.FindByNumber(ctx, in.AccountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reject(fmt.Errorf("%w: %s", ErrAccountNotFound, in.AccountNumber))
		}
		utils.LogError("TransactionService", fmt.Sprintf("Failed to fetch account %s", in.AccountNumber), err)
		return nil, storageError("fetching account", err)
	}
	return account, nil
}

func (s *TransactionService) newestFirst(txs []models.Transaction, err error) []models.Transaction {
	if err != nil {
		utils.LogError("TransactionService", "Failed to list transactions", err)
		return nil
	}
	sortNewestFirst(txs)
	return txs
}

func (s *TransactionService) reject(err error) error {
	utils.LogWarning("TransactionService", "%v", err)
	return err
}
