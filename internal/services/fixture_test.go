package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bankguard/internal/models"
	"bankguard/internal/repository"
	"bankguard/internal/repository/memory"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clients      *memory.ClientRepository
	accounts     *memory.AccountRepository
	transactions *memory.TransactionRepository

	clientSvc  *ClientService
	accountSvc *AccountService
	txSvc      *TransactionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clients := memory.NewClientRepository()
	accounts := memory.NewAccountRepository()
	transactions := memory.NewTransactionRepository(accounts)

	txSvc := NewTransactionService(transactions, accounts)
	txSvc.SetClock(func() time.Time { return fixedNow })

	return &fixture{
		clients:      clients,
		accounts:     accounts,
		transactions: transactions,
		clientSvc:    NewClientService(clients, accounts),
		accountSvc:   NewAccountService(accounts, clients, transactions),
		txSvc:        txSvc,
	}
}

func (f *fixture) client(t *testing.T, name string) *models.Client {
	t.Helper()
	c, err := f.clientSvc.CreateClient(context.Background(), name, "someone@example.com")
	require.NoError(t, err)
	return c
}

func (f *fixture) checking(t *testing.T, clientID string, balance float64) *models.Account {
	t.Helper()
	a, err := f.accountSvc.CreateCheckingAccount(context.Background(), balance, clientID, 0)
	require.NoError(t, err)
	return a
}

func (f *fixture) post(t *testing.T, number string, at time.Time, amount float64, kind models.TransactionKind, location string) *models.Transaction {
	t.Helper()
	tx, err := f.txSvc.PostTransaction(context.Background(), PostTransactionInput{
		Timestamp:     at,
		Amount:        amount,
		Kind:          kind,
		Location:      location,
		AccountNumber: number,
	})
	require.NoError(t, err)
	return tx
}

var errBroken = errors.New("connection refused")

// brokenAccounts fails every call, standing in for an unreachable database.
type brokenAccounts struct{}

var _ repository.AccountRepository = brokenAccounts{}

func (brokenAccounts) Create(context.Context, *models.Account) error { return errBroken }
func (brokenAccounts) Update(context.Context, models.Account) error  { return errBroken }
func (brokenAccounts) Delete(context.Context, string) error          { return errBroken }
func (brokenAccounts) FindByID(context.Context, string) (*models.Account, error) {
	return nil, errBroken
}
func (brokenAccounts) FindByNumber(context.Context, string) (*models.Account, error) {
	return nil, errBroken
}
func (brokenAccounts) FindByClientID(context.Context, string) ([]models.Account, error) {
	return nil, errBroken
}
func (brokenAccounts) FindAll(context.Context) ([]models.Account, error) { return nil, errBroken }
func (brokenAccounts) LastNumber(context.Context) (string, error)        { return "", errBroken }
