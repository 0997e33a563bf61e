package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankguard/internal/models"
	"bankguard/internal/repository/memory"
	"bankguard/internal/services"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type env struct {
	clients      *services.ClientService
	accounts     *services.AccountService
	transactions *services.TransactionService
	reports      *Service
}

func newEnv() *env {
	clientRepo := memory.NewClientRepository()
	accountRepo := memory.NewAccountRepository()
	txRepo := memory.NewTransactionRepository(accountRepo)

	e := &env{
		clients:      services.NewClientService(clientRepo, accountRepo),
		accounts:     services.NewAccountService(accountRepo, clientRepo, txRepo),
		transactions: services.NewTransactionService(txRepo, accountRepo),
	}
	e.transactions.SetClock(func() time.Time { return now })
	e.reports = NewService(e.clients, e.accounts, e.transactions)
	e.reports.SetClock(func() time.Time { return now })
	return e
}

func (e *env) account(t *testing.T, owner string, balance float64) *models.Account {
	t.Helper()
	ctx := context.Background()
	c, err := e.clients.CreateClient(ctx, owner, "owner@example.com")
	require.NoError(t, err)
	a, err := e.accounts.CreateCheckingAccount(ctx, balance, c.ID, 0)
	require.NoError(t, err)
	return a
}

func (e *env) post(t *testing.T, number string, at time.Time, amount float64, kind models.TransactionKind) {
	t.Helper()
	_, err := e.transactions.PostTransaction(context.Background(), services.PostTransactionInput{
		Timestamp: at, Amount: amount, Kind: kind, Location: "Rabat, Morocco", AccountNumber: number,
	})
	require.NoError(t, err)
}

func TestTopClientsByBalance(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	for i, balance := range []float64{100, 500, 10, 300, 50, 400, 200} {
		e.account(t, fmt.Sprintf("client-%d", i), balance)
	}

	top := e.reports.TopClientsByBalance(ctx)
	require.Len(t, top, TopClientsLimit)

	var totals []float64
	for _, entry := range top {
		totals = append(totals, entry.TotalBalance)
		assert.Equal(t, 1, entry.AccountCount)
	}
	assert.Equal(t, []float64{500, 400, 300, 200, 100}, totals)
}

func TestTopClientsByBalance_SumsAccountsAndKeepsTies(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	first := e.account(t, "first", 100)
	_, err := e.accounts.CreateSavingsAccount(ctx, 50, first.ClientID, 1)
	require.NoError(t, err)
	e.account(t, "second", 150)

	top := e.reports.TopClientsByBalance(ctx)
	require.Len(t, top, 2)
	assert.Equal(t, "first", top[0].Client.Name)
	assert.Equal(t, 2, top[0].AccountCount)
	assert.Equal(t, 150.0, top[0].TotalBalance)
	assert.Equal(t, "second", top[1].Client.Name)
}

func TestMonthlyReport(t *testing.T) {
	e := newEnv()
	a := e.account(t, "alice", 0)

	e.post(t, a.Number, time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC), 100, models.TransactionDeposit)
	e.post(t, a.Number, time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC), 200, models.TransactionWithdrawal)
	e.post(t, a.Number, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), 50, models.TransactionDeposit)

	report := e.reports.MonthlyReport(context.Background(), models.YearMonth{Year: 2025, Month: time.January})

	assert.Equal(t, KindStats{Kind: models.TransactionDeposit, Count: 1, Volume: 100, Average: 100}, report.ByKind[models.TransactionDeposit])
	assert.Equal(t, KindStats{Kind: models.TransactionWithdrawal, Count: 1, Volume: 200, Average: 200}, report.ByKind[models.TransactionWithdrawal])
	_, hasTransfer := report.ByKind[models.TransactionTransfer]
	assert.False(t, hasTransfer)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 300.0, report.TotalVolume)

	kinds := report.Kinds()
	require.Len(t, kinds, 2)
	assert.Equal(t, models.TransactionDeposit, kinds[0].Kind)

	empty := e.reports.MonthlyReport(context.Background(), models.YearMonth{Year: 2024, Month: time.March})
	assert.Empty(t, empty.ByKind)
	assert.Zero(t, empty.TotalCount)
}

func TestMonthlyReport_OffsetDoesNotMoveTheMonth(t *testing.T) {
	e := newEnv()
	a := e.account(t, "alice", 0)

	instant := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	e.post(t, a.Number, instant, 100, models.TransactionDeposit)
	e.post(t, a.Number, instant.In(time.FixedZone("UTC+5", 5*60*60)), 100, models.TransactionDeposit)

	january := e.reports.MonthlyReport(context.Background(), models.YearMonth{Year: 2025, Month: time.January})
	february := e.reports.MonthlyReport(context.Background(), models.YearMonth{Year: 2025, Month: time.February})

	assert.Equal(t, 2, january.TotalCount)
	assert.Zero(t, february.TotalCount)
}

func TestInactiveAccounts(t *testing.T) {
	e := newEnv()

	never := e.account(t, "never", 0)
	stale := e.account(t, "stale", 0)
	recent := e.account(t, "recent", 0)
	boundary := e.account(t, "boundary", 0)

	e.post(t, stale.Number, now.AddDate(0, 0, -120), 10, models.TransactionDeposit)
	e.post(t, stale.Number, now.AddDate(0, 0, -95), 10, models.TransactionDeposit)
	e.post(t, recent.Number, now.AddDate(0, 0, -200), 10, models.TransactionDeposit)
	e.post(t, recent.Number, now.AddDate(0, 0, -3), 10, models.TransactionDeposit)
	// Exactly 90 whole days is not more than 90.
	e.post(t, boundary.Number, now.AddDate(0, 0, -90).Add(-time.Hour), 10, models.TransactionDeposit)

	inactive := e.reports.InactiveAccounts(context.Background(), 90)
	require.Len(t, inactive, 2)

	assert.Equal(t, never.Number, inactive[0].Account.Number)
	assert.Nil(t, inactive[0].LastActivity)
	assert.Equal(t, "never", inactive[0].OwnerName)

	assert.Equal(t, stale.Number, inactive[1].Account.Number)
	require.NotNil(t, inactive[1].LastActivity)
	assert.True(t, inactive[1].LastActivity.Equal(now.AddDate(0, 0, -95)))
	assert.Equal(t, 95, inactive[1].DaysIdle)

	assert.Nil(t, e.reports.InactiveAccounts(context.Background(), -1))
}

func TestSuspiciousTransactions(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	a := e.account(t, "alice", 0)
	b := e.account(t, "bob", 0)

	base := now.Add(-48 * time.Hour)
	e.post(t, a.Number, base, 25000, models.TransactionTransfer)
	e.post(t, b.Number, base.Add(time.Minute), 10, models.TransactionDeposit)
	e.post(t, b.Number, base.Add(6*time.Hour), 10, models.TransactionDeposit)

	flagged := e.reports.SuspiciousTransactions(ctx, services.SuspicionCriteria{
		AmountThreshold:   10000,
		UsualCountry:      "Morocco",
		MaxMinutesBetween: 5,
	})
	require.Len(t, flagged, 2)
	assert.Equal(t, 10.0, flagged[0].Amount)
	assert.Equal(t, 25000.0, flagged[1].Amount)
}
