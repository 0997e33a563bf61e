//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"bankguard/internal/models"
	"bankguard/internal/repository"
	"bankguard/internal/repository/postgres"
	"bankguard/migrations"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bankguard"),
		tcpostgres.WithUsername("bankguard"),
		tcpostgres.WithPassword("bankguard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "starting postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Up(pool))
	// Applying twice is a no-op.
	require.NoError(t, migrations.Up(pool))
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	clients := postgres.NewClientRepository(pool)
	accounts := postgres.NewAccountRepository(pool)
	transactions := postgres.NewTransactionRepository(pool)

	t.Run("clients", func(t *testing.T) {
		alice := &models.Client{Name: "Alice Martin", Email: "alice@example.com"}
		require.NoError(t, clients.Create(ctx, alice))
		require.NotEmpty(t, alice.ID)

		found, err := clients.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, *alice, *found)

		byName, err := clients.FindByName(ctx, "mart")
		require.NoError(t, err)
		require.Len(t, byName, 1)

		for _, name := range []string{"a_b Literal", "axb Wildcard", `100% c\d`} {
			require.NoError(t, clients.Create(ctx, &models.Client{Name: name, Email: "w@example.com"}))
		}
		underscore, err := clients.FindByName(ctx, "A_B")
		require.NoError(t, err)
		require.Len(t, underscore, 1)
		assert.Equal(t, "a_b Literal", underscore[0].Name)

		percent, err := clients.FindByName(ctx, `0% c\`)
		require.NoError(t, err)
		require.Len(t, percent, 1)

		alice.Email = "a.martin@example.com"
		require.NoError(t, clients.Update(ctx, *alice))

		_, err = clients.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, clients.Delete(ctx, "missing"), repository.ErrNotFound)
	})

	t.Run("accounts and transactions", func(t *testing.T) {
		owner := &models.Client{Name: "Bob", Email: "bob@example.com"}
		require.NoError(t, clients.Create(ctx, owner))

		last, err := accounts.LastNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", last)

		checking := models.NewCheckingAccount("CPT-10000", 100, owner.ID, 50)
		require.NoError(t, accounts.Create(ctx, &checking))
		savings := models.NewSavingsAccount("CPT-10001", 200, owner.ID, 2.5)
		require.NoError(t, accounts.Create(ctx, &savings))

		dup := models.NewCheckingAccount("CPT-10001", 0, owner.ID, 0)
		assert.ErrorIs(t, accounts.Create(ctx, &dup), repository.ErrDuplicate)

		last, err = accounts.LastNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CPT-10001", last)

		found, err := accounts.FindByNumber(ctx, "CPT-10001")
		require.NoError(t, err)
		assert.Equal(t, models.SavingsTerms{InterestRate: 2.5}, found.Terms)

		updated, ok := checking.WithOverdraft(75)
		require.True(t, ok)
		require.NoError(t, accounts.Update(ctx, updated.WithBalance(120)))
		found, err = accounts.FindByID(ctx, checking.ID)
		require.NoError(t, err)
		assert.Equal(t, 120.0, found.Balance)
		assert.Equal(t, models.CheckingTerms{Overdraft: 75}, found.Terms)

		list, err := accounts.FindByClientID(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "CPT-10000", list[0].Number)

		base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		older := &models.Transaction{Timestamp: base, Amount: 10, Kind: models.TransactionDeposit, Location: "Paris, France", AccountID: checking.ID}
		newer := &models.Transaction{Timestamp: base.Add(time.Hour), Amount: 20, Kind: models.TransactionTransfer, Location: "Lyon, France", AccountID: savings.ID}
		require.NoError(t, transactions.Create(ctx, older))
		require.NoError(t, transactions.Create(ctx, newer))

		byClient, err := transactions.FindByClientID(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, byClient, 2)
		assert.Equal(t, newer.ID, byClient[0].ID)
		assert.True(t, byClient[1].Timestamp.Equal(base))
		assert.Equal(t, time.UTC, byClient[1].Timestamp.Location())

		byAccount, err := transactions.FindByAccountID(ctx, checking.ID)
		require.NoError(t, err)
		require.Len(t, byAccount, 1)
		assert.Equal(t, models.TransactionDeposit, byAccount[0].Kind)

		require.NoError(t, transactions.Delete(ctx, older.ID))
		_, err = transactions.FindByID(ctx, older.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
