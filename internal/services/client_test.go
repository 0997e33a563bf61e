package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_CreateTrimsAndValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	client, err := f.clientSvc.CreateClient(ctx, "  Alice Martin ", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Alice Martin", client.Name)

	_, err = f.clientSvc.CreateClient(ctx, "   ", "bob@example.com")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = f.clientSvc.CreateClient(ctx, "Bob", "bob@example")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Len(t, f.clientSvc.ListClients(ctx), 1)
}

func TestClientService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Alice")

	require.NoError(t, f.clientSvc.UpdateClient(ctx, client.ID, " Alice M. ", " alice.m@example.org "))
	got, ok := f.clientSvc.FindClientByID(ctx, client.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice M.", got.Name)
	assert.Equal(t, "alice.m@example.org", got.Email)

	assert.ErrorIs(t, f.clientSvc.UpdateClient(ctx, "missing", "Name", "a@b.co"), ErrClientNotFound)
	assert.ErrorIs(t, f.clientSvc.UpdateClient(ctx, client.ID, "", "a@b.co"), ErrInvalidName)
	assert.ErrorIs(t, f.clientSvc.UpdateClient(ctx, "", "Name", "a@b.co"), ErrInvalidID)
}

func TestClientService_DeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Alice")
	account := f.checking(t, client.ID, 10)

	err := f.clientSvc.DeleteClient(ctx, client.ID)
	assert.ErrorIs(t, err, ErrClientHasAccounts)
	assert.Contains(t, err.Error(), "1 account(s)")

	require.NoError(t, f.accountSvc.DeleteAccount(ctx, account.Number))
	require.NoError(t, f.clientSvc.DeleteClient(ctx, client.ID))

	_, ok := f.clientSvc.FindClientByID(ctx, client.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, f.clientSvc.DeleteClient(ctx, client.ID), ErrClientNotFound)
}

func TestClientService_FindByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.client(t, "Alice Martin")
	f.client(t, "Bob Martinez")
	f.client(t, "Carol")

	assert.Len(t, f.clientSvc.FindClientsByName(ctx, "martin"), 2)
	assert.Len(t, f.clientSvc.FindClientsByName(ctx, " CAROL "), 1)
	assert.Empty(t, f.clientSvc.FindClientsByName(ctx, " "))
}

func TestClientService_Aggregations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := f.client(t, "Alice")
	low := f.checking(t, client.ID, 50)
	high := f.checking(t, client.ID, 250)

	assert.Equal(t, 2, f.clientSvc.AccountCount(ctx, client.ID))
	assert.Equal(t, 300.0, f.clientSvc.TotalBalance(ctx, client.ID))

	maxAcc, ok := f.clientSvc.MaxBalanceAccount(ctx, client.ID)
	require.True(t, ok)
	assert.Equal(t, high.Number, maxAcc.Number)

	minAcc, ok := f.clientSvc.MinBalanceAccount(ctx, client.ID)
	require.True(t, ok)
	assert.Equal(t, low.Number, minAcc.Number)

	report, err := f.clientSvc.ClientReport(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.AccountCount)
	assert.Equal(t, 300.0, report.TotalBalance)
	assert.Equal(t, high.Number, report.MaxAccount.Number)
	assert.Equal(t, low.Number, report.MinAccount.Number)

	assert.Zero(t, f.clientSvc.AccountCount(ctx, ""))
	_, err = f.clientSvc.ClientReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientService_ReportWithoutAccounts(t *testing.T) {
	f := newFixture(t)
	client := f.client(t, "Alice")

	report, err := f.clientSvc.ClientReport(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Zero(t, report.AccountCount)
	assert.Nil(t, report.MaxAccount)
	assert.Nil(t, report.MinAccount)
}
