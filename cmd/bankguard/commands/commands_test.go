package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankguard/internal/services"
)

func runMemory(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	err := run(append([]string{"--storage", "memory"}, args...), &out)
	return out.String(), err
}

func TestClientCreate_JSON(t *testing.T) {
	out, err := runMemory(t, "--json", "client", "create", "--name", "  Alice  ", "--email", "alice@example.com")
	require.NoError(t, err)

	var client struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &client))
	assert.Equal(t, "Alice", client.Name)
	assert.NotEmpty(t, client.ID)
}

func TestClientCreate_InvalidEmail(t *testing.T) {
	_, err := runMemory(t, "client", "create", "--name", "Alice", "--email", "not-an-email")
	assert.ErrorIs(t, err, services.ErrInvalidEmail)
}

func TestClientCreate_MissingFlag(t *testing.T) {
	_, err := runMemory(t, "client", "create", "--name", "Alice")
	assert.ErrorContains(t, err, "email")
}

func TestAccountOpen_UnknownClient(t *testing.T) {
	_, err := runMemory(t, "account", "open", "savings", "--client", "nobody", "--balance", "10", "--rate", "2")
	assert.ErrorIs(t, err, services.ErrClientNotFound)
}

func TestAccountShow_NotFound(t *testing.T) {
	_, err := runMemory(t, "account", "show", "CPT-00042")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestAccountSet_BadValue(t *testing.T) {
	_, err := runMemory(t, "account", "set-balance", "CPT-10000", "lots")
	assert.ErrorContains(t, err, "must be a number")
}

func TestTxPost_BadKind(t *testing.T) {
	_, err := runMemory(t, "tx", "post", "--account", "CPT-10000", "--amount", "5", "--kind", "refund", "--location", "Paris, France")
	assert.ErrorIs(t, err, services.ErrInvalidKind)
}

func TestTxSummary_BadGrouping(t *testing.T) {
	_, err := runMemory(t, "tx", "summary", "--by", "weekday")
	assert.ErrorContains(t, err, "--by")
}

func TestReportMonthly_InvalidMonth(t *testing.T) {
	_, err := runMemory(t, "report", "monthly", "--year", "2025", "--month", "13")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestReportInactive_Negative(t *testing.T) {
	_, err := runMemory(t, "report", "inactive", "--days", "-3")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestReportTopClients_Empty(t *testing.T) {
	out, err := runMemory(t, "--json", "report", "top-clients")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestStorageFlag_Rejected(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--storage", "sqlite", "client", "list"}, &out)
	assert.ErrorContains(t, err, "--storage")
}

func TestAccountSet_RejectsInfinity(t *testing.T) {
	_, err := runMemory(t, "account", "set-balance", "CPT-10000", "Inf")
	assert.ErrorContains(t, err, "must be a number")
}

func TestAccountOpen_InfiniteBalance(t *testing.T) {
	_, err := runMemory(t, "account", "open", "checking", "--client", "someone", "--balance", "+Inf")
	assert.ErrorIs(t, err, services.ErrInvalidBalance)
}

func TestRootHelp_NumberRange(t *testing.T) {
	long := (&cli{}).rootCmd().Long
	assert.Contains(t, long, "CPT-10000, CPT-10001, ... up to CPT-99999")
}

func TestReportMonthly_WritesToOutput(t *testing.T) {
	out, err := runMemory(t, "report", "monthly", "--year", "2025", "--month", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity for 2025-01")
	assert.Contains(t, out, "No transactions this month")
}
