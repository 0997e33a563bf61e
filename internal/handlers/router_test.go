package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"bankguard/internal/metrics"
	"bankguard/internal/reports"
	"bankguard/internal/repository/memory"
	"bankguard/internal/services"
)

type testServer struct {
	handler fasthttp.RequestHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clients := memory.NewClientRepository()
	accounts := memory.NewAccountRepository()
	transactions := memory.NewTransactionRepository(accounts)
	collector := metrics.NewCollector()

	clientSvc := services.NewClientService(clients, accounts)
	clientSvc.SetMetrics(collector)
	accountSvc := services.NewAccountService(accounts, clients, transactions)
	accountSvc.SetMetrics(collector)
	txSvc := services.NewTransactionService(transactions, accounts)
	txSvc.SetMetrics(collector)
	reportSvc := reports.NewService(clientSvc, accountSvc, txSvc)

	criteria := services.SuspicionCriteria{AmountThreshold: 10000, UsualCountry: "France", MaxMinutesBetween: 5}

	return &testServer{handler: NewRouter(Handlers{
		Clients:      NewClientHandler(clientSvc, accountSvc, txSvc),
		Accounts:     NewAccountHandler(accountSvc, txSvc, criteria),
		Transactions: NewTransactionHandler(txSvc),
		Reports:      NewReportHandler(reportSvc, accountSvc, criteria, 30),
	}, collector)}
}

func (s *testServer) do(t *testing.T, method, uri string, body interface{}) (int, []byte) {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyString(raw)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.handler(&ctx)

	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

func (s *testServer) createClient(t *testing.T, name string) string {
	t.Helper()
	status, body := s.do(t, fasthttp.MethodPost, "/clients", map[string]string{
		"name":  name,
		"email": "client@example.com",
	})
	require.Equal(t, fasthttp.StatusCreated, status, string(body))

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	return created.ID
}

func (s *testServer) openChecking(t *testing.T, clientID string, balance float64) string {
	t.Helper()
	status, body := s.do(t, fasthttp.MethodPost, "/accounts/checking", map[string]interface{}{
		"balance":   balance,
		"client_id": clientID,
		"overdraft": 100,
	})
	require.Equal(t, fasthttp.StatusCreated, status, string(body))

	var created struct {
		Number string `json:"number"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	return created.Number
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fasthttp.MethodGet, "/health", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestRouter_ClientLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createClient(t, "Alice Martin")

	status, body := s.do(t, fasthttp.MethodGet, "/clients/"+id, nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), "Alice Martin")

	status, body = s.do(t, fasthttp.MethodGet, "/clients?name=mart", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)

	status, _ = s.do(t, fasthttp.MethodPut, "/clients/"+id, map[string]string{"name": "Alice M.", "email": "alice@example.com"})
	assert.Equal(t, fasthttp.StatusOK, status)

	status, _ = s.do(t, fasthttp.MethodDelete, "/clients/"+id, nil)
	assert.Equal(t, fasthttp.StatusOK, status)

	status, _ = s.do(t, fasthttp.MethodGet, "/clients/"+id, nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestRouter_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	clientID := s.createClient(t, "Bob")
	number := s.openChecking(t, clientID, 500)

	tests := []struct {
		name   string
		method string
		uri    string
		body   interface{}
		want   int
	}{
		{"malformed body", fasthttp.MethodPost, "/clients", "{not json", fasthttp.StatusBadRequest},
		{"invalid email", fasthttp.MethodPost, "/clients", map[string]string{"name": "Eve", "email": "nope"}, fasthttp.StatusBadRequest},
		{"unknown client", fasthttp.MethodPost, "/accounts/savings", map[string]interface{}{"balance": 10, "client_id": "missing", "interest_rate": 2}, fasthttp.StatusNotFound},
		{"negative balance", fasthttp.MethodPut, "/accounts/" + number + "/balance", map[string]float64{"value": -1}, fasthttp.StatusBadRequest},
		{"rate on checking", fasthttp.MethodPut, "/accounts/" + number + "/interest-rate", map[string]float64{"value": 3}, fasthttp.StatusConflict},
		{"client owns accounts", fasthttp.MethodDelete, "/clients/" + clientID, nil, fasthttp.StatusConflict},
		{"unknown account", fasthttp.MethodGet, "/accounts/CPT-99999", nil, fasthttp.StatusNotFound},
		{"unknown transaction", fasthttp.MethodGet, "/transactions/missing", nil, fasthttp.StatusNotFound},
		{"bad kind filter", fasthttp.MethodGet, "/transactions?kind=refund", nil, fasthttp.StatusBadRequest},
		{"bad month", fasthttp.MethodGet, "/reports/monthly?year=2025&month=13", nil, fasthttp.StatusBadRequest},
		{"negative days", fasthttp.MethodGet, "/reports/inactive?days=-1", nil, fasthttp.StatusBadRequest},
		{"unknown route", fasthttp.MethodGet, "/nowhere", nil, fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(t, tt.method, tt.uri, tt.body)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}

func TestRouter_AccountsAndTransactions(t *testing.T) {
	s := newTestServer(t)
	clientID := s.createClient(t, "Carol")

	first := s.openChecking(t, clientID, 100)
	second := s.openChecking(t, clientID, 900)
	assert.Equal(t, "CPT-10000", first)
	assert.Equal(t, "CPT-10001", second)

	at := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	status, body := s.do(t, fasthttp.MethodPost, "/transactions", map[string]interface{}{
		"timestamp":      at,
		"amount":         15000,
		"kind":           "deposit",
		"location":       "Paris, France",
		"account_number": first,
	})
	require.Equal(t, fasthttp.StatusCreated, status, string(body))

	status, body = s.do(t, fasthttp.MethodGet, "/accounts/"+first+"/transactions", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)

	status, body = s.do(t, fasthttp.MethodGet, "/accounts/"+first+"/suspicious", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"total":1`)

	status, body = s.do(t, fasthttp.MethodGet, "/accounts/"+first+"/suspicious?threshold=20000", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"total":0`)

	status, _ = s.do(t, fasthttp.MethodDelete, "/accounts/"+first, nil)
	assert.Equal(t, fasthttp.StatusConflict, status)

	status, body = s.do(t, fasthttp.MethodGet, "/clients/"+clientID+"/report", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	var report struct {
		AccountCount int     `json:"account_count"`
		TotalBalance float64 `json:"total_balance"`
		MaxAccount   struct {
			Number string `json:"number"`
		} `json:"max_balance_account"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.AccountCount)
	assert.InDelta(t, 1000, report.TotalBalance, 1e-9)
	assert.Equal(t, second, report.MaxAccount.Number)

	status, body = s.do(t, fasthttp.MethodGet, "/reports/transactions?by=kind", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), "DEPOSIT")
}

func TestRouter_TopClientsRanked(t *testing.T) {
	s := newTestServer(t)
	poor := s.createClient(t, "Poor")
	rich := s.createClient(t, "Rich")
	s.openChecking(t, poor, 10)
	s.openChecking(t, rich, 5000)

	status, body := s.do(t, fasthttp.MethodGet, "/reports/top-clients", nil)
	require.Equal(t, fasthttp.StatusOK, status)

	var resp struct {
		Clients []struct {
			Rank   int `json:"rank"`
			Client struct {
				Name string `json:"name"`
			} `json:"client"`
		} `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Clients, 2)
	assert.Equal(t, "Rich", resp.Clients[0].Client.Name)
	assert.Equal(t, 1, resp.Clients[0].Rank)
	assert.Equal(t, "Poor", resp.Clients[1].Client.Name)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.createClient(t, "Dave")

	status, body := s.do(t, fasthttp.MethodGet, "/metrics", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `bankguard_operations_total{operation="create_client",outcome="ok"} 1`)
	assert.Contains(t, string(body), "bankguard_http_request_duration_seconds")
}
