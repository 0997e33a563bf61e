package handlers

import (
	"time"

	"bankguard/internal/models"
	"bankguard/internal/reports"
	"bankguard/internal/services"
)

type clientReportResponse struct {
	Client       models.Client           `json:"client"`
	AccountCount int                     `json:"account_count"`
	TotalBalance float64                 `json:"total_balance"`
	MaxAccount   *models.AccountResponse `json:"max_balance_account,omitempty"`
	MinAccount   *models.AccountResponse `json:"min_balance_account,omitempty"`
}

func newClientReportResponse(r *services.ClientReport) clientReportResponse {
	resp := clientReportResponse{
		Client:       r.Client,
		AccountCount: r.AccountCount,
		TotalBalance: r.TotalBalance,
	}
	if r.MaxAccount != nil {
		a := models.NewAccountResponse(*r.MaxAccount)
		resp.MaxAccount = &a
	}
	if r.MinAccount != nil {
		a := models.NewAccountResponse(*r.MinAccount)
		resp.MinAccount = &a
	}
	return resp
}

type accountReportResponse struct {
	Account          models.AccountResponse `json:"account"`
	Owner            *models.Client         `json:"owner,omitempty"`
	TransactionCount int                    `json:"transaction_count"`
}

type kindSummaryResponse struct {
	Kind    models.TransactionKind `json:"kind"`
	Count   int                    `json:"count"`
	Total   float64                `json:"total"`
	Average float64                `json:"average,omitempty"`
}

type transactionReportResponse struct {
	AccountID  string                `json:"account_id"`
	Count      int                   `json:"count"`
	Total      float64               `json:"total"`
	Average    float64               `json:"average"`
	ByKind     []kindSummaryResponse `json:"by_kind"`
	HighAmount []models.Transaction  `json:"high_amount"`
}

func newTransactionReportResponse(r *services.TransactionReport) transactionReportResponse {
	resp := transactionReportResponse{
		AccountID:  r.AccountID,
		Count:      r.Count,
		Total:      r.Total,
		Average:    r.Average,
		ByKind:     []kindSummaryResponse{},
		HighAmount: nonNil(r.HighAmount),
	}
	for _, k := range r.ByKind {
		resp.ByKind = append(resp.ByKind, kindSummaryResponse{Kind: k.Kind, Count: k.Count, Total: k.Total})
	}
	return resp
}

type clientBalanceResponse struct {
	Rank         int           `json:"rank"`
	Client       models.Client `json:"client"`
	TotalBalance float64       `json:"total_balance"`
	AccountCount int           `json:"account_count"`
}

type monthlyReportResponse struct {
	Month       string                `json:"month"`
	TotalCount  int                   `json:"total_count"`
	TotalVolume float64               `json:"total_volume"`
	ByKind      []kindSummaryResponse `json:"by_kind"`
}

func newMonthlyReportResponse(r reports.MonthlyReport) monthlyReportResponse {
	resp := monthlyReportResponse{
		Month:       r.Month.String(),
		TotalCount:  r.TotalCount,
		TotalVolume: r.TotalVolume,
		ByKind:      []kindSummaryResponse{},
	}
	for _, s := range r.Kinds() {
		resp.ByKind = append(resp.ByKind, kindSummaryResponse{
			Kind:    s.Kind,
			Count:   s.Count,
			Total:   s.Volume,
			Average: s.Average,
		})
	}
	return resp
}

type inactiveAccountResponse struct {
	Account      models.AccountResponse `json:"account"`
	Owner        string                 `json:"owner,omitempty"`
	LastActivity *time.Time             `json:"last_activity,omitempty"`
	DaysIdle     int                    `json:"days_idle,omitempty"`
}

type groupResponse struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

func newTransactionList(txs []models.Transaction, accountID string) models.TransactionListResponse {
	txs = nonNil(txs)
	return models.TransactionListResponse{
		Transactions: txs,
		Total:        len(txs),
		AccountID:    accountID,
	}
}

func nonNil(txs []models.Transaction) []models.Transaction {
	if txs == nil {
		return []models.Transaction{}
	}
	return txs
}
