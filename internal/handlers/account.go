package handlers

import (
	"context"

	"github.com/valyala/fasthttp"

	"bankguard/internal/models"
	"bankguard/internal/services"
	"bankguard/internal/utils"
)

type AccountHandler struct {
	accounts     *services.AccountService
	transactions *services.TransactionService
	criteria     services.SuspicionCriteria
}

// NewAccountHandler takes the default suspicion criteria used when a request
// does not override them.
func NewAccountHandler(accounts *services.AccountService, transactions *services.TransactionService, criteria services.SuspicionCriteria) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		transactions: transactions,
		criteria:     criteria,
	}
}

// CreateChecking handles POST /accounts/checking.
func (h *AccountHandler) CreateChecking(ctx *fasthttp.RequestCtx) {
	var req models.CreateCheckingRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	account, err := h.accounts.CreateCheckingAccount(ctx, req.Balance, req.ClientID, req.Overdraft)
	if err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, models.NewAccountResponse(*account))
	utils.LogSuccess("AccountHandler", "Account %s opened", account.Number)
}

// CreateSavings handles POST /accounts/savings.
func (h *AccountHandler) CreateSavings(ctx *fasthttp.RequestCtx) {
	var req models.CreateSavingsRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	account, err := h.accounts.CreateSavingsAccount(ctx, req.Balance, req.ClientID, req.InterestRate)
	if err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, models.NewAccountResponse(*account))
	utils.LogSuccess("AccountHandler", "Account %s opened", account.Number)
}

// List handles GET /accounts.
func (h *AccountHandler) List(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, models.NewAccountListResponse(h.accounts.ListAccounts(ctx)))
}

// Get handles GET /accounts/{number}.
func (h *AccountHandler) Get(ctx *fasthttp.RequestCtx) {
	account, ok := h.lookup(ctx)
	if !ok {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, models.NewAccountResponse(*account))
}

// UpdateBalance handles PUT /accounts/{number}/balance.
func (h *AccountHandler) UpdateBalance(ctx *fasthttp.RequestCtx) {
	h.updateValue(ctx, "balance updated", h.accounts.UpdateBalance)
}

// UpdateOverdraft handles PUT /accounts/{number}/overdraft.
func (h *AccountHandler) UpdateOverdraft(ctx *fasthttp.RequestCtx) {
	h.updateValue(ctx, "overdraft updated", h.accounts.UpdateOverdraft)
}

// UpdateInterestRate handles PUT /accounts/{number}/interest-rate.
func (h *AccountHandler) UpdateInterestRate(ctx *fasthttp.RequestCtx) {
	h.updateValue(ctx, "interest rate updated", h.accounts.UpdateInterestRate)
}

// Delete handles DELETE /accounts/{number}.
func (h *AccountHandler) Delete(ctx *fasthttp.RequestCtx) {
	if err := h.accounts.DeleteAccount(ctx, pathParam(ctx, "number")); err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, "account deleted")
}

// Report handles GET /accounts/{number}/report.
func (h *AccountHandler) Report(ctx *fasthttp.RequestCtx) {
	account, ok := h.lookup(ctx)
	if !ok {
		return
	}

	report, err := h.accounts.AccountReport(ctx, account.ID)
	if err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, accountReportResponse{
		Account:          models.NewAccountResponse(report.Account),
		Owner:            report.Owner,
		TransactionCount: report.TransactionCount,
	})
}

// Transactions handles GET /accounts/{number}/transactions.
func (h *AccountHandler) Transactions(ctx *fasthttp.RequestCtx) {
	account, ok := h.lookup(ctx)
	if !ok {
		return
	}
	txs := h.transactions.TransactionsByAccount(ctx, account.ID)
	writeJSON(ctx, fasthttp.StatusOK, newTransactionList(txs, account.ID))
}

// TransactionReport handles GET /accounts/{number}/transactions/report.
func (h *AccountHandler) TransactionReport(ctx *fasthttp.RequestCtx) {
	account, ok := h.lookup(ctx)
	if !ok {
		return
	}

	report, err := h.transactions.TransactionReport(ctx, account.ID)
	if err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, newTransactionReportResponse(report))
}

// Suspicious handles GET /accounts/{number}/suspicious.
func (h *AccountHandler) Suspicious(ctx *fasthttp.RequestCtx) {
	account, ok := h.lookup(ctx)
	if !ok {
		return
	}

	criteria, err := criteriaFromQuery(ctx, h.criteria)
	if err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	flagged := h.transactions.DetectSuspiciousForAccount(ctx, account.ID, criteria)
	writeJSON(ctx, fasthttp.StatusOK, newTransactionList(flagged, account.ID))
}

func (h *AccountHandler) lookup(ctx *fasthttp.RequestCtx) (*models.Account, bool) {
	number := pathParam(ctx, "number")
	account, ok := h.accounts.FindAccountByNumber(ctx, number)
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "account not found: "+number)
		return nil, false
	}
	return account, true
}

func (h *AccountHandler) updateValue(ctx *fasthttp.RequestCtx, message string, update func(context.Context, string, float64) error) {
	var req models.ValueRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}

	if err := update(ctx, pathParam(ctx, "number"), req.Value); err != nil {
		writeServiceError(ctx, "AccountHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, message)
}
