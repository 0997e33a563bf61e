package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"bankguard/internal/models"
	"bankguard/internal/reports"
	"bankguard/internal/services"
	"bankguard/internal/validation"
)

type ReportHandler struct {
	reports      *reports.Service
	accounts     *services.AccountService
	criteria     services.SuspicionCriteria
	inactiveDays int
}

func NewReportHandler(reportService *reports.Service, accounts *services.AccountService, criteria services.SuspicionCriteria, inactiveDays int) *ReportHandler {
	return &ReportHandler{
		reports:      reportService,
		accounts:     accounts,
		criteria:     criteria,
		inactiveDays: inactiveDays,
	}
}

// TopClients handles GET /reports/top-clients.
func (h *ReportHandler) TopClients(ctx *fasthttp.RequestCtx) {
	top := h.reports.TopClientsByBalance(ctx)

	resp := make([]clientBalanceResponse, 0, len(top))
	for i, entry := range top {
		resp = append(resp, clientBalanceResponse{
			Rank:         i + 1,
			Client:       entry.Client,
			TotalBalance: entry.TotalBalance,
			AccountCount: entry.AccountCount,
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"clients": resp})
}

// Monthly handles GET /reports/monthly?year=2025&month=1. Both default to the
// current month.
func (h *ReportHandler) Monthly(ctx *fasthttp.RequestCtx) {
	now := time.Now()

	year, err := queryInt(ctx, "year", now.Year())
	if err != nil || !validation.IsValidYear(year) {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("invalid year %q", queryString(ctx, "year")))
		return
	}
	month, err := queryInt(ctx, "month", int(now.Month()))
	if err != nil || !validation.IsValidMonth(month) {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("invalid month %q", queryString(ctx, "month")))
		return
	}

	report := h.reports.MonthlyReport(ctx, models.YearMonth{Year: year, Month: time.Month(month)})
	writeJSON(ctx, fasthttp.StatusOK, newMonthlyReportResponse(report))
}

// Inactive handles GET /reports/inactive?days=90.
func (h *ReportHandler) Inactive(ctx *fasthttp.RequestCtx) {
	days, err := queryInt(ctx, "days", h.inactiveDays)
	if err != nil || days < 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "days must be a non-negative integer")
		return
	}

	inactive := h.reports.InactiveAccounts(ctx, days)
	resp := make([]inactiveAccountResponse, 0, len(inactive))
	for _, entry := range inactive {
		resp = append(resp, inactiveAccountResponse{
			Account:      models.NewAccountResponse(entry.Account),
			Owner:        entry.OwnerName,
			LastActivity: entry.LastActivity,
			DaysIdle:     entry.DaysIdle,
		})
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"days":     days,
		"accounts": resp,
		"total":    len(resp),
	})
}

// Suspicious handles GET /reports/suspicious?threshold=&country=&minutes=.
func (h *ReportHandler) Suspicious(ctx *fasthttp.RequestCtx) {
	criteria, err := criteriaFromQuery(ctx, h.criteria)
	if err != nil {
		writeServiceError(ctx, "ReportHandler", err)
		return
	}

	flagged := h.reports.SuspiciousTransactions(ctx, criteria)
	writeJSON(ctx, fasthttp.StatusOK, newTransactionList(flagged, ""))
}

// BalanceExtrema handles GET /reports/balance-extrema, optionally scoped with
// ?client_id=.
func (h *ReportHandler) BalanceExtrema(ctx *fasthttp.RequestCtx) {
	var maxAcc, minAcc *models.Account
	if clientID := queryString(ctx, "client_id"); clientID != "" {
		maxAcc, _ = h.accounts.MaxBalanceAccountByClient(ctx, clientID)
		minAcc, _ = h.accounts.MinBalanceAccountByClient(ctx, clientID)
	} else {
		maxAcc, _ = h.accounts.MaxBalanceAccount(ctx)
		minAcc, _ = h.accounts.MinBalanceAccount(ctx)
	}

	resp := map[string]interface{}{}
	if maxAcc != nil {
		resp["max"] = models.NewAccountResponse(*maxAcc)
	}
	if minAcc != nil {
		resp["min"] = models.NewAccountResponse(*minAcc)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func criteriaFromQuery(ctx *fasthttp.RequestCtx, defaults services.SuspicionCriteria) (services.SuspicionCriteria, error) {
	criteria := defaults

	threshold, err := queryFloat(ctx, "threshold", defaults.AmountThreshold)
	if err != nil {
		return criteria, err
	}
	criteria.AmountThreshold = threshold

	if ctx.QueryArgs().Has("country") {
		criteria.UsualCountry = queryString(ctx, "country")
	}

	if raw := queryString(ctx, "minutes"); raw != "" {
		minutes, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return criteria, fmt.Errorf("%w: query parameter minutes=%q", errBadRequest, raw)
		}
		criteria.MaxMinutesBetween = minutes
	}
	return criteria, nil
}
