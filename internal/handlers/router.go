package handlers

import (
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"bankguard/internal/metrics"
	"bankguard/internal/middleware"
)

type Handlers struct {
	Clients      *ClientHandler
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	Reports      *ReportHandler
}

// NewRouter builds the route table. collector may be nil, in which case
// /metrics is not exposed.
func NewRouter(h Handlers, collector *metrics.Collector) fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", health)
	if collector != nil {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(collector.Handler()))
	}

	r.POST("/clients", h.Clients.Create)
	r.GET("/clients", h.Clients.List)
	r.GET("/clients/{id}", h.Clients.Get)
	r.PUT("/clients/{id}", h.Clients.Update)
	r.DELETE("/clients/{id}", h.Clients.Delete)
	r.GET("/clients/{id}/report", h.Clients.Report)
	r.GET("/clients/{id}/accounts", h.Clients.Accounts)
	r.GET("/clients/{id}/transactions", h.Clients.Transactions)

	r.POST("/accounts/checking", h.Accounts.CreateChecking)
	r.POST("/accounts/savings", h.Accounts.CreateSavings)
	r.GET("/accounts", h.Accounts.List)
	r.GET("/accounts/{number}", h.Accounts.Get)
	r.PUT("/accounts/{number}/balance", h.Accounts.UpdateBalance)
	r.PUT("/accounts/{number}/overdraft", h.Accounts.UpdateOverdraft)
	r.PUT("/accounts/{number}/interest-rate", h.Accounts.UpdateInterestRate)
	r.DELETE("/accounts/{number}", h.Accounts.Delete)
	r.GET("/accounts/{number}/report", h.Accounts.Report)
	r.GET("/accounts/{number}/transactions", h.Accounts.Transactions)
	r.GET("/accounts/{number}/transactions/report", h.Accounts.TransactionReport)
	r.GET("/accounts/{number}/suspicious", h.Accounts.Suspicious)

	r.POST("/transactions", h.Transactions.Create)
	r.GET("/transactions", h.Transactions.List)
	r.GET("/transactions/{id}", h.Transactions.Get)
	r.PUT("/transactions/{id}", h.Transactions.Update)
	r.DELETE("/transactions/{id}", h.Transactions.Delete)

	r.GET("/reports/top-clients", h.Reports.TopClients)
	r.GET("/reports/monthly", h.Reports.Monthly)
	r.GET("/reports/inactive", h.Reports.Inactive)
	r.GET("/reports/suspicious", h.Reports.Suspicious)
	r.GET("/reports/balance-extrema", h.Reports.BalanceExtrema)
	r.GET("/reports/transactions", h.Transactions.Summary)

	return middleware.NewRequestLogger(collector).Wrap(r.Handler)
}

func health(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{
		"status":  "ok",
		"message": "BankGuard is running",
		"time":    time.Now().Format(time.RFC3339),
	})
}
