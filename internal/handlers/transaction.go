package handlers

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/valyala/fasthttp"

	"bankguard/internal/models"
	"bankguard/internal/services"
	"bankguard/internal/utils"
)

type TransactionHandler struct {
	transactions *services.TransactionService
}

func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(ctx *fasthttp.RequestCtx) {
	in, err := decodeTransaction(ctx)
	if err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}

	tx, err := h.transactions.PostTransaction(ctx, in)
	if err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, tx)
	utils.LogSuccess("TransactionHandler", "Transaction %s posted", tx.ID)
}

// List handles GET /transactions. Optional filters: kind, location, min,
// max, from, to (RFC 3339).
func (h *TransactionHandler) List(ctx *fasthttp.RequestCtx) {
	txs, err := filtered(ctx, h.transactions.AllTransactions(ctx))
	if err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, newTransactionList(txs, ""))
}

// Summary handles GET /reports/transactions?by=kind|month|day|location and
// accepts the same filters as List.
func (h *TransactionHandler) Summary(ctx *fasthttp.RequestCtx) {
	txs, err := filtered(ctx, h.transactions.AllTransactions(ctx))
	if err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}

	var groups []groupResponse
	switch by := queryString(ctx, "by"); by {
	case "", "kind":
		groups = summarize(services.GroupByKind(txs), func(k models.TransactionKind) string { return string(k) })
	case "month":
		groups = summarize(services.GroupByMonth(txs), models.YearMonth.String)
	case "day":
		groups = summarize(services.GroupByDay(txs), models.Date.String)
	case "location":
		groups = summarize(services.GroupByLocation(txs), func(l string) string { return l })
	default:
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("cannot group by %q", by))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
		"groups": groups,
		"total":  services.TotalAmount(txs),
		"count":  len(txs),
	})
}

// Get handles GET /transactions/{id}.
func (h *TransactionHandler) Get(ctx *fasthttp.RequestCtx) {
	tx, ok := h.transactions.FindTransactionByID(ctx, pathParam(ctx, "id"))
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "transaction not found")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, tx)
}

// Update handles PUT /transactions/{id}.
func (h *TransactionHandler) Update(ctx *fasthttp.RequestCtx) {
	in, err := decodeTransaction(ctx)
	if err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}

	if err := h.transactions.UpdateTransaction(ctx, pathParam(ctx, "id"), in); err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, "transaction updated")
}

// Delete handles DELETE /transactions/{id}.
func (h *TransactionHandler) Delete(ctx *fasthttp.RequestCtx) {
	if err := h.transactions.DeleteTransaction(ctx, pathParam(ctx, "id")); err != nil {
		writeServiceError(ctx, "TransactionHandler", err)
		return
	}
	writeMessage(ctx, fasthttp.StatusOK, "transaction deleted")
}

func decodeTransaction(ctx *fasthttp.RequestCtx) (services.PostTransactionInput, error) {
	var req models.TransactionRequest
	if err := decodeBody(ctx, &req); err != nil {
		return services.PostTransactionInput{}, err
	}

	kind, err := models.ParseTransactionKind(req.Kind)
	if err != nil {
		return services.PostTransactionInput{}, fmt.Errorf("%w: %q", services.ErrInvalidKind, req.Kind)
	}

	return services.PostTransactionInput{
		Timestamp:     req.Timestamp,
		Amount:        req.Amount,
		Kind:          kind,
		Location:      req.Location,
		AccountNumber: req.AccountNumber,
	}, nil
}

func filtered(ctx *fasthttp.RequestCtx, txs []models.Transaction) ([]models.Transaction, error) {
	if raw := queryString(ctx, "kind"); raw != "" {
		kind, err := models.ParseTransactionKind(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", services.ErrInvalidKind, raw)
		}
		txs = services.FilterByKind(txs, kind)
	}

	txs = services.FilterByLocation(txs, queryString(ctx, "location"))

	minAmount, err := queryFloat(ctx, "min", 0)
	if err != nil {
		return nil, err
	}
	maxAmount, err := queryFloat(ctx, "max", math.Inf(1))
	if err != nil {
		return nil, err
	}
	txs = services.FilterByAmount(txs, minAmount, maxAmount)

	from, hasFrom, err := queryTime(ctx, "from")
	if err != nil {
		return nil, err
	}
	to, hasTo, err := queryTime(ctx, "to")
	if err != nil {
		return nil, err
	}
	if hasFrom || hasTo {
		if !hasTo {
			to = endOfTime
		}
		txs = services.FilterByDateRange(txs, from, to)
	}
	return txs, nil
}

var endOfTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

func summarize[K comparable](groups map[K][]models.Transaction, label func(K) string) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for key, txs := range groups {
		out = append(out, groupResponse{
			Key:   label(key),
			Count: len(txs),
			Total: services.TotalAmount(txs),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
